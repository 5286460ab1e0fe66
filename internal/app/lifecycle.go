package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dep2p/go-connlog/internal/core/analytics"
)

// App connlog 应用接口
//
// App 提供应用级别的生命周期管理
type App interface {
	// Recorder 返回记录器
	Recorder() *analytics.Recorder

	// Runtime 返回运行时句柄
	Runtime() *Runtime

	// Wait 等待应用收到退出信号或被 Stop
	Wait()

	// Stop 停止应用
	Stop() error
}

// internalApp App 的内部实现
type internalApp struct {
	runtime  *Runtime
	stopOnce sync.Once
	stopped  chan struct{}
	signals  chan os.Signal
	stopErr  error
}

// RunApp 运行 connlog 应用
//
// 这是一个便捷函数，用于以服务方式运行记录器：
// - 构建并启动运行时
// - 等待退出信号
// - 优雅关闭（输出会话、关闭存储）
//
// 示例:
//
//	a, err := app.RunApp(ctx, app.NewBootstrap(cfg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a.Wait()
func RunApp(ctx context.Context, bootstrap *Bootstrap) (App, error) {
	rt, err := bootstrap.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("启动应用失败: %w", err)
	}

	a := &internalApp{
		runtime: rt,
		stopped: make(chan struct{}),
		signals: make(chan os.Signal, 1),
	}
	signal.Notify(a.signals, syscall.SIGINT, syscall.SIGTERM)
	return a, nil
}

// Recorder 返回记录器
func (a *internalApp) Recorder() *analytics.Recorder {
	return a.runtime.Recorder
}

// Runtime 返回运行时句柄
func (a *internalApp) Runtime() *Runtime {
	return a.runtime
}

// Wait 等待应用收到退出信号
func (a *internalApp) Wait() {
	select {
	case sig := <-a.signals:
		logger.Info("收到信号，正在退出", "signal", sig.String())
	case <-a.stopped:
		return
	}

	_ = a.Stop()
}

// Stop 停止应用
func (a *internalApp) Stop() error {
	a.stopOnce.Do(func() {
		signal.Stop(a.signals)
		defer close(a.stopped)

		ctx := context.Background()
		if err := a.runtime.Stop(ctx); err != nil {
			a.stopErr = fmt.Errorf("停止运行时失败: %w", err)
		}
	})
	return a.stopErr
}
