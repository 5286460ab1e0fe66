package analytics

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/pkg/interfaces"
)

// Params 记录器模块依赖参数
type Params struct {
	fx.In

	Sink       interfaces.EventLogger
	UnifiedCfg *config.Config `optional:"true"`
	Clock      clock.Clock    `optional:"true"`
}

// MetricsParams 指标注册依赖
type MetricsParams struct {
	fx.In

	Recorder   *Recorder
	Registerer prometheus.Registerer `optional:"true"`
	UnifiedCfg *config.Config        `optional:"true"`
}

// Result 记录器模块提供的结果
type Result struct {
	fx.Out

	Recorder  *Recorder
	Interface interfaces.Recorder
	Config    Config
}

// Module 返回记录器 Fx 模块
//
// 提供:
//   - *Recorder / interfaces.Recorder: 连接生命周期记录器
//   - Config: 记录器配置
//
// 生命周期:
//   - OnStop: 结束会话（若尚未结束），等待投递完成后关闭
//
// 提供了 prometheus.Registerer 时注册记录器状态指标。
func Module() fx.Option {
	return fx.Module("analytics",
		fx.Provide(ProvideRecorder),
		fx.Invoke(registerCollector),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideRecorder 提供记录器
func ProvideRecorder(p Params) Result {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	r := New(p.Sink, WithConfig(cfg), WithClock(p.Clock))
	return Result{
		Recorder:  r,
		Interface: r,
		Config:    cfg,
	}
}

func registerCollector(p MetricsParams) error {
	if p.Registerer == nil {
		return nil
	}
	namespace := "connlog"
	if p.UnifiedCfg != nil && p.UnifiedCfg.EventLog.MetricsNamespace != "" {
		namespace = p.UnifiedCfg.EventLog.MetricsNamespace
	}
	return p.Registerer.Register(NewCollector(p.Recorder, namespace))
}

func registerLifecycle(lc fx.Lifecycle, r *Recorder) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("记录器已启动", "session", r.SessionID())
			return nil
		},
		OnStop: func(_ context.Context) error {
			r.LogSession()
			err := r.Close()
			logger.Info("记录器已关闭", "session", r.SessionID(), "dropped", r.Stats().DroppedCalls)
			return err
		},
	})
}
