// Package app 提供 connlog 应用编排层
//
// app 包负责：
// - fx 模块组装
// - 依赖注入协调
// - 生命周期管理
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/internal/core/analytics"
	"github.com/dep2p/go-connlog/internal/core/eventlog"
	"github.com/dep2p/go-connlog/internal/core/introspect"
	utillogger "github.com/dep2p/go-connlog/internal/util/logger"
	"github.com/dep2p/go-connlog/pkg/lib/log"
)

var logger = log.Logger("app")

// Bootstrap 应用引导程序
//
// Bootstrap 负责：
// - 校验配置
// - 组装 fx 模块
// - 管理应用生命周期
type Bootstrap struct {
	config  *config.Config
	opts    BuildOptions
	fxApp   *fx.App
	logFile *os.File

	recorder *analytics.Recorder
	memory   *eventlog.MemoryLogger
	archive  *eventlog.StoreLogger
	server   *introspect.Server
}

// NewBootstrap 创建引导程序
//
// cfg 为 nil 时使用默认配置。
func NewBootstrap(cfg *config.Config, opts ...BootstrapOption) *Bootstrap {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	b := &Bootstrap{
		config: cfg,
		opts:   DefaultBuildOptions(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.opts.Registry == nil {
		b.opts.Registry = prometheus.NewRegistry()
	}
	defaults := DefaultBuildOptions()
	if b.opts.StartTimeout <= 0 {
		b.opts.StartTimeout = defaults.StartTimeout
	}
	if b.opts.StopTimeout <= 0 {
		b.opts.StopTimeout = defaults.StopTimeout
	}
	return b
}

// Build 构建并启动运行时
//
// 返回的 Runtime.Stop 会触发 fx OnStop：记录器结束会话，事件汇投递完毕后关闭存储。
func (b *Bootstrap) Build(ctx context.Context) (*Runtime, error) {
	cfg, err := config.ValidateAndFix(b.config)
	if err != nil {
		return nil, fmt.Errorf("配置无效: %w", err)
	}
	b.config = cfg

	// 应用日志配置（必须在所有模块初始化之前）
	if err := b.setupLogging(); err != nil {
		return nil, fmt.Errorf("设置日志失败: %w", err)
	}

	b.fxApp = fx.New(
		fx.Options(b.setupModules()...),
		fx.Populate(&b.recorder, &b.memory),
		fx.Invoke(func(in runtimeParams) {
			b.archive = in.Archive
			b.server = in.Server
		}),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)
	if err := b.fxApp.Err(); err != nil {
		b.closeLogFile()
		return nil, fmt.Errorf("组装模块失败: %w", err)
	}

	startCtx, cancel := context.WithTimeout(ctx, b.opts.StartTimeout)
	defer cancel()

	if err := b.fxApp.Start(startCtx); err != nil {
		b.closeLogFile()
		return nil, fmt.Errorf("启动应用失败: %w", err)
	}
	logger.Info("connlog 已启动",
		"session", b.recorder.SessionID(), "archive", b.archive != nil, "introspect", b.config.Introspect.Enabled)

	return &Runtime{
		Recorder:   b.recorder,
		Memory:     b.memory,
		Archive:    b.archive,
		Introspect: b.server,
		Registry:   b.opts.Registry,
		Config:     b.config,
		stop:       b.Stop,
	}, nil
}

// Stop 停止应用
func (b *Bootstrap) Stop(ctx context.Context) error {
	if b.fxApp == nil {
		return nil
	}
	defer b.closeLogFile()

	stopCtx, cancel := context.WithTimeout(ctx, b.opts.StopTimeout)
	defer cancel()

	return b.fxApp.Stop(stopCtx)
}

// runtimeParams 取出可选组件
type runtimeParams struct {
	fx.In

	Archive *eventlog.StoreLogger `optional:"true"`
	Server  *introspect.Server    `optional:"true"`
}

// setupModules 组装所有 fx 模块
func (b *Bootstrap) setupModules() []fx.Option {
	modules := []fx.Option{
		// 配置（Tier 0）
		b.setupConfigModule(),

		// 存储（Tier 1，仅归档开启时）
		b.setupStorageLayer(),

		// 事件汇与记录器（Tier 2）
		CoreModules(),

		// 诊断（Tier 3）
		DiagnosticsModules(),
	}

	if len(b.opts.FxOptions) > 0 {
		modules = append(modules, b.opts.FxOptions...)
	}
	return modules
}

// setupConfigModule 提供配置、指标注册表与时钟
func (b *Bootstrap) setupConfigModule() fx.Option {
	reg := b.opts.Registry
	opts := []fx.Option{
		fx.Supply(b.config),
		fx.Provide(
			func() prometheus.Registerer { return reg },
			func() prometheus.Gatherer { return reg },
		),
	}
	if clk := b.opts.Clock; clk != nil {
		opts = append(opts, fx.Provide(func() clock.Clock { return clk }))
	}
	for _, sink := range b.opts.EventLoggers {
		opts = append(opts, AsEventLogger(sink))
	}
	return fx.Options(opts...)
}

// setupStorageLayer 存储模块
//
// 归档关闭时不打开数据库。
func (b *Bootstrap) setupStorageLayer() fx.Option {
	if !b.config.EventLog.EnableArchive {
		return fx.Options()
	}
	return StorageModules()
}

// setupLogging 配置日志输出
//
// 如果指定了 LogFile，将所有日志重定向到文件
func (b *Bootstrap) setupLogging() error {
	if b.opts.LogFile == "" {
		return nil
	}

	// 打开日志文件（追加模式）
	file, err := os.OpenFile(b.opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}
	b.logFile = file

	utillogger.SetOutput(file)
	logger.Info("日志文件初始化成功", "path", b.opts.LogFile)
	return nil
}

func (b *Bootstrap) closeLogFile() {
	if b.logFile == nil {
		return
	}
	utillogger.SetOutput(os.Stderr)
	_ = b.logFile.Close()
	b.logFile = nil
}
