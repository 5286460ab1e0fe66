package app

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/pkg/interfaces"
)

// BootstrapOption Bootstrap 配置选项
type BootstrapOption func(*Bootstrap)

// WithConfig 设置配置
func WithConfig(cfg *config.Config) BootstrapOption {
	return func(b *Bootstrap) {
		if cfg != nil {
			b.config = cfg
		}
	}
}

// WithBuildOptions 替换构建选项
func WithBuildOptions(opts BuildOptions) BootstrapOption {
	return func(b *Bootstrap) {
		b.opts = opts
	}
}

// WithClock 注入时钟（测试使用 clock.NewMock）
func WithClock(clk clock.Clock) BootstrapOption {
	return func(b *Bootstrap) {
		b.opts.Clock = clk
	}
}

// WithRegistry 使用外部 Prometheus 注册表
func WithRegistry(reg *prometheus.Registry) BootstrapOption {
	return func(b *Bootstrap) {
		b.opts.Registry = reg
	}
}

// WithEventLoggers 追加事件汇，加入 event_loggers 组
func WithEventLoggers(sinks ...interfaces.EventLogger) BootstrapOption {
	return func(b *Bootstrap) {
		b.opts.EventLoggers = append(b.opts.EventLoggers, sinks...)
	}
}

// WithLogFile 把日志重定向到文件
func WithLogFile(path string) BootstrapOption {
	return func(b *Bootstrap) {
		b.opts.LogFile = path
	}
}

// WithFxOptions 追加用户 fx 选项
func WithFxOptions(opts ...fx.Option) BootstrapOption {
	return func(b *Bootstrap) {
		b.opts.FxOptions = append(b.opts.FxOptions, opts...)
	}
}

// BuildOptions 构建选项
type BuildOptions struct {
	// StartTimeout 启动超时
	StartTimeout time.Duration

	// StopTimeout 停止超时
	StopTimeout time.Duration

	// LogFile 日志文件路径，为空时输出到 stderr
	LogFile string

	// Clock 时钟，为空时使用系统时钟
	Clock clock.Clock

	// Registry 指标注册表，为空时新建
	Registry *prometheus.Registry

	// EventLoggers 额外的事件汇
	EventLoggers []interfaces.EventLogger

	// FxOptions 用户扩展
	FxOptions []fx.Option
}

// DefaultBuildOptions 默认构建选项
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		StartTimeout: 30 * time.Second,
		StopTimeout:  30 * time.Second,
	}
}
