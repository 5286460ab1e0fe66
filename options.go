package connlog

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/internal/app"
	"github.com/dep2p/go-connlog/pkg/interfaces"
)

// Option 服务配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 基础配置（文件或调用方提供）
	config *config.Config

	// 归档配置
	archive struct {
		enable  *bool
		dataDir string
	}

	// 自省服务配置
	introspect struct {
		enable *bool
		addr   string
	}

	// 额外事件汇
	sinks []interfaces.EventLogger

	clock    clock.Clock
	registry *prometheus.Registry

	// 日志配置
	logFile string
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{}
}

// toConfig 转换为统一配置
func (o *options) toConfig() *config.Config {
	cfg := o.config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	if o.archive.enable != nil {
		cfg.EventLog.EnableArchive = *o.archive.enable
	}
	if o.archive.dataDir != "" {
		cfg.Storage.DataDir = o.archive.dataDir
	}

	if o.introspect.enable != nil {
		cfg.Introspect.Enabled = *o.introspect.enable
	}
	if o.introspect.addr != "" {
		cfg.Introspect.Addr = o.introspect.addr
	}
	return cfg
}

// toBootstrapOptions 转换为引导选项
func (o *options) toBootstrapOptions() []app.BootstrapOption {
	opts := []app.BootstrapOption{
		app.WithEventLoggers(o.sinks...),
		app.WithLogFile(o.logFile),
	}
	if o.clock != nil {
		opts = append(opts, app.WithClock(o.clock))
	}
	if o.registry != nil {
		opts = append(opts, app.WithRegistry(o.registry))
	}
	return opts
}

// WithConfig 使用完整配置
//
// 之后的选项在此基础上覆盖。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("connlog: nil config")
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON / YAML 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return fmt.Errorf("connlog: load config: %w", err)
		}
		o.config = cfg
		return nil
	}
}

// WithArchive 开启归档，记录写入 dataDir 下的 BadgerDB
func WithArchive(dataDir string) Option {
	return func(o *options) error {
		enable := true
		o.archive.enable = &enable
		o.archive.dataDir = dataDir
		return nil
	}
}

// WithIntrospect 开启诊断服务
//
// addr 为空时使用默认地址 127.0.0.1:6061。
//
// 安全警告: 不建议将诊断服务暴露到公网，pprof 端点可能泄露敏感信息。
func WithIntrospect(addr string) Option {
	return func(o *options) error {
		enable := true
		o.introspect.enable = &enable
		o.introspect.addr = addr
		return nil
	}
}

// WithEventLogger 追加事件汇
//
// 实现了 io.Closer 的事件汇在服务关闭时被关闭。
func WithEventLogger(sink interfaces.EventLogger) Option {
	return func(o *options) error {
		if sink == nil {
			return ErrNilEventLogger
		}
		o.sinks = append(o.sinks, sink)
		return nil
	}
}

// WithClock 设置时钟
func WithClock(c clock.Clock) Option {
	return func(o *options) error {
		o.clock = c
		return nil
	}
}

// WithRegistry 使用外部 Prometheus 注册表
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) error {
		o.registry = reg
		return nil
	}
}

// WithLogFile 把日志重定向到文件
func WithLogFile(path string) Option {
	return func(o *options) error {
		o.logFile = path
		return nil
	}
}
