package metrics

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-connlog/config"
)

// Config 指标配置
type Config struct {
	// Enabled 是否统计按介质划分的流量
	Enabled bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{Enabled: true}
}

// ConfigFromUnified 从统一配置创建指标配置
//
// 流量统计跟随事件汇的指标开关。
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{Enabled: cfg.EventLog.EnableMetrics}
}

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Clock      clock.Clock    `optional:"true"`
}

// Module 返回 metrics 的 Fx 模块
//
// 指标关闭时提供的 Reporter 为 nil，使用方需要判空。
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(NewReporter),
	)
}

// NewReporter 从参数创建 Reporter
func NewReporter(p Params) Reporter {
	if !ConfigFromUnified(p.UnifiedCfg).Enabled {
		return nil
	}
	return NewBandwidthCounter(p.Clock)
}
