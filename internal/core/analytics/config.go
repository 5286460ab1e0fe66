package analytics

import (
	"time"

	"github.com/dep2p/go-connlog/config"
)

// Config 记录器配置
type Config struct {
	// Enabled 关闭时所有上报都被丢弃
	Enabled bool

	// NoRecordTime 所有时长记为 0，用于确定性输出
	NoRecordTime bool

	// KeepFailedUpgradeAttempts 失败的升级尝试保留到下一次 Started
	KeepFailedUpgradeAttempts bool

	// DropLogInterval 丢弃日志的最小间隔，<= 0 表示不限速
	DropLogInterval time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		DropLogInterval: time.Second,
	}
}

// ConfigFromUnified 从统一配置创建记录器配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}

	c.Enabled = cfg.Analytics.Enabled
	c.NoRecordTime = cfg.Analytics.NoRecordTime
	c.KeepFailedUpgradeAttempts = cfg.Analytics.KeepFailedUpgradeAttempts
	c.DropLogInterval = cfg.Analytics.DropLogInterval.Duration()
	return c
}
