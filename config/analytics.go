package config

import (
	"errors"
	"time"
)

// AnalyticsConfig 连接生命周期记录器配置
type AnalyticsConfig struct {
	// Enabled 是否启用记录；关闭时所有上报都被丢弃
	Enabled bool `json:"enabled" yaml:"enabled"`

	// NoRecordTime 不记录任何时长（用于确定性输出）
	NoRecordTime bool `json:"no_record_time,omitempty" yaml:"no_record_time,omitempty"`

	// KeepFailedUpgradeAttempts 失败的带宽升级记录保留到下一次 Started，
	// 期间重复的结果上报会被忽略
	KeepFailedUpgradeAttempts bool `json:"keep_failed_upgrade_attempts,omitempty" yaml:"keep_failed_upgrade_attempts,omitempty"`

	// DropLogInterval 丢弃上报的调试日志最小间隔
	// 默认值: 1s
	DropLogInterval Duration `json:"drop_log_interval" yaml:"drop_log_interval"`
}

// DefaultAnalyticsConfig 返回默认记录器配置
func DefaultAnalyticsConfig() AnalyticsConfig {
	return AnalyticsConfig{
		Enabled:         true,
		DropLogInterval: Duration(time.Second),
	}
}

// Validate 验证记录器配置
func (c *AnalyticsConfig) Validate() error {
	if c.DropLogInterval < 0 {
		return errors.New("analytics: drop_log_interval cannot be negative")
	}
	return nil
}
