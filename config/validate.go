package config

import (
	"errors"
)

// ValidateAll 验证整个配置的有效性
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并修复可自动修复的问题
//
// 可修复的问题：
//   - 负的丢弃日志间隔 -> 使用默认值
//   - 归档开启但前缀为空 -> 使用默认前缀
//   - 指标命名空间为空 -> 使用默认命名空间
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	if c.Analytics.DropLogInterval < 0 {
		c.Analytics.DropLogInterval = DefaultAnalyticsConfig().DropLogInterval
	}
	if c.EventLog.EnableArchive && c.EventLog.ArchivePrefix == "" {
		c.EventLog.ArchivePrefix = DefaultEventLogConfig().ArchivePrefix
	}
	if c.EventLog.MetricsNamespace == "" {
		c.EventLog.MetricsNamespace = DefaultEventLogConfig().MetricsNamespace
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustValidate 验证配置，如果失败则 panic
//
// 仅用于初始化阶段或测试代码。
func MustValidate(c *Config) {
	if err := ValidateAll(c); err != nil {
		panic(err)
	}
}
