package config

import (
	"errors"
	"strings"
)

// EventLogConfig 事件汇配置
//
// 多个事件汇同时开启时，记录会依次交给每一个。
type EventLogConfig struct {
	// EnableArchive 把编码后的记录归档到 BadgerDB
	EnableArchive bool `json:"enable_archive" yaml:"enable_archive"`

	// EnableMetrics 统计 Prometheus 指标
	EnableMetrics bool `json:"enable_metrics" yaml:"enable_metrics"`

	// EnableSlog 以结构化日志输出记录摘要
	EnableSlog bool `json:"enable_slog" yaml:"enable_slog"`

	// ArchivePrefix 归档键前缀
	// 默认值: "connlog/"
	ArchivePrefix string `json:"archive_prefix" yaml:"archive_prefix"`

	// MetricsNamespace Prometheus 命名空间
	// 默认值: "connlog"
	MetricsNamespace string `json:"metrics_namespace" yaml:"metrics_namespace"`
}

// DefaultEventLogConfig 返回默认事件汇配置
func DefaultEventLogConfig() EventLogConfig {
	return EventLogConfig{
		EnableArchive:    false,
		EnableMetrics:    true,
		EnableSlog:       true,
		ArchivePrefix:    "connlog/",
		MetricsNamespace: "connlog",
	}
}

// Validate 验证事件汇配置
func (c *EventLogConfig) Validate() error {
	if c.EnableArchive && c.ArchivePrefix == "" {
		return errors.New("event_log: archive_prefix cannot be empty when archive is enabled")
	}
	if c.EnableMetrics && strings.ContainsAny(c.MetricsNamespace, " -/") {
		return errors.New("event_log: metrics_namespace must be a valid prometheus name")
	}
	return nil
}
