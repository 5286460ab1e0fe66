package eventlog

import (
	"log/slog"

	"github.com/dep2p/go-connlog/config"
)

// Config 事件汇配置
type Config struct {
	EnableArchive bool
	EnableMetrics bool
	EnableSlog    bool

	// ArchivePrefix 归档在 storage 根前缀下的子前缀
	ArchivePrefix string

	// MetricsNamespace Prometheus 命名空间
	MetricsNamespace string

	// MemoryCapacity 内存中保留的最近记录数
	MemoryCapacity int

	// SlogLevel 日志事件汇的输出级别
	SlogLevel slog.Level
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		EnableMetrics:    true,
		EnableSlog:       true,
		ArchivePrefix:    "connlog/",
		MetricsNamespace: "connlog",
		MemoryCapacity:   64,
		SlogLevel:        slog.LevelInfo,
	}
}

// ConfigFromUnified 从统一配置创建事件汇配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.EnableArchive = cfg.EventLog.EnableArchive
	c.EnableMetrics = cfg.EventLog.EnableMetrics
	c.EnableSlog = cfg.EventLog.EnableSlog
	if cfg.EventLog.ArchivePrefix != "" {
		c.ArchivePrefix = cfg.EventLog.ArchivePrefix
	}
	if cfg.EventLog.MetricsNamespace != "" {
		c.MetricsNamespace = cfg.EventLog.MetricsNamespace
	}
	return c
}
