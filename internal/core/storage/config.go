package storage

import (
	"time"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/internal/core/storage/engine"
)

// Config Storage 模块配置
type Config struct {
	// Path BadgerDB 数据库目录（必需）
	Path string

	// SyncWrites 每次写入同步到磁盘
	SyncWrites bool

	// ReadOnly 只读打开
	ReadOnly bool

	// GCInterval 值日志 GC 间隔，0 表示关闭
	GCInterval time.Duration

	// GCDiscardRatio 值日志 GC 丢弃比例
	GCDiscardRatio float64

	// Compression ZSTD 压缩级别（0 禁用）
	Compression int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Path:           "./data/connlog.db",
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
		Compression:    1,
	}
}

// ConfigFromUnified 从统一配置的 Storage 段创建配置
func ConfigFromUnified(cfg *config.Config) Config {
	storageCfg := DefaultConfig()
	if cfg == nil {
		return storageCfg
	}
	if cfg.Storage.DataDir != "" {
		storageCfg.Path = cfg.Storage.DBPath()
	}
	storageCfg.SyncWrites = cfg.Storage.SyncWrites
	return storageCfg
}

// ToEngineConfig 转换为引擎配置
func (c *Config) ToEngineConfig() *engine.Config {
	engineCfg := engine.DefaultConfig(c.Path)
	engineCfg.SyncWrites = c.SyncWrites
	engineCfg.ReadOnly = c.ReadOnly
	engineCfg.Badger.GCInterval = c.GCInterval
	engineCfg.Badger.GCDiscardRatio = c.GCDiscardRatio
	engineCfg.Badger.ZSTDCompressionLevel = c.Compression
	return engineCfg
}

// Validate 验证配置并修正越界的 GC 参数
func (c *Config) Validate() error {
	if c.Path == "" {
		return ErrInvalidConfig
	}
	if c.GCInterval > 0 && c.GCInterval < time.Minute {
		c.GCInterval = time.Minute
	}
	if c.GCDiscardRatio <= 0 || c.GCDiscardRatio > 1 {
		c.GCDiscardRatio = 0.5
	}
	return nil
}
