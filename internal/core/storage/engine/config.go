package engine

import (
	"os"
	"path/filepath"
	"time"
)

// Config 存储引擎配置
//
// 测试代码应使用 t.TempDir() 创建临时目录。
type Config struct {
	// Path 数据目录路径（必需）
	Path string

	// SyncWrites 每次写入都同步到磁盘
	SyncWrites bool

	// ReadOnly 只读打开，供 dump / export 读取正在使用之外的归档
	ReadOnly bool

	// Badger 特定选项
	Badger BadgerOptions
}

// BadgerOptions BadgerDB 特定选项
type BadgerOptions struct {
	// MemTableSize 内存表大小（字节），默认 16MB
	MemTableSize int64

	// ValueLogFileSize 值日志文件大小（字节），默认 64MB
	ValueLogFileSize int64

	// BlockCacheSize 块缓存大小（字节），默认 32MB
	BlockCacheSize int64

	// ZSTDCompressionLevel ZSTD 压缩级别，0 表示禁用
	ZSTDCompressionLevel int

	// GCInterval 值日志 GC 间隔，0 表示不启动 GC
	GCInterval time.Duration

	// GCDiscardRatio 值日志 GC 丢弃比例
	GCDiscardRatio float64
}

// DefaultConfig 返回默认配置
//
// 会话记录体积小、写入稀疏，默认值比通用 KV 场景小得多。
func DefaultConfig(path string) *Config {
	return &Config{
		Path:   path,
		Badger: DefaultBadgerOptions(),
	}
}

// DefaultBadgerOptions 返回默认 BadgerDB 选项
func DefaultBadgerOptions() BadgerOptions {
	return BadgerOptions{
		MemTableSize:         16 << 20,
		ValueLogFileSize:     64 << 20,
		BlockCacheSize:       32 << 20,
		ZSTDCompressionLevel: 1,
		GCInterval:           10 * time.Minute,
		GCDiscardRatio:       0.5,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Path == "" {
		return ErrInvalidConfig
	}
	if c.Badger.MemTableSize < 1<<20 || c.Badger.ValueLogFileSize < 1<<20 {
		return ErrInvalidConfig
	}
	return nil
}

// EnsureDir 确保数据目录存在并转换为绝对路径
func (c *Config) EnsureDir() error {
	absPath, err := filepath.Abs(c.Path)
	if err != nil {
		return err
	}
	c.Path = absPath
	return os.MkdirAll(c.Path, 0o755)
}
