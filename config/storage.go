package config

import (
	"fmt"
	"path/filepath"
)

// StorageConfig 存储配置
//
// 数据目录结构：
//
//	${DataDir}/
//	└── connlog.db/         # BadgerDB 归档数据库
type StorageConfig struct {
	// DataDir 数据目录路径
	// 默认值: "./data"
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// SyncWrites 每次写入同步到磁盘
	SyncWrites bool `json:"sync_writes,omitempty" yaml:"sync_writes,omitempty"`
}

// DefaultStorageConfig 返回默认的存储配置
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		DataDir: "./data",
	}
}

// Validate 验证存储配置的有效性
func (c *StorageConfig) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("storage: data_dir cannot be empty")
	}
	return nil
}

// DBPath 返回 BadgerDB 数据库路径
func (c *StorageConfig) DBPath() string {
	return filepath.Join(c.DataDir, "connlog.db")
}
