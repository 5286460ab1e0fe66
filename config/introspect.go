package config

import (
	"fmt"
	"net"
)

// IntrospectConfig 本地诊断服务配置
type IntrospectConfig struct {
	// Enabled 是否启动诊断服务
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Addr 监听地址
	// 默认值: "127.0.0.1:6061"
	Addr string `json:"addr" yaml:"addr"`
}

// DefaultIntrospectConfig 返回默认诊断服务配置
func DefaultIntrospectConfig() IntrospectConfig {
	return IntrospectConfig{
		Enabled: false,
		Addr:    "127.0.0.1:6061",
	}
}

// Validate 验证诊断服务配置
func (c *IntrospectConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("introspect: invalid addr %q: %w", c.Addr, err)
	}
	return nil
}
