// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON / YAML 加载配置
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Analytics.KeepFailedUpgradeAttempts = true
//
//	cfg, err := config.LoadFile("connlog.yaml")
package config

// Config 是 connlog 的完整配置结构
//
// 配置按照功能模块组织：
//   - Analytics: 连接生命周期记录器
//   - EventLog: 事件汇（归档、指标、日志）
//   - Storage: 存储目录
//   - Introspect: 本地诊断服务
type Config struct {
	// Analytics 记录器配置
	Analytics AnalyticsConfig `json:"analytics" yaml:"analytics"`

	// EventLog 事件汇配置
	EventLog EventLogConfig `json:"event_log" yaml:"event_log"`

	// Storage 存储配置
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Introspect 诊断服务配置
	Introspect IntrospectConfig `json:"introspect" yaml:"introspect"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Analytics:  DefaultAnalyticsConfig(),
		EventLog:   DefaultEventLogConfig(),
		Storage:    DefaultStorageConfig(),
		Introspect: DefaultIntrospectConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if err := c.Analytics.Validate(); err != nil {
		return err
	}
	if err := c.EventLog.Validate(); err != nil {
		return err
	}
	// 只有归档开启时才需要存储目录
	if c.EventLog.EnableArchive {
		if err := c.Storage.Validate(); err != nil {
			return err
		}
	}
	return c.Introspect.Validate()
}
