package connlog

import (
	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-connlog/internal/core/analytics"
	"github.com/dep2p/go-connlog/pkg/interfaces"
)

// Version 当前版本
const Version = "v0.1.0"

// Recorder 连接生命周期记录器
type Recorder = analytics.Recorder

// RecorderStats 记录器状态快照
type RecorderStats = analytics.Stats

// RecorderConfig 记录器配置
type RecorderConfig = analytics.Config

// RecorderOption 记录器选项
type RecorderOption = analytics.Option

// NewRecorder 创建独立的记录器
//
// 不经过 fx 组装，调用方自己负责 LogSession 与 Close。
func NewRecorder(sink interfaces.EventLogger, opts ...RecorderOption) *Recorder {
	return analytics.New(sink, opts...)
}

// DefaultRecorderConfig 返回默认记录器配置
func DefaultRecorderConfig() RecorderConfig {
	return analytics.DefaultConfig()
}

// WithRecorderClock 设置记录器时钟
func WithRecorderClock(c clock.Clock) RecorderOption {
	return analytics.WithClock(c)
}

// WithRecorderConfig 设置记录器配置
func WithRecorderConfig(cfg RecorderConfig) RecorderOption {
	return analytics.WithConfig(cfg)
}

// WithNoRecordTime 不记录时间（确定性输出，测试使用）
func WithNoRecordTime() RecorderOption {
	return analytics.WithNoRecordTime()
}
