// Package log 提供 connlog 统一日志入口
//
// 基于 Go 标准库 log/slog，按组件名取得子系统 logger，
// 级别与格式由 internal/util/logger 的环境变量配置控制。
package log

import (
	"context"
	"log/slog"

	"github.com/dep2p/go-connlog/internal/util/logger"
)

// 日志级别常量（从 slog 导出，方便使用）
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// LazyLogger 懒加载 logger
//
// 首次输出时才创建子系统 logger，包级变量初始化时不会读取环境变量。
//
//	var logger = log.Logger("core/analytics")
//	logger.Debug("丢弃上报", "method", name)
type LazyLogger struct {
	component string
}

// Logger 返回带组件名的 LazyLogger
func Logger(component string) *LazyLogger {
	return &LazyLogger{component: component}
}

func (l *LazyLogger) get() *slog.Logger {
	return logger.Logger(l.component)
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) {
	l.get().Debug(msg, args...)
}

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) {
	l.get().Info(msg, args...)
}

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) {
	l.get().Warn(msg, args...)
}

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) {
	l.get().Error(msg, args...)
}

// WarnContext 带 context 的 Warn 日志
func (l *LazyLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.get().WarnContext(ctx, msg, args...)
}

// Enabled 报告指定级别是否输出
func (l *LazyLogger) Enabled(level slog.Level) bool {
	return l.get().Enabled(context.Background(), level)
}

// With 添加额外的属性
func (l *LazyLogger) With(args ...any) *slog.Logger {
	return l.get().With(args...)
}

// Slog 返回底层 *slog.Logger
func (l *LazyLogger) Slog() *slog.Logger {
	return l.get()
}

// SetLevel 设置组件日志级别
func SetLevel(component string, level slog.Level) {
	logger.Logger(component)
	logger.SetLevel(component, level)
}
