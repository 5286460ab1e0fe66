package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

type writerBox struct{ w io.Writer }

// output 所有子系统共用的输出目标
var output atomic.Pointer[writerBox]

func init() {
	output.Store(&writerBox{w: os.Stderr})
}

// switchWriter 每次写入时读取当前输出目标
type switchWriter struct{}

func (switchWriter) Write(p []byte) (int, error) {
	return output.Load().w.Write(p)
}

// subsystemHandler 带子系统级别的 slog.Handler
//
// With/WithGroup 派生的 handler 与原 handler 共享同一个 LevelVar。
type subsystemHandler struct {
	level *slog.LevelVar
	next  slog.Handler
}

func newHandler(subsystem string, cfg *Config) *subsystemHandler {
	level := new(slog.LevelVar)
	level.Set(cfg.LevelForSubsystem(subsystem))

	opts := &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		AddSource:   cfg.AddSource,
		ReplaceAttr: renameAttr,
	}
	var next slog.Handler = slog.NewTextHandler(switchWriter{}, opts)
	if cfg.Format == FormatJSON {
		next = slog.NewJSONHandler(switchWriter{}, opts)
	}

	return &subsystemHandler{
		level: level,
		next:  next.WithAttrs([]slog.Attr{slog.String("subsystem", subsystem)}),
	}
}

// renameAttr 时间键改为 ts，级别输出为小写
func renameAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(levelName(lvl))
		}
	}
	return a
}

func (h *subsystemHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *subsystemHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.next.Handle(ctx, r)
}

func (h *subsystemHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &subsystemHandler{level: h.level, next: h.next.WithAttrs(attrs)}
}

func (h *subsystemHandler) WithGroup(name string) slog.Handler {
	return &subsystemHandler{level: h.level, next: h.next.WithGroup(name)}
}

// SetLevel 修改级别，派生 handler 同时生效
func (h *subsystemHandler) SetLevel(level slog.Level) {
	h.level.Set(level)
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
