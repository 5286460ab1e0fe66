package eventlog

import (
	"context"
	"log/slog"

	"github.com/dep2p/go-connlog/pkg/interfaces"
	"github.com/dep2p/go-connlog/pkg/types"
)

// SlogLogger 以结构化日志输出记录摘要
type SlogLogger struct {
	logger *slog.Logger
	level  slog.Level
}

var _ interfaces.EventLogger = (*SlogLogger)(nil)

// NewSlogLogger 创建日志事件汇，logger 为 nil 时使用 eventlog 子系统 logger
func NewSlogLogger(l *slog.Logger, level slog.Level) *SlogLogger {
	if l == nil {
		l = logger.Slog()
	}
	return &SlogLogger{logger: l, level: level}
}

// Log 实现 interfaces.EventLogger
func (s *SlogLogger) Log(ctx context.Context, record *types.ConnectionsLog, eventType types.EventType) error {
	if !s.logger.Enabled(ctx, s.level) {
		return nil
	}

	attrs := []slog.Attr{
		slog.String("event", eventType.String()),
		slog.String("version", record.Version),
	}
	if cs := record.ClientSession; cs != nil {
		attrs = append(attrs, slog.String("session", cs.SessionID), slog.Duration("duration", cs.Duration))
		if eventType == types.EventTypeClientSession {
			attrs = append(attrs, sessionSummary(cs)...)
		}
	}
	if ec := record.ErrorCode; ec != nil {
		attrs = append(attrs,
			slog.String("errorEvent", ec.Event.String()),
			slog.String("medium", ec.Medium.String()),
			slog.String("code", ec.ResultCode.String()),
			slog.String("description", ec.Description),
		)
	}

	s.logger.LogAttrs(ctx, s.level, "连接日志", attrs...)
	return nil
}

func sessionSummary(cs *types.ClientSessionRecord) []slog.Attr {
	var phases, requests, attempts, connections, upgrades int
	for i := range cs.StrategySessions {
		ss := &cs.StrategySessions[i]
		phases += len(ss.AdvertisingPhases) + len(ss.DiscoveryPhases) + len(ss.ListeningPhases)
		requests += len(ss.ConnectionRequests)
		attempts += len(ss.ConnectionAttempts)
		connections += len(ss.Connections)
		upgrades += len(ss.UpgradeAttempts)
	}
	return []slog.Attr{
		slog.Int("strategySessions", len(cs.StrategySessions)),
		slog.Int("phases", phases),
		slog.Int("requests", requests),
		slog.Int("attempts", attempts),
		slog.Int("connections", connections),
		slog.Int("upgrades", upgrades),
	}
}
