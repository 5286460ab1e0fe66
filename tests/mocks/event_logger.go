package mocks

import (
	"context"
	"sync"

	"github.com/dep2p/go-connlog/pkg/interfaces"
	"github.com/dep2p/go-connlog/pkg/types"
)

// 确保 MockEventLogger 实现 interfaces.EventLogger 接口
var _ interfaces.EventLogger = (*MockEventLogger)(nil)

// LoggedEvent 一次 Log 调用
type LoggedEvent struct {
	Record    *types.ConnectionsLog
	EventType types.EventType
}

// MockEventLogger 模拟事件汇，记录每次调用
type MockEventLogger struct {
	mu     sync.Mutex
	events []LoggedEvent

	// 可覆盖的方法
	LogFunc func(ctx context.Context, record *types.ConnectionsLog, eventType types.EventType) error

	// 调用记录
	LogCalls int
}

// NewMockEventLogger 创建 MockEventLogger
func NewMockEventLogger() *MockEventLogger {
	return &MockEventLogger{}
}

// Log 记录调用；设置了 LogFunc 时返回其结果
func (m *MockEventLogger) Log(ctx context.Context, record *types.ConnectionsLog, eventType types.EventType) error {
	m.mu.Lock()
	m.LogCalls++
	m.events = append(m.events, LoggedEvent{Record: record, EventType: eventType})
	fn := m.LogFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, record, eventType)
	}
	return nil
}

// Events 返回所有调用的副本
func (m *MockEventLogger) Events() []LoggedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LoggedEvent(nil), m.events...)
}

// EventsOfType 返回指定类型的调用
func (m *MockEventLogger) EventsOfType(eventType types.EventType) []LoggedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []LoggedEvent
	for _, e := range m.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Sessions 返回所有 ClientSession 事件中的会话记录
func (m *MockEventLogger) Sessions() []*types.ClientSessionRecord {
	var out []*types.ClientSessionRecord
	for _, e := range m.EventsOfType(types.EventTypeClientSession) {
		out = append(out, e.Record.ClientSession)
	}
	return out
}

// Calls 返回调用次数
func (m *MockEventLogger) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LogCalls
}

// Reset 清空调用记录
func (m *MockEventLogger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
	m.LogCalls = 0
}
