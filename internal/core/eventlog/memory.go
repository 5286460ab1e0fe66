package eventlog

import (
	"context"
	"sync"

	"github.com/dep2p/go-connlog/pkg/interfaces"
	"github.com/dep2p/go-connlog/pkg/types"
)

// Entry 一条已交付的记录
type Entry struct {
	Seq       uint64                `json:"seq"`
	EventType types.EventType       `json:"event_type"`
	Record    *types.ConnectionsLog `json:"record"`
}

// MemoryLogger 在内存中保留最近的记录
//
// capacity 之外最旧的记录被淘汰；capacity <= 0 表示不限。
type MemoryLogger struct {
	mu       sync.RWMutex
	capacity int
	entries  []Entry
	seq      uint64
}

var _ interfaces.EventLogger = (*MemoryLogger)(nil)

// NewMemoryLogger 创建内存事件汇
func NewMemoryLogger(capacity int) *MemoryLogger {
	return &MemoryLogger{capacity: capacity}
}

// Log 实现 interfaces.EventLogger
func (m *MemoryLogger) Log(_ context.Context, record *types.ConnectionsLog, eventType types.EventType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	m.entries = append(m.entries, Entry{Seq: m.seq, EventType: eventType, Record: record})
	if m.capacity > 0 && len(m.entries) > m.capacity {
		drop := len(m.entries) - m.capacity
		m.entries = append(m.entries[:0:0], m.entries[drop:]...)
	}
	return nil
}

// Entries 返回保留的记录（按交付顺序）
func (m *MemoryLogger) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Entry(nil), m.entries...)
}

// Latest 返回最近 n 条记录，n <= 0 时返回全部
func (m *MemoryLogger) Latest(n int) []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n <= 0 || n > len(m.entries) {
		n = len(m.entries)
	}
	return append([]Entry(nil), m.entries[len(m.entries)-n:]...)
}

// Sessions 返回保留的完整会话记录
func (m *MemoryLogger) Sessions() []*types.ClientSessionRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*types.ClientSessionRecord
	for _, e := range m.entries {
		if e.EventType == types.EventTypeClientSession && e.Record.ClientSession != nil {
			out = append(out, e.Record.ClientSession)
		}
	}
	return out
}

// Total 返回累计交付的记录数（含已淘汰的）
func (m *MemoryLogger) Total() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.seq
}

// Reset 清空保留的记录
func (m *MemoryLogger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
}
