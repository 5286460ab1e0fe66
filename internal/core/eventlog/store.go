package eventlog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dep2p/go-connlog/internal/core/storage/engine"
	"github.com/dep2p/go-connlog/internal/core/storage/kv"
	"github.com/dep2p/go-connlog/pkg/interfaces"
	"github.com/dep2p/go-connlog/pkg/types"
)

// ErrArchiveUnavailable 开启了归档但没有可用的存储
var ErrArchiveUnavailable = errors.New("eventlog: archive enabled without storage")

var (
	seqKey       = []byte("seq")
	recordPrefix = []byte("e/")
)

// recordKey 序号补零到 20 位，键序即写入顺序
func recordKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("e/%020d", seq))
}

// StoreLogger 把编码后的记录归档到 KV 存储
//
// 键空间：
//
//	seq            最近分配的序号
//	e/<序号>       Marshal 编码的 ConnectionsLog
type StoreLogger struct {
	store *kv.Store
}

var _ interfaces.EventLogger = (*StoreLogger)(nil)

// NewStoreLogger 创建归档事件汇
func NewStoreLogger(store *kv.Store) *StoreLogger {
	return &StoreLogger{store: store}
}

// Log 实现 interfaces.EventLogger
func (s *StoreLogger) Log(ctx context.Context, record *types.ConnectionsLog, eventType types.EventType) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record.EventType != eventType {
		cp := *record
		cp.EventType = eventType
		record = &cp
	}

	seq, err := s.store.IncrUint64(seqKey, 1)
	if err != nil {
		return fmt.Errorf("eventlog: allocate seq: %w", err)
	}
	if err := s.store.Put(recordKey(seq), Marshal(record)); err != nil {
		return fmt.Errorf("eventlog: archive record %d: %w", seq, err)
	}
	logger.Debug("记录已归档", "seq", seq, "event", eventType)
	return nil
}

// ScanOptions 归档读取条件
type ScanOptions struct {
	// EventType 只返回该类型，EventTypeUnknown 表示全部
	EventType types.EventType

	// AfterSeq 只返回序号大于它的记录
	AfterSeq uint64

	// Limit 最多返回条数，0 表示不限
	Limit int
}

// Scan 按写入顺序读取归档记录，回调返回 false 时停止
func (s *StoreLogger) Scan(opts ScanOptions, fn func(Entry) bool) error {
	var (
		n       int
		scanErr error
	)
	start := recordPrefix
	if opts.AfterSeq > 0 {
		start = recordKey(opts.AfterSeq + 1)
	}

	err := s.store.RangeScan(start, prefixEnd(recordPrefix), func(key, value []byte) bool {
		seq, err := strconv.ParseUint(string(key[len(recordPrefix):]), 10, 64)
		if err != nil {
			scanErr = fmt.Errorf("%w: key %q", ErrMalformed, key)
			return false
		}
		record, err := Unmarshal(value)
		if err != nil {
			scanErr = fmt.Errorf("record %d: %w", seq, err)
			return false
		}
		if opts.EventType != types.EventTypeUnknown && record.EventType != opts.EventType {
			return true
		}
		n++
		if !fn(Entry{Seq: seq, EventType: record.EventType, Record: record}) {
			return false
		}
		return opts.Limit <= 0 || n < opts.Limit
	})
	if err != nil {
		return err
	}
	return scanErr
}

// Raw 读取单条记录的编码字节
func (s *StoreLogger) Raw(seq uint64) ([]byte, error) {
	return s.store.Get(recordKey(seq))
}

// LastSeq 返回最近分配的序号，空归档返回 0
func (s *StoreLogger) LastSeq() (uint64, error) {
	seq, err := s.store.GetUint64(seqKey)
	if err != nil && !engine.IsNotFound(err) {
		return 0, err
	}
	return seq, nil
}

// Count 返回归档的记录数
func (s *StoreLogger) Count() (int64, error) {
	return s.store.Count(recordPrefix)
}

// Purge 删除所有归档记录，保留序号计数器
func (s *StoreLogger) Purge() (int, error) {
	return s.store.DeletePrefix(recordPrefix)
}

// prefixEnd 返回大于所有以 prefix 开头的键的最小键
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
