package kv

import (
	"encoding/binary"
	"sync"

	"github.com/dep2p/go-connlog/internal/core/storage/engine"
)

// Store 在共享引擎上划出一个键空间
//
// 所有键在写入引擎前加上 prefix，扫描回调收到的键已去掉 prefix。
type Store struct {
	eng    engine.Engine
	prefix []byte

	// 计数器锁在 SubStore 之间共享
	counterMu *sync.Mutex
}

// New 创建 Store
func New(eng engine.Engine, prefix []byte) *Store {
	return &Store{eng: eng, prefix: append([]byte(nil), prefix...), counterMu: new(sync.Mutex)}
}

func (s *Store) full(key []byte) []byte {
	out := make([]byte, 0, len(s.prefix)+len(key))
	out = append(out, s.prefix...)
	return append(out, key...)
}

func (s *Store) local(key []byte) []byte {
	if len(key) < len(s.prefix) {
		return key
	}
	return key[len(s.prefix):]
}

// Get 读取键，不存在时返回 engine.ErrNotFound
func (s *Store) Get(key []byte) ([]byte, error) {
	return s.eng.Get(s.full(key))
}

// Put 写入键
func (s *Store) Put(key, value []byte) error {
	return s.eng.Put(s.full(key), value)
}

// Delete 删除键
func (s *Store) Delete(key []byte) error {
	return s.eng.Delete(s.full(key))
}

// GetUint64 读取 8 字节大端计数器
func (s *Store) GetUint64(key []byte) (uint64, error) {
	raw, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	if len(raw) != 8 {
		return 0, engine.ErrCorrupted
	}
	return binary.BigEndian.Uint64(raw), nil
}

// IncrUint64 计数器加 delta 并返回新值，缺失的计数器视为 0
func (s *Store) IncrUint64(key []byte, delta uint64) (uint64, error) {
	s.counterMu.Lock()
	defer s.counterMu.Unlock()

	cur, err := s.GetUint64(key)
	if err != nil && !engine.IsNotFound(err) {
		return 0, err
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], cur+delta)
	if err := s.Put(key, buf[:]); err != nil {
		return 0, err
	}
	return cur + delta, nil
}

func (s *Store) walk(iter engine.Iterator, fn func(key, value []byte) bool) error {
	defer iter.Close()
	for iter.First(); iter.Valid(); iter.Next() {
		if !fn(s.local(iter.Key()), iter.Value()) {
			break
		}
	}
	return iter.Error()
}

// PrefixScan 按键序遍历 sub 前缀下的记录，fn 返回 false 时提前结束
func (s *Store) PrefixScan(sub []byte, fn func(key, value []byte) bool) error {
	return s.walk(s.eng.NewPrefixIterator(s.full(sub)), fn)
}

// RangeScan 遍历 [start, end)，end 为 nil 表示直到键空间末尾
func (s *Store) RangeScan(start, end []byte, fn func(key, value []byte) bool) error {
	opts := &engine.IteratorOptions{
		Prefix:         s.prefix,
		StartKey:       s.full(start),
		PrefetchValues: true,
	}
	if end != nil {
		opts.EndKey = s.full(end)
	}
	return s.walk(s.eng.NewIterator(opts), fn)
}

// Count 统计 sub 前缀下的键数
func (s *Store) Count(sub []byte) (int64, error) {
	var n int64
	err := s.PrefixScan(sub, func(_, _ []byte) bool {
		n++
		return true
	})
	return n, err
}

// DeletePrefix 以一个批次删除 sub 前缀下的全部键
//
// 先收集键再提交，提交时不持有迭代器。
func (s *Store) DeletePrefix(sub []byte) (int, error) {
	var keys [][]byte
	err := s.PrefixScan(sub, func(key, _ []byte) bool {
		keys = append(keys, s.full(key))
		return true
	})
	if err != nil || len(keys) == 0 {
		return 0, err
	}
	batch := s.eng.NewBatch()
	for _, key := range keys {
		batch.Delete(key)
	}
	if err := s.eng.Write(batch); err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Prefix 返回完整前缀
func (s *Store) Prefix() []byte {
	return s.prefix
}

// SubStore 返回嵌套的键空间
func (s *Store) SubStore(sub []byte) *Store {
	return &Store{eng: s.eng, prefix: s.full(sub), counterMu: s.counterMu}
}
