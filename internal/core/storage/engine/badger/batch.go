package badger

import (
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"

	"github.com/dep2p/go-connlog/internal/core/storage/engine"
)

// WriteBatch BadgerDB 批量写入
//
// Set/Delete 的错误延迟到 Write 时返回。
type WriteBatch struct {
	db     *Engine
	batch  *badger.WriteBatch
	count  atomic.Int32
	err    error
	closed atomic.Bool
}

var _ engine.Batch = (*WriteBatch)(nil)

// Put 添加写入操作
func (b *WriteBatch) Put(key, value []byte) {
	if b.closed.Load() || len(key) == 0 {
		return
	}
	if err := b.batch.Set(key, value); err != nil && b.err == nil {
		b.err = err
	}
	b.count.Add(1)
}

// Delete 添加删除操作
func (b *WriteBatch) Delete(key []byte) {
	if b.closed.Load() || len(key) == 0 {
		return
	}
	if err := b.batch.Delete(key); err != nil && b.err == nil {
		b.err = err
	}
	b.count.Add(1)
}

// Write 提交批量操作，成功后批量对象可继续使用
func (b *WriteBatch) Write() error {
	if b.closed.Load() {
		return engine.ErrBatchClosed
	}
	if b.db.closed.Load() {
		return engine.ErrClosed
	}
	if b.db.config.ReadOnly {
		return engine.ErrReadOnly
	}
	if b.err != nil {
		err := b.err
		b.Reset()
		return convertError(err)
	}

	if err := b.batch.Flush(); err != nil {
		return convertError(err)
	}
	b.db.stats.numWrites.Add(int64(b.count.Load()))

	// Flush 之后的 WriteBatch 不可复用
	b.count.Store(0)
	b.batch = b.db.db.NewWriteBatch()
	return nil
}

// Reset 丢弃尚未提交的操作
func (b *WriteBatch) Reset() {
	if b.closed.Load() {
		return
	}
	b.batch.Cancel()
	b.batch = b.db.db.NewWriteBatch()
	b.count.Store(0)
	b.err = nil
}

// Size 返回批量中的操作数量
func (b *WriteBatch) Size() int {
	return int(b.count.Load())
}

// Close 释放批量对象
func (b *WriteBatch) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	b.batch.Cancel()
	return nil
}
