package badger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/dep2p/go-connlog/internal/core/storage/engine"
	"github.com/dep2p/go-connlog/pkg/lib/log"
)

var logger = log.Logger("storage/badger")

// Engine BadgerDB 存储引擎
type Engine struct {
	db     *badger.DB
	config *engine.Config
	closed atomic.Bool

	stats struct {
		numReads   atomic.Int64
		numWrites  atomic.Int64
		numDeletes atomic.Int64
	}

	gcCtx    context.Context
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
}

var _ engine.Engine = (*Engine)(nil)

// New 打开 BadgerDB 存储引擎
func New(cfg *engine.Config) (*Engine, error) {
	if cfg == nil {
		return nil, engine.ErrInvalidConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.ReadOnly {
		if err := cfg.EnsureDir(); err != nil {
			return nil, err
		}
	}

	db, err := badger.Open(buildBadgerOptions(cfg))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		db:       db,
		config:   cfg,
		gcCtx:    ctx,
		gcCancel: cancel,
	}, nil
}

func buildBadgerOptions(cfg *engine.Config) badger.Options {
	b := cfg.Badger
	return badger.DefaultOptions(cfg.Path).
		WithSyncWrites(cfg.SyncWrites).
		WithReadOnly(cfg.ReadOnly).
		WithMemTableSize(b.MemTableSize).
		WithValueLogFileSize(b.ValueLogFileSize).
		WithBlockCacheSize(b.BlockCacheSize).
		WithZSTDCompressionLevel(b.ZSTDCompressionLevel).
		WithLogger(badgerLogger{})
}

// badgerLogger 将 BadgerDB 内部日志转到 storage/badger 子系统
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logger.Error("badger", "msg", fmt.Sprintf(format, args...))
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logger.Warn("badger", "msg", fmt.Sprintf(format, args...))
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logger.Debug("badger", "msg", fmt.Sprintf(format, args...))
}

func (badgerLogger) Debugf(string, ...interface{}) {}

// Start 启动值日志 GC
func (e *Engine) Start() error {
	if e.closed.Load() {
		return engine.ErrClosed
	}
	if e.config.Badger.GCInterval > 0 && !e.config.ReadOnly {
		e.startGC()
	}
	return nil
}

func (e *Engine) startGC() {
	e.gcWg.Add(1)
	go func() {
		defer e.gcWg.Done()

		ticker := time.NewTicker(e.config.Badger.GCInterval)
		defer ticker.Stop()

		for {
			select {
			case <-e.gcCtx.Done():
				return
			case <-ticker.C:
				e.runGC()
			}
		}
	}()
}

// runGC 反复回收直到没有可回收的值日志
func (e *Engine) runGC() {
	for !e.closed.Load() {
		if err := e.db.RunValueLogGC(e.config.Badger.GCDiscardRatio); err != nil {
			if !errors.Is(err, badger.ErrNoRewrite) {
				logger.Debug("值日志 GC 结束", "error", err)
			}
			return
		}
	}
}

// Get 读取键的值副本
func (e *Engine) Get(key []byte) ([]byte, error) {
	if err := e.usable(key); err != nil {
		return nil, err
	}
	defer e.stats.numReads.Add(1)

	var value []byte
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == nil {
			value, err = item.ValueCopy(nil)
		}
		return err
	})
	return value, convertError(err)
}

// Put 写入键值对
func (e *Engine) Put(key, value []byte) error {
	return e.update(key, &e.stats.numWrites, func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete 删除键，键不存在不是错误
func (e *Engine) Delete(key []byte) error {
	return e.update(key, &e.stats.numDeletes, func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Has 报告键是否存在
func (e *Engine) Has(key []byte) (bool, error) {
	_, err := e.Get(key)
	switch {
	case err == nil:
		return true, nil
	case engine.IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

func (e *Engine) usable(key []byte) error {
	if e.closed.Load() {
		return engine.ErrClosed
	}
	if len(key) == 0 {
		return engine.ErrEmptyKey
	}
	return nil
}

// update 在单键事务中执行写操作，成功后累加 counter
func (e *Engine) update(key []byte, counter *atomic.Int64, fn func(txn *badger.Txn) error) error {
	if err := e.usable(key); err != nil {
		return err
	}
	if e.config.ReadOnly {
		return engine.ErrReadOnly
	}
	if err := e.db.Update(fn); err != nil {
		return convertError(err)
	}
	counter.Add(1)
	return nil
}

// NewBatch 创建批量写入
func (e *Engine) NewBatch() engine.Batch {
	return &WriteBatch{
		db:    e,
		batch: e.db.NewWriteBatch(),
	}
}

// Write 执行批量写入
func (e *Engine) Write(batch engine.Batch) error {
	if batch == nil {
		return engine.ErrInvalidConfig
	}
	return batch.Write()
}

// NewIterator 创建迭代器
func (e *Engine) NewIterator(opts *engine.IteratorOptions) engine.Iterator {
	if opts == nil {
		opts = engine.DefaultIteratorOptions()
	}

	txn := e.db.NewTransaction(false)
	badgerOpts := badger.DefaultIteratorOptions
	badgerOpts.PrefetchValues = opts.PrefetchValues
	if len(opts.Prefix) > 0 {
		badgerOpts.Prefix = opts.Prefix
	}

	return &Iterator{
		txn:      txn,
		iter:     txn.NewIterator(badgerOpts),
		prefix:   opts.Prefix,
		startKey: opts.StartKey,
		endKey:   opts.EndKey,
	}
}

// NewPrefixIterator 创建前缀迭代器
func (e *Engine) NewPrefixIterator(prefix []byte) engine.Iterator {
	return e.NewIterator(&engine.IteratorOptions{
		Prefix:         prefix,
		PrefetchValues: true,
	})
}

// Sync 同步数据到磁盘
func (e *Engine) Sync() error {
	if e.closed.Load() {
		return engine.ErrClosed
	}
	if e.config.ReadOnly {
		return nil
	}
	return e.db.Sync()
}

// Stats 返回统计信息
func (e *Engine) Stats() *engine.Stats {
	lsm, vlog := e.db.Size()
	return &engine.Stats{
		DiskSize:   lsm + vlog,
		LSMSize:    lsm,
		VlogSize:   vlog,
		NumWrites:  e.stats.numWrites.Load(),
		NumReads:   e.stats.numReads.Load(),
		NumDeletes: e.stats.numDeletes.Load(),
	}
}

// Close 停止 GC 并关闭数据库
func (e *Engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	e.gcCancel()
	e.gcWg.Wait()
	return e.db.Close()
}

// convertError 转换 BadgerDB 错误到引擎错误
func convertError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return engine.ErrNotFound
	case errors.Is(err, badger.ErrEmptyKey):
		return engine.ErrEmptyKey
	case errors.Is(err, badger.ErrReadOnlyTxn):
		return engine.ErrReadOnly
	default:
		return err
	}
}
