package badger

import (
	"bytes"

	"github.com/dgraph-io/badger/v4"

	"github.com/dep2p/go-connlog/internal/core/storage/engine"
)

// Iterator 在一个只读事务内按键序遍历
//
// 迭代范围是 prefix 与 [startKey, endKey) 的交集。用完必须 Close。
type Iterator struct {
	txn  *badger.Txn
	iter *badger.Iterator

	prefix   []byte
	startKey []byte
	endKey   []byte

	positioned bool
	done       bool
	err        error
}

var _ engine.Iterator = (*Iterator)(nil)

func (it *Iterator) seekKey() []byte {
	if len(it.startKey) > 0 {
		return it.startKey
	}
	return it.prefix
}

// First 定位到范围内的第一个键
func (it *Iterator) First() bool {
	if it.done {
		return false
	}
	it.positioned = true
	if seek := it.seekKey(); len(seek) > 0 {
		it.iter.Seek(seek)
	} else {
		it.iter.Rewind()
	}
	return it.Valid()
}

// Next 前进一步，尚未定位时等同 First
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	if !it.positioned {
		return it.First()
	}
	it.iter.Next()
	return it.Valid()
}

// Valid 报告当前位置是否仍在范围内
func (it *Iterator) Valid() bool {
	if it.done || !it.iter.Valid() {
		return false
	}
	key := it.iter.Item().Key()
	if !bytes.HasPrefix(key, it.prefix) {
		return false
	}
	return len(it.endKey) == 0 || bytes.Compare(key, it.endKey) < 0
}

// Key 当前键的副本
func (it *Iterator) Key() []byte {
	if !it.Valid() {
		return nil
	}
	return it.iter.Item().KeyCopy(nil)
}

// Value 当前值的副本，读取失败记入 Error
func (it *Iterator) Value() []byte {
	if !it.Valid() {
		return nil
	}
	v, err := it.iter.Item().ValueCopy(nil)
	if err != nil {
		it.err = err
	}
	return v
}

// Close 释放迭代器与事务，可重复调用
func (it *Iterator) Close() {
	if it.done {
		return
	}
	it.done = true
	it.iter.Close()
	it.txn.Discard()
}

// Error 返回遍历中遇到的第一个错误
func (it *Iterator) Error() error {
	return it.err
}
