package storage

import "github.com/dep2p/go-connlog/internal/core/storage/engine"

// 重导出 engine 包的错误
var (
	ErrNotFound      = engine.ErrNotFound
	ErrEmptyKey      = engine.ErrEmptyKey
	ErrClosed        = engine.ErrClosed
	ErrReadOnly      = engine.ErrReadOnly
	ErrInvalidConfig = engine.ErrInvalidConfig
	ErrCorrupted     = engine.ErrCorrupted

	IsNotFound = engine.IsNotFound
	IsClosed   = engine.IsClosed
)
