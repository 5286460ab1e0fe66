package engine

import "errors"

var (
	// ErrNotFound 键不存在
	ErrNotFound = errors.New("engine: not found")
	// ErrEmptyKey 键为空
	ErrEmptyKey = errors.New("engine: empty key")
	// ErrClosed 引擎已关闭
	ErrClosed = errors.New("engine: closed")
	// ErrReadOnly 以只读方式打开的归档拒绝写入
	ErrReadOnly = errors.New("engine: opened read-only")
	// ErrInvalidConfig 配置缺失或路径为空
	ErrInvalidConfig = errors.New("engine: invalid config")
	// ErrCorrupted 值的长度或编码不符合预期
	ErrCorrupted = errors.New("engine: corrupted value")
	// ErrBatchClosed 批次已释放
	ErrBatchClosed = errors.New("engine: batch released")
)

// IsNotFound 报告 err 链中是否有 ErrNotFound
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsClosed 报告 err 链中是否有 ErrClosed
func IsClosed(err error) bool { return errors.Is(err, ErrClosed) }
