package connlog

import "errors"

// 公共错误定义
var (
	// ErrServiceClosed 服务已关闭
	ErrServiceClosed = errors.New("connlog: service closed")

	// ErrNilEventLogger 未提供事件汇
	ErrNilEventLogger = errors.New("connlog: nil event logger")
)
