package eventlog

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/dep2p/go-connlog/pkg/interfaces"
	"github.com/dep2p/go-connlog/pkg/types"
)

// MultiLogger 依次把记录交给每个事件汇
//
// 单个事件汇失败或 panic 不影响其余事件汇，错误被合并返回。
type MultiLogger []interfaces.EventLogger

var _ interfaces.EventLogger = MultiLogger(nil)

// Multi 组合事件汇，忽略 nil；只有一个时直接返回它
func Multi(sinks ...interfaces.EventLogger) interfaces.EventLogger {
	var out MultiLogger
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// Log 实现 interfaces.EventLogger
func (m MultiLogger) Log(ctx context.Context, record *types.ConnectionsLog, eventType types.EventType) error {
	var err error
	for _, sink := range m {
		err = multierr.Append(err, logOne(ctx, sink, record, eventType))
	}
	return err
}

func logOne(ctx context.Context, sink interfaces.EventLogger, record *types.ConnectionsLog,
	eventType types.EventType) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("eventlog: sink %T panicked: %v", sink, r)
		}
	}()
	return sink.Log(ctx, record, eventType)
}
