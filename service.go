package connlog

import (
	"context"
	"io"
	"sync"

	"go.uber.org/multierr"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/internal/app"
	"github.com/dep2p/go-connlog/internal/core/eventlog"
	"github.com/dep2p/go-connlog/pkg/interfaces"
	"github.com/dep2p/go-connlog/pkg/lib/log"
	"github.com/dep2p/go-connlog/pkg/types"
)

var logger = log.Logger("connlog")

// Entry 内存事件汇中的一条记录
type Entry = eventlog.Entry

// Service 通过 fx 组装的完整记录服务
//
// 包含记录器、事件汇链（指标、内存、日志、归档）与可选的诊断服务。
type Service struct {
	mu      sync.Mutex
	runtime *app.Runtime
	closers []io.Closer
	closed  bool
}

// Open 创建并启动服务
func Open(ctx context.Context, opts ...Option) (*Service, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	rt, err := app.NewBootstrap(o.toConfig(), o.toBootstrapOptions()...).Build(ctx)
	if err != nil {
		return nil, err
	}

	s := &Service{runtime: rt}
	for _, sink := range o.sinks {
		if c, ok := sink.(io.Closer); ok {
			s.closers = append(s.closers, c)
		}
	}
	return s, nil
}

// Recorder 返回记录器
func (s *Service) Recorder() interfaces.Recorder {
	return s.runtime.Recorder
}

// Stats 返回记录器状态快照
func (s *Service) Stats() RecorderStats {
	return s.runtime.Recorder.Stats()
}

// Sync 等待已提交的记录投递完成
func (s *Service) Sync() {
	s.runtime.Recorder.Sync()
}

// Recent 返回内存事件汇中最近 n 条记录
func (s *Service) Recent(n int) []Entry {
	return s.runtime.Memory.Latest(n)
}

// Sessions 返回内存事件汇中的完整会话
func (s *Service) Sessions() []*types.ClientSessionRecord {
	return s.runtime.Memory.Sessions()
}

// Config 返回生效的配置
func (s *Service) Config() *config.Config {
	return s.runtime.Config
}

// IntrospectAddr 返回诊断服务监听地址，未开启时为空
func (s *Service) IntrospectAddr() string {
	if s.runtime.Introspect == nil || !s.runtime.Config.Introspect.Enabled {
		return ""
	}
	return s.runtime.Introspect.Addr()
}

// Close 结束会话并关闭服务
//
// 会话在记录器停止时输出；随后关闭存储与实现了 io.Closer 的事件汇。
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServiceClosed
	}
	s.closed = true

	logger.Info("正在关闭服务", "session", s.runtime.Recorder.SessionID())

	err := s.runtime.Stop(ctx)
	for _, c := range s.closers {
		err = multierr.Append(err, c.Close())
	}
	if err != nil {
		logger.Error("关闭服务失败", "error", err)
	}
	return err
}
