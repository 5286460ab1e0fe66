package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/internal/core/analytics"
	"github.com/dep2p/go-connlog/internal/core/eventlog"
	"github.com/dep2p/go-connlog/internal/core/introspect"
)

// Runtime 表示一个已通过 fx 组装完成的 connlog 运行时。
//
// Archive 只在归档开启时非空。
type Runtime struct {
	Recorder   *analytics.Recorder
	Memory     *eventlog.MemoryLogger
	Archive    *eventlog.StoreLogger
	Introspect *introspect.Server
	Registry   *prometheus.Registry
	Config     *config.Config

	stop func(ctx context.Context) error
}

// Stop 停止运行时（触发 fx 生命周期 OnStop）。
func (r *Runtime) Stop(ctx context.Context) error {
	if r.stop == nil {
		return nil
	}
	return r.stop(ctx)
}
