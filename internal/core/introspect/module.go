package introspect

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/internal/core/analytics"
	"github.com/dep2p/go-connlog/internal/core/eventlog"
	"github.com/dep2p/go-connlog/internal/core/metrics"
)

// ModuleInput 模块输入
type ModuleInput struct {
	fx.In

	Recorder   *analytics.Recorder
	Memory     *eventlog.MemoryLogger `optional:"true"`
	Archive    *eventlog.StoreLogger  `optional:"true"`
	Bandwidth  metrics.Reporter       `optional:"true"`
	Gatherer   prometheus.Gatherer    `optional:"true"`
	UnifiedCfg *config.Config         `optional:"true"`
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Server *Server
}

// ProvideServer 提供诊断服务
func ProvideServer(in ModuleInput) ModuleOutput {
	cfg := Config{
		Recorder:  in.Recorder,
		Memory:    in.Memory,
		Archive:   in.Archive,
		Bandwidth: in.Bandwidth,
		Gatherer:  in.Gatherer,
	}
	if in.UnifiedCfg != nil {
		cfg.Addr = in.UnifiedCfg.Introspect.Addr
	}
	return ModuleOutput{Server: New(cfg)}
}

// Module 返回 introspect fx 模块
//
// 只有统一配置中 Introspect.Enabled 为 true 时才监听端口。
func Module() fx.Option {
	return fx.Module("introspect",
		fx.Provide(ProvideServer),
		fx.Invoke(func(lc fx.Lifecycle, s *Server, cfg *config.Config) {
			if !cfg.Introspect.Enabled {
				return
			}
			lc.Append(fx.Hook{
				OnStart: s.Start,
				OnStop: func(context.Context) error {
					return s.Stop()
				},
			})
		}),
	)
}
