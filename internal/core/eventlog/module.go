package eventlog

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/internal/core/metrics"
	"github.com/dep2p/go-connlog/internal/core/storage/kv"
	"github.com/dep2p/go-connlog/pkg/interfaces"
	"github.com/dep2p/go-connlog/pkg/lib/log"
)

var logger = log.Logger("core/eventlog")

// Params 事件汇模块依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config           `optional:"true"`
	Store      *kv.Store                `optional:"true"`
	Registerer prometheus.Registerer    `optional:"true"`
	Bandwidth  metrics.Reporter         `optional:"true"`
	Extra      []interfaces.EventLogger `group:"event_loggers"`
}

// Result 事件汇模块提供的结果
type Result struct {
	fx.Out

	Sink    interfaces.EventLogger
	Memory  *MemoryLogger
	Archive *StoreLogger
	Config  Config
}

// Module 返回事件汇 Fx 模块
//
// 组装顺序：指标统计（可选）包在扇出外层，扇出依次交给
// 内存、日志（可选）、归档（可选）以及 event_loggers 组中的事件汇。
func Module() fx.Option {
	return fx.Module("eventlog",
		fx.Provide(ProvideSinks),
	)
}

// ProvideSinks 根据配置组装事件汇
func ProvideSinks(p Params) (Result, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg)

	memory := NewMemoryLogger(cfg.MemoryCapacity)
	sinks := []interfaces.EventLogger{memory}

	if cfg.EnableSlog {
		sinks = append(sinks, NewSlogLogger(nil, cfg.SlogLevel))
	}

	var archive *StoreLogger
	if cfg.EnableArchive {
		if p.Store == nil {
			return Result{}, ErrArchiveUnavailable
		}
		archive = NewStoreLogger(p.Store.SubStore([]byte(cfg.ArchivePrefix)))
		sinks = append(sinks, archive)
	}
	sinks = append(sinks, p.Extra...)

	sink := Multi(sinks...)
	if cfg.EnableMetrics {
		reg := p.Registerer
		if reg == nil {
			reg = prometheus.NewRegistry()
		}
		m, err := NewMetricsLogger(sink, reg, cfg.MetricsNamespace, p.Bandwidth)
		if err != nil {
			return Result{}, err
		}
		sink = m
	}

	logger.Debug("事件汇已组装",
		"archive", cfg.EnableArchive, "metrics", cfg.EnableMetrics, "slog", cfg.EnableSlog, "extra", len(p.Extra))

	return Result{
		Sink:    sink,
		Memory:  memory,
		Archive: archive,
		Config:  cfg,
	}, nil
}
