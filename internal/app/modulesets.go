// Package app 提供模块集合清单
//
// modulesets.go 集中维护"哪些模块属于哪个 Tier"，是 Bootstrap 组装的唯一模块来源。
package app

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-connlog/internal/core/analytics"
	"github.com/dep2p/go-connlog/internal/core/eventlog"
	"github.com/dep2p/go-connlog/internal/core/introspect"
	"github.com/dep2p/go-connlog/internal/core/metrics"
	"github.com/dep2p/go-connlog/internal/core/storage"
	"github.com/dep2p/go-connlog/pkg/interfaces"
)

// StorageModules 存储层模块组合 (Tier 1)
//
// 只有事件归档开启时才加载。
func StorageModules() fx.Option {
	return storage.Module()
}

// CoreModules 核心模块组合 (Tier 2)
//
// 流量统计、事件汇、记录器。始终加载。
func CoreModules() fx.Option {
	return fx.Options(
		metrics.Module(),
		eventlog.Module(),
		analytics.Module(),
	)
}

// DiagnosticsModules 诊断模块组合 (Tier 3)
//
// 服务始终构建，是否监听由 Introspect.Enabled 决定。
func DiagnosticsModules() fx.Option {
	return introspect.Module()
}

// AsEventLogger 把事件汇注册到 event_loggers 组
func AsEventLogger(sink interfaces.EventLogger) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func() interfaces.EventLogger { return sink },
			fx.ResultTags(`group:"event_loggers"`),
		),
	)
}
