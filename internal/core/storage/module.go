package storage

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/internal/core/storage/engine"
	"github.com/dep2p/go-connlog/internal/core/storage/engine/badger"
	"github.com/dep2p/go-connlog/internal/core/storage/kv"
	"github.com/dep2p/go-connlog/pkg/lib/log"
)

var logger = log.Logger("core/storage")

// RootPrefix 所有 connlog 数据共享的键前缀
var RootPrefix = []byte("cl/")

// Params Storage 模块依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Result Storage 模块提供的结果
type Result struct {
	fx.Out

	Engine engine.Engine
	Store  *kv.Store
	Config Config
}

// Module 返回 Storage Fx 模块
//
// 提供:
//   - engine.Engine: 存储引擎
//   - *kv.Store: RootPrefix 下的 KV 存储
//   - Config: 存储配置
//
// 生命周期:
//   - OnStart: 启动值日志 GC
//   - OnStop: 关闭引擎
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideStorage),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideStorage 打开存储引擎
func ProvideStorage(p Params) (Result, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	eng, err := NewEngine(cfg)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Engine: eng,
		Store:  kv.New(eng, RootPrefix),
		Config: cfg,
	}, nil
}

func registerLifecycle(lc fx.Lifecycle, eng engine.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if err := eng.Start(); err != nil {
				logger.Error("存储引擎启动失败", "error", err)
				return err
			}
			logger.Debug("存储引擎已启动")
			return nil
		},
		OnStop: func(_ context.Context) error {
			if err := eng.Close(); err != nil {
				logger.Warn("存储引擎关闭失败", "error", err)
				return err
			}
			logger.Debug("存储引擎已关闭")
			return nil
		},
	})
}

// NewEngine 根据配置创建存储引擎
func NewEngine(cfg Config) (engine.Engine, error) {
	logger.Debug("创建存储引擎", "path", cfg.Path, "readOnly", cfg.ReadOnly)
	eng, err := badger.New(cfg.ToEngineConfig())
	if err != nil {
		logger.Error("创建存储引擎失败", "path", cfg.Path, "error", err)
		return nil, err
	}
	return eng, nil
}

// Open 打开 path 处的数据库并返回 RootPrefix 下的 KV 存储
//
// 调用方负责关闭返回的引擎。
func Open(path string, readOnly bool) (engine.Engine, *kv.Store, error) {
	cfg := DefaultConfig()
	cfg.Path = path
	cfg.ReadOnly = readOnly
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	eng, err := NewEngine(cfg)
	if err != nil {
		return nil, nil, err
	}
	return eng, kv.New(eng, RootPrefix), nil
}

// KVStore 是 kv.Store 的类型别名
type KVStore = kv.Store
