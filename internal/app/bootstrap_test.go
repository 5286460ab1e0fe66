package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/internal/core/eventlog"
	"github.com/dep2p/go-connlog/internal/core/storage"
	"github.com/dep2p/go-connlog/pkg/types"
	"github.com/dep2p/go-connlog/tests/mocks"
)

func quietConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.EventLog.EnableSlog = false
	return cfg
}

// TestBootstrap_Defaults 测试默认组装：无归档，会话在停止时输出
func TestBootstrap_Defaults(t *testing.T) {
	sink := mocks.NewMockEventLogger()
	clk := clock.NewMock()

	b := NewBootstrap(quietConfig(), WithClock(clk), WithEventLoggers(sink))
	rt, err := b.Build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rt.Recorder)
	require.NotNil(t, rt.Memory)
	assert.Nil(t, rt.Archive)
	require.NotNil(t, rt.Introspect)

	rt.Recorder.StartAdvertising(types.StrategyP2PStar, []types.Medium{types.MediumBLE}, nil)
	rt.Recorder.ConnectionEstablished("e1", types.MediumBLE, "tok")
	clk.Add(time.Second)

	require.NoError(t, rt.Stop(context.Background()))

	assert.True(t, rt.Recorder.IsSessionLogged())
	sessions := sink.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, time.Second, sessions[0].Duration)
	require.Len(t, rt.Memory.Sessions(), 1)
}

// TestBootstrap_Metrics 测试注册表同时收到事件汇与记录器指标
func TestBootstrap_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	rt, err := NewBootstrap(quietConfig(), WithRegistry(reg)).Build(context.Background())
	require.NoError(t, err)
	assert.Same(t, reg, rt.Registry)

	rt.Recorder.LogStartSession()
	rt.Recorder.Sync()

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["connlog_records_total"])
	assert.True(t, names["connlog_recorder_active_connections"])

	require.NoError(t, rt.Stop(context.Background()))
}

// TestBootstrap_Archive 测试归档开启时会话写入 BadgerDB
func TestBootstrap_Archive(t *testing.T) {
	cfg := quietConfig()
	cfg.EventLog.EnableArchive = true
	cfg.Storage.DataDir = t.TempDir()

	rt, err := NewBootstrap(cfg).Build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rt.Archive)

	rt.Recorder.LogStartSession()
	rt.Recorder.StartDiscovery(types.StrategyP2PCluster, []types.Medium{types.MediumBLE}, nil)
	require.NoError(t, rt.Stop(context.Background()))

	eng, store, err := storage.Open(cfg.Storage.DBPath(), true)
	require.NoError(t, err)
	defer eng.Close()

	archive := eventlog.NewStoreLogger(store.SubStore([]byte(cfg.EventLog.ArchivePrefix)))
	count, err := archive.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	var events []types.EventType
	require.NoError(t, archive.Scan(eventlog.ScanOptions{}, func(e eventlog.Entry) bool {
		events = append(events, e.EventType)
		return true
	}))
	assert.Equal(t, []types.EventType{types.EventTypeStartClientSession, types.EventTypeClientSession}, events)
}

// TestBootstrap_InvalidConfig 测试无效配置在组装前被拒绝
func TestBootstrap_InvalidConfig(t *testing.T) {
	cfg := quietConfig()
	cfg.EventLog.EnableArchive = true
	cfg.Storage.DataDir = ""

	_, err := NewBootstrap(cfg).Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "配置无效")
}

// TestBootstrap_FxOptions 测试用户扩展可以取到内部组件
func TestBootstrap_FxOptions(t *testing.T) {
	var memory *eventlog.MemoryLogger
	rt, err := NewBootstrap(quietConfig(), WithFxOptions(fx.Populate(&memory))).Build(context.Background())
	require.NoError(t, err)
	assert.Same(t, rt.Memory, memory)
	require.NoError(t, rt.Stop(context.Background()))
}

// TestBootstrap_LogFile 测试日志重定向到文件
func TestBootstrap_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connlog.log")

	b := NewBootstrap(quietConfig(), WithLogFile(path))
	rt, err := b.Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, rt.Stop(context.Background()))
	assert.FileExists(t, path)
}

// TestDefaultBuildOptions 测试零值超时被默认值替换
func TestDefaultBuildOptions(t *testing.T) {
	b := NewBootstrap(nil, WithBuildOptions(BuildOptions{}))
	assert.Equal(t, DefaultBuildOptions().StartTimeout, b.opts.StartTimeout)
	assert.Equal(t, DefaultBuildOptions().StopTimeout, b.opts.StopTimeout)
	assert.NotNil(t, b.opts.Registry)
	assert.NotNil(t, b.config)
}

// TestRunApp_Stop 测试 Stop 结束 Wait 并输出会话
func TestRunApp_Stop(t *testing.T) {
	a, err := RunApp(context.Background(), NewBootstrap(quietConfig()))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		a.Wait()
		close(done)
	}()

	require.NoError(t, a.Stop())
	<-done
	assert.True(t, a.Recorder().IsSessionLogged())

	// 重复 Stop 无副作用
	require.NoError(t, a.Stop())
}
