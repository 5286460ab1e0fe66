package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/pkg/interfaces"
	"github.com/dep2p/go-connlog/pkg/types"
	"github.com/dep2p/go-connlog/tests/mocks"
)

// TestConfigFromUnified 测试从统一配置创建记录器配置
func TestConfigFromUnified(t *testing.T) {
	assert.Equal(t, DefaultConfig(), ConfigFromUnified(nil))

	unified := config.NewConfig()
	unified.Analytics.NoRecordTime = true
	unified.Analytics.KeepFailedUpgradeAttempts = true
	unified.Analytics.DropLogInterval = config.Duration(5 * time.Second)

	cfg := ConfigFromUnified(unified)
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.NoRecordTime)
	assert.True(t, cfg.KeepFailedUpgradeAttempts)
	assert.Equal(t, 5*time.Second, cfg.DropLogInterval)
}

// TestModule_Lifecycle 测试 fx 模块在停止时结束会话
func TestModule_Lifecycle(t *testing.T) {
	sink := mocks.NewMockEventLogger()
	clk := clock.NewMock()

	var rec interfaces.Recorder
	var concrete *Recorder
	app := fxtest.New(t,
		fx.Provide(func() interfaces.EventLogger { return sink }),
		fx.Provide(func() clock.Clock { return clk }),
		Module(),
		fx.Populate(&rec, &concrete),
	)
	app.RequireStart()

	rec.StartAdvertising(types.StrategyP2PStar, []types.Medium{types.MediumBLE}, nil)
	clk.Add(time.Second)
	assert.Same(t, concrete, rec)

	app.RequireStop()

	assert.True(t, rec.IsSessionLogged())
	sessions := sink.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, time.Second, sessions[0].Duration)
}

// TestModule_UnifiedConfig 测试 fx 模块读取统一配置
func TestModule_UnifiedConfig(t *testing.T) {
	unified := config.NewConfig()
	unified.Analytics.Enabled = false

	var cfg Config
	app := fxtest.New(t,
		fx.Supply(unified),
		fx.Provide(func() interfaces.EventLogger { return mocks.NewMockEventLogger() }),
		Module(),
		fx.Populate(&cfg),
	)
	app.RequireStart()
	app.RequireStop()

	assert.False(t, cfg.Enabled)
}

// TestCollector 测试 Prometheus 指标导出
func TestCollector(t *testing.T) {
	r, _, _ := newTestRecorder(t)

	r.StartAdvertising(types.StrategyP2PStar, []types.Medium{types.MediumBLE}, nil)
	r.ConnectionEstablished("e1", types.MediumBLE, "tok")
	r.IncomingPayloadStarted("e1", 1, types.PayloadTypeBytes, 1)

	c := NewCollector(r, "connlog")
	assert.Equal(t, 8, testutil.CollectAndCount(c))

	expected := `
# HELP connlog_recorder_active_connections Logical connections currently open.
# TYPE connlog_recorder_active_connections gauge
connlog_recorder_active_connections 1
# HELP connlog_recorder_pending_payloads Payload transfers in flight.
# TYPE connlog_recorder_pending_payloads gauge
connlog_recorder_pending_payloads 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"connlog_recorder_active_connections", "connlog_recorder_pending_payloads"))
}

// TestModule_RegistersCollector 测试提供 Registerer 时注册记录器指标
func TestModule_RegistersCollector(t *testing.T) {
	reg := prometheus.NewRegistry()

	app := fxtest.New(t,
		fx.Provide(func() interfaces.EventLogger { return mocks.NewMockEventLogger() }),
		fx.Provide(func() prometheus.Registerer { return reg }),
		Module(),
	)
	app.RequireStart()
	defer app.RequireStop()

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "connlog_recorder_session_logged")
	assert.Contains(t, names, "connlog_recorder_active_connections")
}
