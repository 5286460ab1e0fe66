package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-connlog/config"
	"github.com/dep2p/go-connlog/pkg/types"
)

// ============================================================================
// 计数
// ============================================================================

func TestBandwidthCounter_ByMedium(t *testing.T) {
	bwc := NewBandwidthCounter(clock.NewMock())

	bwc.LogSent(types.MediumWiFiLAN, 1024)
	bwc.LogSent(types.MediumWiFiLAN, 1024)
	bwc.LogReceived(types.MediumBLE, 256)

	lan := bwc.ForMedium(types.MediumWiFiLAN)
	assert.Equal(t, int64(2048), lan.TotalOut)
	assert.Equal(t, int64(0), lan.TotalIn)
	assert.Equal(t, int64(2), lan.Payloads)

	totals := bwc.Totals()
	assert.Equal(t, int64(2048), totals.TotalOut)
	assert.Equal(t, int64(256), totals.TotalIn)
	assert.Equal(t, int64(3), totals.Payloads)

	byMedium := bwc.ByMedium()
	assert.Len(t, byMedium, 2)
	assert.Equal(t, int64(256), byMedium[types.MediumBLE].TotalIn)

	assert.Equal(t, Stats{}, bwc.ForMedium(types.MediumUSB))

	bwc.Reset()
	assert.Empty(t, bwc.ByMedium())
	assert.Equal(t, int64(0), bwc.Totals().TotalOut)
}

func TestBandwidthCounter_Concurrent(t *testing.T) {
	bwc := NewBandwidthCounter(nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bwc.LogSent(types.MediumBluetooth, 1)
				bwc.LogReceived(types.MediumBluetooth, 2)
			}
		}()
	}
	wg.Wait()

	stats := bwc.ForMedium(types.MediumBluetooth)
	assert.Equal(t, int64(1600), stats.TotalOut)
	assert.Equal(t, int64(3200), stats.TotalIn)
	assert.Equal(t, int64(3200), stats.Payloads)
}

// ============================================================================
// 速率
// ============================================================================

func TestRateMeter_Window(t *testing.T) {
	clk := clock.NewMock()
	r := NewRateMeter(clk)

	r.Add(600)
	assert.Equal(t, int64(600), r.Total())
	assert.InDelta(t, 10.0, r.Rate(), 0.001)

	clk.Add(30 * time.Second)
	r.Add(600)
	assert.Equal(t, int64(1200), r.Total())

	// 第一个桶滑出窗口
	clk.Add(31 * time.Second)
	assert.Equal(t, int64(600), r.Total())

	clk.Add(2 * time.Minute)
	assert.Equal(t, int64(0), r.Total())

	r.Add(5)
	r.Reset()
	assert.Equal(t, int64(0), r.Total())
}

// ============================================================================
// 模块
// ============================================================================

func TestModule(t *testing.T) {
	var reporter Reporter
	app := fxtest.New(t, Module(), fx.Populate(&reporter))
	app.RequireStart()
	defer app.RequireStop()
	require.NotNil(t, reporter)

	unified := config.NewConfig()
	unified.EventLog.EnableMetrics = false
	assert.False(t, ConfigFromUnified(unified).Enabled)
	assert.Nil(t, NewReporter(Params{UnifiedCfg: unified}))
}
