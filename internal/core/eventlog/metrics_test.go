package eventlog

import (
	"context"
	"errors"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-connlog/internal/core/metrics"
	"github.com/dep2p/go-connlog/pkg/types"
	"github.com/dep2p/go-connlog/tests/mocks"
)

func TestMetricsLogger_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	next := mocks.NewMockEventLogger()
	bw := metrics.NewBandwidthCounter(clock.NewMock())

	m, err := NewMetricsLogger(next, reg, "connlog", bw)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, m.Log(ctx, sampleSessionLog(), types.EventTypeClientSession))
	require.NoError(t, m.Log(ctx, sampleErrorLog(), types.EventTypeErrorCode))
	assert.Equal(t, 2, next.Calls())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.records.WithLabelValues("client_session")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.records.WithLabelValues("error_code")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCodes.WithLabelValues("connect", "system_error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.connections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.connections.WithLabelValues("wifi_lan", "local_disconnection")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.attempts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upgrades.WithLabelValues("wifi_lan", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.payloads.WithLabelValues("wifi_lan", "received", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.sinkErrors))

	assert.Equal(t, int64(4096), bw.ForMedium(types.MediumBluetooth).TotalOut)
	assert.Equal(t, int64(16), bw.ForMedium(types.MediumWiFiLAN).TotalIn)
	assert.Equal(t, int64(2), bw.Totals().Payloads)
}

func TestMetricsLogger_NextError(t *testing.T) {
	next := mocks.NewMockEventLogger()
	boom := errors.New("boom")
	next.LogFunc = func(context.Context, *types.ConnectionsLog, types.EventType) error { return boom }

	m, err := NewMetricsLogger(next, prometheus.NewRegistry(), "connlog", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, m.Log(context.Background(), sampleSessionLog(), types.EventTypeClientSession), boom)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sinkErrors))
}

func TestMetricsLogger_StandaloneAndDuplicate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetricsLogger(nil, reg, "connlog", nil)
	require.NoError(t, err)
	require.NoError(t, m.Log(context.Background(), sampleErrorLog(), types.EventTypeErrorCode))

	_, err = NewMetricsLogger(nil, reg, "connlog", nil)
	assert.Error(t, err)
}
