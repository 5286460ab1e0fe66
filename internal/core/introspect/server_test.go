package introspect

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-connlog/internal/core/analytics"
	"github.com/dep2p/go-connlog/internal/core/eventlog"
	"github.com/dep2p/go-connlog/internal/core/metrics"
	"github.com/dep2p/go-connlog/pkg/types"
)

type fixture struct {
	recorder  *analytics.Recorder
	memory    *eventlog.MemoryLogger
	bandwidth *metrics.BandwidthCounter
	server    *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		memory:    eventlog.NewMemoryLogger(8),
		bandwidth: metrics.NewBandwidthCounter(clock.NewMock()),
	}
	reg := prometheus.NewRegistry()
	sink, err := eventlog.NewMetricsLogger(f.memory, reg, "connlog", f.bandwidth)
	require.NoError(t, err)

	f.recorder = analytics.New(sink, analytics.WithClock(clock.NewMock()))
	t.Cleanup(func() { _ = f.recorder.Close() })
	require.NoError(t, reg.Register(analytics.NewCollector(f.recorder, "connlog")))

	s := New(Config{Recorder: f.recorder, Memory: f.memory, Bandwidth: f.bandwidth, Gatherer: reg})
	f.server = httptest.NewServer(s.Handler())
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) get(t *testing.T, path string) (int, string) {
	t.Helper()

	resp, err := http.Get(f.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// runSession 产生一个含载荷的完整会话
func (f *fixture) runSession(t *testing.T) {
	t.Helper()

	r := f.recorder
	r.StartAdvertising(types.StrategyP2PStar, []types.Medium{types.MediumWiFiLAN}, nil)
	r.ConnectionEstablished("e1", types.MediumWiFiLAN, "tok")
	r.OutgoingPayloadStarted([]string{"e1"}, 1, types.PayloadTypeBytes, 100)
	r.PayloadChunkSent("e1", 1, 100)
	r.OutgoingPayloadDone("e1", 1, types.PayloadStatusSuccess, types.CodeDetailSuccess)
	r.ConnectionClosed("e1", types.MediumWiFiLAN, types.DisconnectionReasonLocalDisconnection,
		types.SafeDisconnectionSuccess)
	r.LogSession()
	r.Sync()
}

func TestServer_Report(t *testing.T) {
	f := newFixture(t)

	code, body := f.get(t, "/debug/connlog/stats")
	require.Equal(t, http.StatusOK, code)
	var stats analytics.Stats
	require.NoError(t, json.Unmarshal([]byte(body), &stats))
	assert.False(t, stats.SessionLogged)

	f.runSession(t)

	code, body = f.get(t, "/debug/connlog")
	require.Equal(t, http.StatusOK, code)
	var report Report
	require.NoError(t, json.Unmarshal([]byte(body), &report))
	assert.True(t, report.Recorder.SessionLogged)
	assert.Equal(t, uint64(1), report.Delivered)
	assert.Nil(t, report.Archive)
	require.NotNil(t, report.Bandwidth)
	assert.Equal(t, int64(100), report.Bandwidth.TotalOut)
	assert.Equal(t, int64(100), report.ByMedium["wifi_lan"].TotalOut)
}

func TestServer_Recent(t *testing.T) {
	f := newFixture(t)
	f.runSession(t)

	code, body := f.get(t, "/debug/connlog/recent?n=1")
	require.Equal(t, http.StatusOK, code)
	var entries []eventlog.Entry
	require.NoError(t, json.Unmarshal([]byte(body), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, types.EventTypeClientSession, entries[0].EventType)

	code, _ = f.get(t, "/debug/connlog/recent?n=x")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestServer_MetricsAndHealth(t *testing.T) {
	f := newFixture(t)
	f.runSession(t)

	code, body := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "connlog_records_total")
	assert.Contains(t, body, "connlog_recorder_session_logged 1")

	code, body = f.get(t, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"ok"`)

	resp, err := http.Post(f.server.URL+"/debug/connlog", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_OptionalSources(t *testing.T) {
	rec := analytics.New(nil)
	t.Cleanup(func() { _ = rec.Close() })

	srv := httptest.NewServer(New(Config{Recorder: rec, Gatherer: prometheus.NewRegistry()}).Handler())
	defer srv.Close()

	for _, path := range []string{"/debug/connlog/recent", "/debug/connlog/bandwidth"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestServer_StartStop(t *testing.T) {
	rec := analytics.New(nil)
	t.Cleanup(func() { _ = rec.Close() })

	s := New(Config{Addr: "127.0.0.1:0", Recorder: rec})
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}
