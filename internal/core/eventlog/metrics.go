package eventlog

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-connlog/internal/core/metrics"
	"github.com/dep2p/go-connlog/pkg/interfaces"
	"github.com/dep2p/go-connlog/pkg/types"
)

// MetricsLogger 统计记录内容后转交下一个事件汇
//
// next 为 nil 时只统计。bandwidth 非 nil 时按介质累计已结束载荷的字节数。
type MetricsLogger struct {
	next      interfaces.EventLogger
	bandwidth metrics.Reporter

	records     *prometheus.CounterVec
	sinkErrors  prometheus.Counter
	encoded     prometheus.Histogram
	connections *prometheus.CounterVec
	attempts    *prometheus.CounterVec
	payloads    *prometheus.CounterVec
	upgrades    *prometheus.CounterVec
	errorCodes  *prometheus.CounterVec
}

var _ interfaces.EventLogger = (*MetricsLogger)(nil)

// NewMetricsLogger 创建指标事件汇并在 reg 上注册指标
func NewMetricsLogger(next interfaces.EventLogger, reg prometheus.Registerer, namespace string,
	bandwidth metrics.Reporter) (*MetricsLogger, error) {
	m := &MetricsLogger{
		next:      next,
		bandwidth: bandwidth,
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "records_total",
			Help: "Records handed to the event sinks.",
		}, []string{"event_type"}),
		sinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "sink_errors_total",
			Help: "Records the downstream sinks failed to accept.",
		}),
		encoded: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "record_encoded_bytes",
			Help:    "Wire size of each record.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}),
		connections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "physical_connections_total",
			Help: "Finished physical connection episodes.",
		}, []string{"medium", "reason"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "connection_attempts_total",
			Help: "Recorded connection attempts.",
		}, []string{"medium", "direction", "result"}),
		payloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "payloads_total",
			Help: "Finished payload transfers.",
		}, []string{"medium", "direction", "status"}),
		upgrades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "bandwidth_upgrades_total",
			Help: "Recorded bandwidth upgrade attempts.",
		}, []string{"to_medium", "result"}),
		errorCodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "error_codes_total",
			Help: "Standalone error code events.",
		}, []string{"event", "category"}),
	}

	for _, c := range []prometheus.Collector{
		m.records, m.sinkErrors, m.encoded, m.connections,
		m.attempts, m.payloads, m.upgrades, m.errorCodes,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Log 实现 interfaces.EventLogger
func (m *MetricsLogger) Log(ctx context.Context, record *types.ConnectionsLog, eventType types.EventType) error {
	m.observe(record, eventType)

	if m.next == nil {
		return nil
	}
	err := m.next.Log(ctx, record, eventType)
	if err != nil {
		m.sinkErrors.Inc()
	}
	return err
}

func (m *MetricsLogger) observe(record *types.ConnectionsLog, eventType types.EventType) {
	m.records.WithLabelValues(eventType.String()).Inc()
	m.encoded.Observe(float64(len(Marshal(record))))

	if ec := record.ErrorCode; ec != nil {
		m.errorCodes.WithLabelValues(ec.Event.String(), types.CategoryOf(ec.ResultCode).String()).Inc()
	}
	if eventType != types.EventTypeClientSession || record.ClientSession == nil {
		return
	}

	for i := range record.ClientSession.StrategySessions {
		ss := &record.ClientSession.StrategySessions[i]
		for _, a := range ss.ConnectionAttempts {
			m.attempts.WithLabelValues(a.Medium.String(), a.Direction.String(), a.Result.String()).Inc()
		}
		for _, u := range ss.UpgradeAttempts {
			m.upgrades.WithLabelValues(u.ToMedium.String(), u.Result.String()).Inc()
		}
		for _, lc := range ss.Connections {
			for _, pc := range lc.PhysicalConnections {
				m.observeEpisode(&pc)
			}
		}
	}
}

func (m *MetricsLogger) observeEpisode(pc *types.PhysicalConnectionRecord) {
	medium := pc.Medium.String()
	m.connections.WithLabelValues(medium, pc.DisconnectionReason.String()).Inc()

	for _, p := range pc.SentPayloads {
		m.payloads.WithLabelValues(medium, "sent", p.Status.String()).Inc()
		if m.bandwidth != nil {
			m.bandwidth.LogSent(pc.Medium, p.BytesTransferred)
		}
	}
	for _, p := range pc.ReceivedPayloads {
		m.payloads.WithLabelValues(medium, "received", p.Status.String()).Inc()
		if m.bandwidth != nil {
			m.bandwidth.LogReceived(pc.Medium, p.BytesTransferred)
		}
	}
}
