package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector 把记录器状态导出为 Prometheus 指标
type Collector struct {
	recorder *Recorder

	activeConnections *prometheus.Desc
	pendingRequests   *prometheus.Desc
	pendingPayloads   *prometheus.Desc
	pendingUpgrades   *prometheus.Desc
	pendingFlushes    *prometheus.Desc
	failedFlushes     *prometheus.Desc
	droppedCalls      *prometheus.Desc
	sessionLogged     *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector 创建指标收集器
func NewCollector(r *Recorder, namespace string) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "recorder", name), help, nil, nil)
	}
	return &Collector{
		recorder:          r,
		activeConnections: desc("active_connections", "Logical connections currently open."),
		pendingRequests:   desc("pending_requests", "Connection requests waiting for a response."),
		pendingPayloads:   desc("pending_payloads", "Payload transfers in flight."),
		pendingUpgrades:   desc("pending_upgrades", "Bandwidth upgrades in progress."),
		pendingFlushes:    desc("pending_flushes", "Records waiting to be handed to the event logger."),
		failedFlushes:     desc("failed_flushes_total", "Records the event logger failed to accept."),
		droppedCalls:      desc("dropped_calls_total", "Report calls dropped by the recording guard."),
		sessionLogged:     desc("session_logged", "1 once the client session has been logged."),
	}
}

// Describe 实现 prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.activeConnections
	ch <- c.pendingRequests
	ch <- c.pendingPayloads
	ch <- c.pendingUpgrades
	ch <- c.pendingFlushes
	ch <- c.failedFlushes
	ch <- c.droppedCalls
	ch <- c.sessionLogged
}

// Collect 实现 prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.recorder.Stats()

	logged := 0.0
	if s.SessionLogged {
		logged = 1
	}

	ch <- prometheus.MustNewConstMetric(c.activeConnections, prometheus.GaugeValue, float64(s.ActiveConnections))
	ch <- prometheus.MustNewConstMetric(c.pendingRequests, prometheus.GaugeValue, float64(s.PendingRequests))
	ch <- prometheus.MustNewConstMetric(c.pendingPayloads, prometheus.GaugeValue, float64(s.PendingPayloads))
	ch <- prometheus.MustNewConstMetric(c.pendingUpgrades, prometheus.GaugeValue, float64(s.PendingUpgrades))
	ch <- prometheus.MustNewConstMetric(c.pendingFlushes, prometheus.GaugeValue, float64(s.PendingFlushes))
	ch <- prometheus.MustNewConstMetric(c.failedFlushes, prometheus.CounterValue, float64(s.FailedFlushes))
	ch <- prometheus.MustNewConstMetric(c.droppedCalls, prometheus.CounterValue, float64(s.DroppedCalls))
	ch <- prometheus.MustNewConstMetric(c.sessionLogged, prometheus.GaugeValue, logged)
}
