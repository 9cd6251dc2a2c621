package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// AdminMetrics exposes counters/histograms for the admin client.
type AdminMetrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	droppedRows     prometheus.Counter
	didOutcomeTotal *prometheus.CounterVec
}

// NewAdminMetrics registers the collectors on a private registry so a single
// command run can be flushed to a textfile without process-wide state.
func NewAdminMetrics() *AdminMetrics {
	m := &AdminMetrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vicidial",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total requests sent to the Vicidial API and admin pages",
		}, []string{"function", "outcome"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vicidial",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Latency of Vicidial requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"function"}),
		droppedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vicidial",
			Subsystem: "scrape",
			Name:      "dropped_rows_total",
			Help:      "Listing rows skipped because they were incomplete",
		}),
		didOutcomeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vicidial",
			Subsystem: "dids",
			Name:      "delete_outcomes_total",
			Help:      "DID delete attempts by outcome",
		}, []string{"mode", "status"}),
	}
	m.registry.MustRegister(m.requestsTotal, m.requestLatency, m.droppedRows, m.didOutcomeTotal)
	return m
}

// Gatherer exposes the registry for inspection.
func (m *AdminMetrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

func (m *AdminMetrics) ObserveRequest(function, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(function, outcome).Inc()
	m.requestLatency.WithLabelValues(function).Observe(seconds)
}

func (m *AdminMetrics) ObserveDroppedRows(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.droppedRows.Add(float64(n))
}

func (m *AdminMetrics) ObserveDIDOutcome(mode, status string) {
	if m == nil {
		return
	}
	m.didOutcomeTotal.WithLabelValues(mode, status).Inc()
}

// WriteTextfile writes the collected series in the node_exporter textfile
// format. An empty path is a no-op.
func (m *AdminMetrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}

// RequestSummary totals the gateway requests recorded so far.
type RequestSummary struct {
	Total   int
	Failed  int
	Seconds float64
}

// Summary reads the request series back from the registry.
func (m *AdminMetrics) Summary() RequestSummary {
	var sum RequestSummary
	if m == nil {
		return sum
	}
	mfs, err := m.registry.Gather()
	if err != nil {
		return sum
	}
	for _, mf := range mfs {
		switch mf.GetName() {
		case "vicidial_gateway_requests_total":
			for _, metric := range mf.Metric {
				n := int(metric.GetCounter().GetValue())
				sum.Total += n
				if labelValue(metric, "outcome") != "ok" {
					sum.Failed += n
				}
			}
		case "vicidial_gateway_request_duration_seconds":
			for _, metric := range mf.Metric {
				sum.Seconds += metric.GetHistogram().GetSampleSum()
			}
		}
	}
	return sum
}

func labelValue(metric *dto.Metric, name string) string {
	for _, lp := range metric.Label {
		if lp != nil && lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
