package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminMetricsObserve(t *testing.T) {
	m := NewAdminMetrics()
	m.ObserveRequest("campaigns_list", "ok", 0.2)
	m.ObserveRequest("add_lead", "api_error", 0.1)
	m.ObserveDroppedRows(2)
	m.ObserveDroppedRows(0)
	m.ObserveDIDOutcome("SINGLE", "removed")

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
		if f.GetName() == "vicidial_scrape_dropped_rows_total" {
			assert.Equal(t, 2.0, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, names["vicidial_gateway_requests_total"])
	assert.True(t, names["vicidial_gateway_request_duration_seconds"])
	assert.True(t, names["vicidial_dids_delete_outcomes_total"])
}

func TestAdminMetricsWriteTextfile(t *testing.T) {
	m := NewAdminMetrics()
	m.ObserveRequest("lead_all_info", "ok", 0.05)

	path := filepath.Join(t.TempDir(), "vicidial.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `vicidial_gateway_requests_total{function="lead_all_info",outcome="ok"} 1`))

	require.NoError(t, m.WriteTextfile(""))
}

func TestAdminMetricsSummary(t *testing.T) {
	m := NewAdminMetrics()
	m.ObserveRequest("campaigns_list", "ok", 0.25)
	m.ObserveRequest("add_user", "ok", 0.25)
	m.ObserveRequest("add_phone", "api_error", 0.5)

	sum := m.Summary()
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 1, sum.Failed)
	assert.InDelta(t, 1.0, sum.Seconds, 1e-9)
}

func TestAdminMetricsNilSafe(t *testing.T) {
	var m *AdminMetrics
	m.ObserveRequest("fn", "ok", 0.1)
	m.ObserveDroppedRows(1)
	m.ObserveDIDOutcome("GROUP", "protected")
	assert.NoError(t, m.WriteTextfile("/nonexistent/path"))
	_, err := m.Gatherer().Gather()
	assert.NoError(t, err)
	assert.Equal(t, RequestSummary{}, m.Summary())
}
