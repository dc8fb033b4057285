package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/diplomatic-drive/internal/metrics"
)

func TestRegister_ExposesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))

	metrics.ObserveTripSave(metrics.ResultSuccess)
	metrics.ObserveReportExport(metrics.ResultSuccess, time.Now(), 3, 1)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "logbook_trip_saves_total")
	assert.Contains(t, names, "logbook_report_exports_total")
	assert.Contains(t, names, "logbook_report_export_latency_seconds")
	assert.Contains(t, names, "logbook_report_rows")
	assert.Contains(t, names, "logbook_report_clamped_rows_total")
}

func TestRegister_Twice_Fails(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))

	assert.Error(t, metrics.Register(reg))
}

func TestObserveTripSave_CountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))

	before := counterValue(t, reg, "logbook_trip_saves_total", metrics.ResultInvalid)
	metrics.ObserveTripSave(metrics.ResultInvalid)
	after := counterValue(t, reg, "logbook_trip_saves_total", metrics.ResultInvalid)

	assert.Equal(t, before+1, after)
}

// counterValue gathers reg and returns the named counter for one result label.
func counterValue(t *testing.T, reg *prometheus.Registry, name, result string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "result" && l.GetValue() == result {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
