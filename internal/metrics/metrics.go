// Package metrics exposes Prometheus collectors for trip saves and report
// exports. Collectors exist from package init so callers never need a nil
// check; Register attaches them to a registry once at start-up.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "logbook_"

// Result labels.
const (
	ResultSuccess     = "success"
	ResultInvalid     = "invalid"
	ResultUnavailable = "unavailable"
	ResultNoRecords   = "no_records"
	ResultNoTemplate  = "template_missing"
	ResultError       = "error"
)

var (
	tripSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "trip_saves_total",
			Help: "Trip save attempts by result",
		},
		[]string{"result"},
	)

	reportExports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "report_exports_total",
			Help: "Report exports by result",
		},
		[]string{"result"},
	)

	reportLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metricPrefix + "report_export_latency_seconds",
			Help:    "Report export latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	reportRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    metricPrefix + "report_rows",
			Help:    "Trips written per successful report",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	reportWarnings = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metricPrefix + "report_clamped_rows_total",
			Help: "Report rows whose distance was clamped to zero",
		},
	)
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{tripSaves, reportExports, reportLatency, reportRows, reportWarnings} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveTripSave counts one save attempt.
func ObserveTripSave(result string) {
	tripSaves.WithLabelValues(result).Inc()
}

// ObserveReportExport records one export attempt that started at start.
// rows and clamped are only meaningful for successful exports.
func ObserveReportExport(result string, start time.Time, rows, clamped int) {
	reportExports.WithLabelValues(result).Inc()
	reportLatency.WithLabelValues(result).Observe(time.Since(start).Seconds())
	if result == ResultSuccess {
		reportRows.Observe(float64(rows))
		reportWarnings.Add(float64(clamped))
	}
}
