// Package metrics holds the Prometheus collectors of the snapshot pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "top20pulse"

// Metrics groups the pipeline collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Pipeline runs by response status code (200/601/701)
	RunsTotal *prometheus.CounterVec
	// Fetch results by outcome
	FetchOutcomes *prometheus.CounterVec
	// Rows appended to the warehouse
	RowsAppended prometheus.Counter
	// Rows in the destination table after the last load
	TableRows prometheus.Gauge
	// Step latency (fetch, load)
	StepDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Pipeline invocations by status code",
		}, []string{"status_code"}),
		FetchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "outcomes_total",
			Help:      "Exchange fetch results by outcome",
		}, []string{"outcome"}),
		RowsAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "load",
			Name:      "rows_appended_total",
			Help:      "Rows appended to the destination table",
		}),
		TableRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "load",
			Name:      "table_rows",
			Help:      "Total rows of the destination table after the last load",
		}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "step_duration_seconds",
			Help:      "Pipeline step duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"step"}),
	}
	reg.MustRegister(m.RunsTotal, m.FetchOutcomes, m.RowsAppended, m.TableRows, m.StepDuration)
	return m
}

// ObserveRun counts one finished invocation.
func (m *Metrics) ObserveRun(statusCode int) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// ObserveFetch counts one fetch outcome.
func (m *Metrics) ObserveFetch(outcome string) {
	if m == nil {
		return
	}
	m.FetchOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveLoad records a successful append.
func (m *Metrics) ObserveLoad(appended int, tableRows int64) {
	if m == nil {
		return
	}
	m.RowsAppended.Add(float64(appended))
	m.TableRows.Set(float64(tableRows))
}

// ObserveStep records how long step took since start.
func (m *Metrics) ObserveStep(step string, start time.Time) {
	if m == nil {
		return
	}
	m.StepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
}
