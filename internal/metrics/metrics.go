// Package metrics records operational metrics from statsetl runs behind a
// small, backend-agnostic interface.
//
// The global backend defaults to a no-op, so instrumented code never has to
// check whether metrics are configured. Concrete systems live in subpackages
// (prompush for a Prometheus Pushgateway, datadog for DogStatsD) and are
// installed once by the command with SetBackend.
//
// What is recorded:
//
//   - one step observation per cleaning stage and per processed file
//   - row counts per kind: raw_rows, clean_rows, dropped_rows, duplicates,
//     conversion_failures, pattern_mismatches, inserted
//   - insert batches flushed by the loader
package metrics

import "time"

// Metric names shared by all backends.
const (
	StepTotal    = "statsetl_step_total"
	StepDuration = "statsetl_step_duration_seconds"
	RowsTotal    = "statsetl_rows_total"
	BatchesTotal = "statsetl_batches_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

// backend is set once at startup, before any recording goroutine starts.
var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep counts one execution of step and records how long it took.
// step is a cleaning stage ("clean_scrub", "clean_rank", ...) or "file".
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow adds delta to the row counter for kind. Non-positive deltas are
// ignored.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches adds delta to the flushed batch counter.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}
