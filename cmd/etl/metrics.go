package main

import (
	"fmt"
	"log"
	"sync"

	"statsetl/internal/metrics"
	"statsetl/internal/metrics/datadog"
	"statsetl/internal/metrics/prompush"
)

type metricsSettings struct {
	Backend        string
	PushGatewayURL string
	DatadogAddr    string
	Job            string
}

// newMetricsBackend builds the backend named by s.Backend. It returns nil
// when metrics are disabled.
func newMetricsBackend(s metricsSettings) (metrics.Backend, error) {
	switch s.Backend {
	case "", "none":
		return nil, nil
	case "pushgateway":
		return prompush.NewBackend(s.Job, s.PushGatewayURL)
	case "datadog":
		return datadog.NewBackend(datadog.Config{
			Addr:       s.DatadogAddr,
			Namespace:  "statsetl.",
			GlobalTags: []string{"job:" + s.Job},
		})
	default:
		return nil, fmt.Errorf("unknown backend %q", s.Backend)
	}
}

// setupMetrics installs the configured backend and returns a function that
// flushes it exactly once. Failures leave the nop backend in place.
func setupMetrics(s metricsSettings, verbose bool) func() {
	b, err := newMetricsBackend(s)
	if err != nil {
		log.Printf("metrics: %v; metrics disabled", err)
		return func() {}
	}
	if b == nil {
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", s.Backend)
		}
		return func() {}
	}
	log.Printf("metrics: backend=%v job_name=%v", s.Backend, s.Job)
	metrics.SetBackend(b)

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := metrics.Flush(); err != nil {
				log.Printf("metrics: flush error: %v", err)
			}
		})
	}
}
