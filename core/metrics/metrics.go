package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "package_migrator"

// Recorder holds the metrics of one run on a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	records     *prometheus.CounterVec
	duration    *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_total",
				Help:      "Records reconciled, by source and disposition.",
			},
			[]string{"source", "disposition"},
		),
		duration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time of the last run.",
			},
			[]string{"source"},
		),
		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last run without failed records.",
			},
			[]string{"source"},
		),
	}
	r.registry.MustRegister(r.records, r.duration, r.lastSuccess)
	return r
}

// RecordOutcome counts one record outcome.
func (r *Recorder) RecordOutcome(source, disposition string) {
	r.records.WithLabelValues(source, disposition).Inc()
}

// RecordRun stores the duration of a finished run and, when it succeeded,
// the completion time.
func (r *Recorder) RecordRun(source string, duration time.Duration, succeeded bool) {
	r.duration.WithLabelValues(source).Set(duration.Seconds())
	if succeeded {
		r.lastSuccess.WithLabelValues(source).SetToCurrentTime()
	}
}

// Push sends every metric of r to the configured pushgateway, grouped by source.
func Push(ctx context.Context, cfg Config, r *Recorder, source string) error {
	if !cfg.Enabled() {
		return nil
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}

	pusher := push.New(cfg.PushgatewayURL, cfg.Job).
		Gatherer(r.registry).
		Grouping("source", source).
		Client(&http.Client{Timeout: time.Duration(timeout) * time.Second})

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", cfg.PushgatewayURL, err)
	}
	return nil
}
