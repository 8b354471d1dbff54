package localai

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// newMetrics registers the request collectors on reg; a nil reg disables metrics
func newMetrics(reg prometheus.Registerer, log zerolog.Logger) *metrics {
	if reg == nil {
		return nil
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "localai",
		Subsystem: "embedding",
		Name:      "requests_total",
		Help:      "Embedding invocations by model and outcome.",
	}, []string{"model", "outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "localai",
		Subsystem: "embedding",
		Name:      "request_duration_seconds",
		Help:      "Embedding invocation latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"model"})

	return &metrics{
		requests: register(reg, log, requests),
		duration: register(reg, log, duration),
	}
}

// register returns the collector already registered under the same
// descriptor, so several embedders can share a registerer. Any other
// registration failure is logged and c is used unregistered.
func register[C prometheus.Collector](reg prometheus.Registerer, log zerolog.Logger, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}

	log.Warn().Err(err).Msg("failed to register metrics collector")
	return c
}

func (m *metrics) observe(model, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(model, outcome).Inc()
	m.duration.WithLabelValues(model).Observe(elapsed.Seconds())
}
