// Package metrics provides an optional Prometheus-instrumented decorator
// around a protocol.DetectorConfig. It is purely additive: neither the
// protocol package nor the builder package import it, preserving the
// core's "emits no metrics" invariant.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"protosniff/protocol"
)

// Instrumented wraps a protocol.DetectorConfig, recording detection
// outcomes and latency against a Prometheus registry.
type Instrumented struct {
	cfg        protocol.DetectorConfig
	detections *prometheus.CounterVec
	duration   prometheus.Histogram
}

// NewInstrumented wraps cfg, registering its counters and histogram against
// registerer. Pass prometheus.DefaultRegisterer to use the global registry.
func NewInstrumented(cfg protocol.DetectorConfig, registerer prometheus.Registerer) *Instrumented {
	factory := promauto.With(registerer)
	return &Instrumented{
		cfg: cfg,
		detections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protosniff_detections_total",
				Help: "Total number of protocol detection attempts by protocol and outcome.",
			},
			[]string{"protocol", "status"},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "protosniff_detect_duration_seconds",
				Help:    "Time spent running DetectInfo over an inspected prefix.",
				Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
			},
		),
	}
}

// Detect runs DetectInfo (so outcome counters and latency are recorded) and
// returns only the matched protocol.
func (i *Instrumented) Detect(data []byte) (*protocol.Protocol, error) {
	info, err := i.DetectInfo(data)
	if err != nil || info == nil {
		return nil, err
	}
	p := info.Protocol
	return &p, nil
}

// DetectInfo delegates to the wrapped config's DetectInfo, recording outcome
// counters and latency.
func (i *Instrumented) DetectInfo(data []byte) (*protocol.ProtocolInfo, error) {
	start := time.Now()
	info, err := i.cfg.DetectInfo(data)
	i.duration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		i.detections.WithLabelValues("unknown", "insufficient_data").Inc()
	case info != nil:
		i.detections.WithLabelValues(info.Protocol.String(), "match").Inc()
	default:
		i.detections.WithLabelValues("unknown", "no_match").Inc()
	}
	return info, err
}
