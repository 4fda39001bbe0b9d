// Package telemetry holds the Prometheus counters of the packet inspector.
//
// Counters are created per Metrics value and registered on the Registerer
// handed to NewMetrics. Nothing is registered globally.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "meshwire"

// Metrics counts inspected packets.
type Metrics struct {
	Packets *prometheus.CounterVec
	Actions *prometheus.CounterVec
	Errors  *prometheus.CounterVec
	Bytes   prometheus.Histogram

	buildInfo *prometheus.GaugeVec
}

// NewMetrics creates the counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Packets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "packets_total",
				Help:      "Decoded packets by type and routing directive.",
			},
			[]string{"type", "routing"},
		),
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_total",
				Help:      "Local handling decisions by forward mode.",
			},
			[]string{"forward", "handle"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decode_errors_total",
				Help:      "Documents that could not be decoded, by error kind.",
			},
			[]string{"kind"},
		),
		Bytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "document_bytes",
				Help:      "Size of decoded wire documents.",
				// 32 bytes .. 64KiB
				Buckets: prometheus.ExponentialBuckets(32, 2, 12),
			},
		),
		buildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "build_info",
				Help:      "Build info (constant 1, labeled by version and git_sha).",
			},
			[]string{"version", "git_sha"},
		),
	}

	for _, c := range []prometheus.Collector{m.Packets, m.Actions, m.Errors, m.Bytes, m.buildInfo} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// SetBuildInfo should be called once at startup.
func (m *Metrics) SetBuildInfo(version, gitSHA string) {
	m.buildInfo.WithLabelValues(version, gitSHA).Set(1)
}

// Handler exposes the metrics gathered by g. Mount it on /metrics.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
