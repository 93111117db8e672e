// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "mimesmtp"

// Metrics are the Prometheus collectors updated by a Client. A nil *Metrics
// records nothing.
type Metrics struct {
	connects        *prometheus.CounterVec
	connectDuration prometheus.Histogram
	messages        prometheus.Counter
	messageBytes    prometheus.Counter
	failures        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		connects: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "client",
				Name:      "connects_total",
				Help:      "Total number of successful SMTP connects",
			},
			[]string{"connection_type"},
		),
		connectDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "client",
				Name:      "connect_duration_seconds",
				Help:      "Duration of successful connects including TLS and authentication",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		messages: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "client",
				Name:      "messages_sent_total",
				Help:      "Total number of messages accepted by the server",
			},
		),
		messageBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "client",
				Name:      "message_bytes_total",
				Help:      "Total size of the messages accepted by the server",
			},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "client",
				Name:      "failures_total",
				Help:      "Total number of failed client operations",
			},
			[]string{"op", "kind"},
		),
	}
}

func (m *Metrics) connected(t ConnectionType, d time.Duration) {
	if m == nil {
		return
	}
	m.connects.WithLabelValues(t.String()).Inc()
	m.connectDuration.Observe(d.Seconds())
}

func (m *Metrics) sent(size int) {
	if m == nil {
		return
	}
	m.messages.Inc()
	m.messageBytes.Add(float64(size))
}

func (m *Metrics) failed(op string, kind ErrKind) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(op, kind.label()).Inc()
}
