/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the proxy's instrumentation.
type Metrics struct {
	requests      *prometheus.CounterVec
	errors        *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	eventStreams  prometheus.Gauge
	eventsEmitted prometheus.Counter
	eventOverflow prometheus.Counter
	pagesServed   prometheus.Counter
}

// NewMetrics creates the proxy collectors and registers them with reg. A nil
// registerer yields working but unregistered collectors, which keeps tests
// free of global registry state.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridcache",
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Requests processed, by operation.",
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridcache",
			Subsystem: "proxy",
			Name:      "request_errors_total",
			Help:      "Requests that completed in error, by operation.",
		}, []string{"operation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gridcache",
			Subsystem: "proxy",
			Name:      "request_duration_seconds",
			Help:      "Request latency, by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		eventStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gridcache",
			Subsystem: "proxy",
			Name:      "event_streams",
			Help:      "Open event streams.",
		}),
		eventsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gridcache",
			Subsystem: "proxy",
			Name:      "events_emitted_total",
			Help:      "Map events delivered to subscribers.",
		}),
		eventOverflow: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gridcache",
			Subsystem: "proxy",
			Name:      "event_buffer_overflows_total",
			Help:      "Event streams terminated for exceeding the buffer high water mark.",
		}),
		pagesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gridcache",
			Subsystem: "proxy",
			Name:      "cursor_pages_total",
			Help:      "Cursor pages served.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.errors, m.duration, m.eventStreams,
			m.eventsEmitted, m.eventOverflow, m.pagesServed)
	}
	return m
}

func (m *Metrics) observe(operation string, seconds float64, err error) {
	m.requests.WithLabelValues(operation).Inc()
	m.duration.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		m.errors.WithLabelValues(operation).Inc()
	}
}
