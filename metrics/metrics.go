// Package metrics instruments the dispatch core with Prometheus collectors:
// request counts and latency, submission queue depth, and active connection
// count.
package metrics

import (
	"bytes"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/funnelhttp/funnel/router"
	"github.com/funnelhttp/funnel/web"
)

// Metrics holds the dispatch core collectors. A nil *Metrics is a valid
// no-op receiver so the server can run uninstrumented.
type Metrics struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	queueDepth        prometheus.Gauge
	activeConnections prometheus.Gauge
}

// New registers the dispatch core collectors on reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "funnel",
			Name:      "requests_total",
			Help:      "Requests processed, by method and response status.",
		}, []string{"method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "funnel",
			Name:      "request_duration_seconds",
			Help:      "Time from dispatch submission to final response.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "funnel",
			Name:      "queue_depth",
			Help:      "Requests waiting in the submission channel.",
		}),
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "funnel",
			Name:      "active_connections",
			Help:      "Connections currently being served.",
		}),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.queueDepth, m.activeConnections)
	return m
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Enqueued records a request entering the submission channel.
func (m *Metrics) Enqueued() {
	if m == nil {
		return
	}
	m.queueDepth.Inc()
}

// Dequeued records a request leaving the submission channel.
func (m *Metrics) Dequeued() {
	if m == nil {
		return
	}
	m.queueDepth.Dec()
}

// ConnOpened records an accepted connection.
func (m *Metrics) ConnOpened() {
	if m == nil {
		return
	}
	m.activeConnections.Inc()
}

// ConnClosed records a finished connection.
func (m *Metrics) ConnClosed() {
	if m == nil {
		return
	}
	m.activeConnections.Dec()
}

// Handler returns a route handler rendering the gatherer's metric families
// in the Prometheus text exposition format.
func Handler(g prometheus.Gatherer) router.Handler {
	return func(*router.Context) (any, error) {
		families, err := g.Gather()
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
		for _, mf := range families {
			if err := enc.Encode(mf); err != nil {
				return nil, err
			}
		}

		resp := web.NewResponse(200)
		resp.Header.Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
		resp.Body = buf.Bytes()
		return resp, nil
	}
}
