// Package monitoring exports gamepad engine counters to Prometheus.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soar/gamepads/gamepad"
)

const namespace = "gamepads"

// Metrics implements gamepad.Metrics on a private registry.
type Metrics struct {
	reg       *prometheus.Registry
	dropped   *prometheus.CounterVec
	rumbles   *prometheus.CounterVec
	connected prometheus.Gauge
	frames    *prometheus.CounterVec
}

var _ gamepad.Metrics = (*Metrics)(nil)

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_dropped_total",
			Help:      "Inputs ignored by the engine, by reason.",
		}, []string{"reason"}),
		rumbles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rumble_requests_total",
			Help:      "Rumble requests by outcome.",
		}, []string{"outcome"}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected",
			Help:      "Connected gamepads as of the last tick.",
		}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "frames_total",
			Help:      "Host bridge frames by kind and result.",
		}, []string{"kind", "result"}),
	}
	m.reg.MustRegister(m.dropped, m.rumbles, m.connected, m.frames)
	return m
}

func (m *Metrics) InputDropped(reason string) { m.dropped.WithLabelValues(reason).Inc() }
func (m *Metrics) RumbleDropped()             { m.rumbles.WithLabelValues("dropped").Inc() }
func (m *Metrics) RumblePlayed()              { m.rumbles.WithLabelValues("played").Inc() }
func (m *Metrics) Connected(n int)            { m.connected.Set(float64(n)) }

// Frame counts one host bridge frame.
func (m *Metrics) Frame(kind string, ok bool) {
	result := "ok"
	if !ok {
		result = "malformed"
	}
	m.frames.WithLabelValues(kind, result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
