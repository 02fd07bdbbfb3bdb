package stream

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-orrery/internal/orbit"
)

// Metrics holds the server's Prometheus collectors on a private registry,
// so several servers can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	ticksTotal    prometheus.Counter
	tickDuration  prometheus.Histogram
	clients       prometheus.Gauge
	bodies        *prometheus.GaugeVec
	framesSent    prometheus.Counter
	framesDropped *prometheus.CounterVec
	controls      *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_ticks_total",
			Help: "Total number of simulation ticks",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orrery_tick_duration_seconds",
			Help:    "Time spent advancing the simulation by one tick",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_stream_clients",
			Help: "Connected websocket clients",
		}),
		bodies: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orrery_bodies",
				Help: "Simulated bodies by kind",
			},
			[]string{"kind"},
		),
		framesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_frames_sent_total",
			Help: "Frames queued to websocket clients",
		}),
		framesDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orrery_frames_dropped_total",
				Help: "Frames not delivered to a client",
			},
			[]string{"reason"},
		),
		controls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orrery_control_messages_total",
				Help: "Control messages received from clients",
			},
			[]string{"type", "result"},
		),
	}

	m.registry.MustRegister(
		m.ticksTotal,
		m.tickDuration,
		m.clients,
		m.bodies,
		m.framesSent,
		m.framesDropped,
		m.controls,
	)
	return m
}

// RecordTick counts one tick and its duration.
func (m *Metrics) RecordTick(duration time.Duration) {
	m.ticksTotal.Inc()
	m.tickDuration.Observe(duration.Seconds())
}

// SetBodies publishes the per-kind body counts of sys.
func (m *Metrics) SetBodies(sys *orbit.System) {
	for _, kind := range []orbit.Kind{orbit.KindStar, orbit.KindPlanet, orbit.KindMoon, orbit.KindAsteroid, orbit.KindComet} {
		m.bodies.WithLabelValues(kind.String()).Set(float64(sys.Count(kind)))
	}
}

// controlTypes are the control types counted under their own label.
var controlTypes = map[string]bool{
	ControlPause:       true,
	ControlResume:      true,
	ControlTogglePause: true,
	ControlSpeed:       true,
	ControlBodySpeed:   true,
}

// RecordControl counts a control message by type and outcome. Types outside
// the known set share the "unknown" label so clients cannot mint series.
func (m *Metrics) RecordControl(msgType string, err error) {
	if !controlTypes[msgType] {
		msgType = "unknown"
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.controls.WithLabelValues(msgType, result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
