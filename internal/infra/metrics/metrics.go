// Package metrics expone los contadores del pipeline de interacciones en un registry propio.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "levels"

type Metrics struct {
	reg *prometheus.Registry

	received  *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	commands  *prometheus.CounterVec
	followups *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_received_total",
			Help:      "Interactions accepted after signature verification, by kind",
		}, []string{"kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_rejected_total",
			Help:      "Interactions rejected synchronously, by reason",
		}, []string{"reason"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Processed commands, by command and outcome",
		}, []string{"command", "outcome"}),
		followups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "followups_total",
			Help:      "Follow-up deliveries, by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time spent building a command response",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
	}
	m.reg.MustRegister(
		m.received, m.rejected, m.commands, m.followups, m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler sirve /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Los métodos aceptan receptor nil para que los tests no necesiten registry.

func (m *Metrics) Received(kind string) {
	if m != nil {
		m.received.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) Rejected(reason string) {
	if m != nil {
		m.rejected.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) Command(command string, err error, took time.Duration) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, outcome(err)).Inc()
	m.duration.WithLabelValues(command).Observe(took.Seconds())
}

func (m *Metrics) Followup(err error) {
	if m != nil {
		m.followups.WithLabelValues(outcome(err)).Inc()
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
