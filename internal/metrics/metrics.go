// Package metrics exposes Prometheus counters for dialogues and DNS provider
// calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"DnsBot/bot/chat"
)

const namespace = "dnsbot"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Metrics struct {
	registry        *prometheus.Registry
	gatewayDuration *prometheus.HistogramVec
	gatewayRequests *prometheus.CounterVec
	dialogueEvents  *prometheus.CounterVec
	dialoguesActive prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		gatewayDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_request_duration_seconds",
				Help:      "Duration of DNS provider calls in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		gatewayRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_requests_total",
				Help:      "Total number of DNS provider calls",
			},
			[]string{"operation", "status"},
		),
		dialogueEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dialogue_events_total",
				Help:      "Dialogue lifecycle events by workflow",
			},
			[]string{"workflow", "type"},
		),
		dialoguesActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dialogues_active",
				Help:      "Dialogues started and not yet finished since process start",
			},
		),
	}
	m.registry.MustRegister(
		m.gatewayDuration,
		m.gatewayRequests,
		m.dialogueEvents,
		m.dialoguesActive,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveGateway records one provider call.
func (m *Metrics) ObserveGateway(operation string, took time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.gatewayDuration.WithLabelValues(operation).Observe(took.Seconds())
	m.gatewayRequests.WithLabelValues(operation, status).Inc()
}

// DialogueEvent counts lifecycle events. It satisfies chat.Listener.
func (m *Metrics) DialogueEvent(ev chat.Event) {
	m.dialogueEvents.WithLabelValues(string(ev.WorkflowID), ev.Type).Inc()
	switch ev.Type {
	case chat.EventStarted:
		m.dialoguesActive.Inc()
	case chat.EventCompleted, chat.EventExited, chat.EventCancelled, chat.EventFailed:
		m.dialoguesActive.Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
