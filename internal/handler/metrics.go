package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus counters for the service. Each Handler gets
// its own registry so tests can run handlers side by side.
type Metrics struct {
	registry *prometheus.Registry

	WebhooksReceived prometheus.Counter
	AlertsProcessed  prometheus.Counter
	SMSSent          prometheus.Counter
	SMSFailed        prometheus.Counter
}

// NewMetrics returns a Metrics instance with all collectors registered.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		WebhooksReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "graftosms_webhooks_received_total",
			Help: "Total webhook requests received on POST /webhook/sms.",
		}),
		AlertsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "graftosms_alerts_processed_total",
			Help: "Total alerts extracted from accepted webhook payloads.",
		}),
		SMSSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "graftosms_sms_sent_total",
			Help: "Total SMS messages accepted by the gateway.",
		}),
		SMSFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "graftosms_sms_failed_total",
			Help: "Total SMS messages the gateway rejected or that failed in transport.",
		}),
	}
}

// HTTPHandler serves the registry in Prometheus text exposition format.
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
