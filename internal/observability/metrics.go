package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Metrics struct {
	eventsTotal    *prometheus.CounterVec
	eventDuration  *prometheus.HistogramVec
	notifications  *prometheus.CounterVec
	reconnects     prometheus.Counter
	connected      prometheus.Gauge
	unreadMentions prometheus.Gauge
	gatherer       prometheus.Gatherer
	logger         *zap.Logger
}

// NewMetrics registers the client collectors on reg. A nil reg uses a fresh
// registry so tests and repeated constructions never collide.
func NewMetrics(logger *zap.Logger, reg *prometheus.Registry) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concord_client_events_total",
				Help: "Total number of gateway events by op and result",
			},
			[]string{"op", "result"},
		),
		eventDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "concord_client_event_duration_seconds",
				Help:    "Time spent applying a gateway event",
				Buckets: []float64{.00005, .0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"op"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concord_client_notifications_total",
				Help: "Notifications by kind and outcome",
			},
			[]string{"kind", "result"},
		),
		reconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "concord_client_gateway_reconnects_total",
				Help: "Total number of gateway reconnect attempts",
			},
		),
		connected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "concord_client_gateway_connected",
				Help: "1 while the gateway connection is open",
			},
		),
		unreadMentions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "concord_client_unread_mentions",
				Help: "Sum of unread mention counts across channels",
			},
		),
		gatherer: reg,
		logger:   logger,
	}

	reg.MustRegister(
		m.eventsTotal,
		m.eventDuration,
		m.notifications,
		m.reconnects,
		m.connected,
		m.unreadMentions,
	)

	return m
}

func (m *Metrics) ObserveEvent(op, result string, duration time.Duration) {
	if op == "" {
		op = "unknown"
	}
	m.eventsTotal.WithLabelValues(op, result).Inc()
	if result != "ignored" {
		m.eventDuration.WithLabelValues(op).Observe(duration.Seconds())
	}
}

func (m *Metrics) ObserveNotification(kind, result string) {
	m.notifications.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) RecordReconnect() {
	m.reconnects.Inc()
}

func (m *Metrics) SetConnected(connected bool) {
	if connected {
		m.connected.Set(1)
		return
	}
	m.connected.Set(0)
}

func (m *Metrics) SetUnreadMentions(total int) {
	m.unreadMentions.Set(float64(total))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Start serves /metrics and, when health is non-nil, the health endpoints
// until ctx is cancelled.
func (m *Metrics) Start(ctx context.Context, port int, health *HealthChecker) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	if health != nil {
		health.Register(mux)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	m.logger.Info("metrics server starting", zap.Int("port", port))

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
