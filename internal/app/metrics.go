package app

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics метрики бота: запросы к бэкенду, апдейты телеграма, фоновые задачи
type Metrics struct {
	registry *prometheus.Registry

	backendRequests *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
	updates         *prometheus.CounterVec
	sessionsEnded   *prometheus.CounterVec
	activeSessions  prometheus.Gauge
}

// NewMetrics регистрирует метрики в собственном реестре
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pratihub_bot",
			Name:      "backend_requests_total",
			Help:      "Requests sent to the platform backend.",
		}, []string{"method", "route", "status"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pratihub_bot",
			Name:      "backend_request_duration_seconds",
			Help:      "Latency of backend requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pratihub_bot",
			Name:      "telegram_updates_total",
			Help:      "Telegram updates handled, by kind.",
		}, []string{"kind"}),
		sessionsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pratihub_bot",
			Name:      "sessions_ended_total",
			Help:      "Sessions ended by the bot, by reason.",
		}, []string{"reason"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pratihub_bot",
			Name:      "active_sessions",
			Help:      "Chats with a stored session.",
		}),
	}

	m.registry.MustRegister(
		m.backendRequests,
		m.backendLatency,
		m.updates,
		m.sessionsEnded,
		m.activeSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveRequest реализует api.Observer
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.backendRequests.WithLabelValues(method, route, code).Inc()
	m.backendLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveUpdate учитывает входящий апдейт
func (m *Metrics) ObserveUpdate(kind string) {
	m.updates.WithLabelValues(kind).Inc()
}

// ObserveSessionEnd учитывает принудительное завершение сессии
func (m *Metrics) ObserveSessionEnd(reason string) {
	m.sessionsEnded.WithLabelValues(reason).Inc()
}

// SetActiveSessions текущее число сессий
func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

// Handler http.Handler для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve поднимает /metrics и /healthz на addr до отмены ctx
func (m *Metrics) Serve(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Metrics server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Metrics server failed", zap.Error(err))
	}
}
