package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealmate/internal/health"
)

const shutdownTimeout = 5 * time.Second

// NewMetricsMux собирает HTTP-обработчики /metrics, /healthz, /readyz и /livez.
func NewMetricsMux(deps *Dependencies, gatherer prometheus.Gatherer) *http.ServeMux {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", deps.Health)
	mux.HandleFunc("/readyz", deps.Health.ReadinessHandler)
	mux.HandleFunc("/livez", health.LivenessHandler)
	return mux
}

// StartMetricsServer запускает HTTP-обработчик метрик и health checks до отмены ctx.
func StartMetricsServer(ctx context.Context, addr string, deps *Dependencies, gatherer prometheus.Gatherer) *http.Server {
	logger := deps.Logger.WithField("layer", "http")

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewMetricsMux(deps, gatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		ShutdownHTTP(srv, logger)
	}()

	return srv
}

// ShutdownHTTP аккуратно останавливает HTTP-сервер.
func ShutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
