// Package app собирает сервис голосовых команд: хранилище, внешние
// адаптеры и HTTP-серверы, и управляет их жизненным циклом.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/voicebill/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/voicebill/internal/health"
	"github.com/vladislavdragonenkov/voicebill/internal/metrics"
	"github.com/vladislavdragonenkov/voicebill/internal/oracle"
	"github.com/vladislavdragonenkov/voicebill/internal/receipt"
	"github.com/vladislavdragonenkov/voicebill/internal/service/checkout"
	"github.com/vladislavdragonenkov/voicebill/internal/service/command"
	"github.com/vladislavdragonenkov/voicebill/internal/service/rest"
	"github.com/vladislavdragonenkov/voicebill/internal/speech"
	"github.com/vladislavdragonenkov/voicebill/internal/version"
)

func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	storage, err := initStorage(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := storage.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("failed to close storage")
		}
	}()

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set, every command will be unrecognized")
	}
	classifier := oracle.NewClassifier(oracle.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.OracleTimeout,
	}, logger.WithField("component", "oracle"))

	synthesizer := speech.NewSynthesizer(speech.Config{
		BaseURL: cfg.TTSBaseURL,
	}, logger.WithField("component", "speech"))

	renderer, err := receipt.NewRenderer(cfg.ReceiptsDir, logger.WithField("component", "receipt"))
	if err != nil {
		return err
	}

	producer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(producer, logger)

	var publisher domain.EventPublisher
	if producer != nil {
		publisher = producer
	}

	commandMetrics := metrics.NewCommandMetrics()
	committer := checkout.NewCommitter(storage.Checkout, logger.WithField("component", "checkout"))
	processor := command.NewProcessor(
		classifier,
		storage.Products,
		committer,
		renderer,
		synthesizer,
		publisher,
		commandMetrics,
		logger.WithField("component", "command"),
	)

	handler := rest.NewHandler(
		processor,
		renderer,
		storage.Products,
		storage.Customers,
		storage.Transactions,
		logger.WithField("component", "rest"),
	)
	router := rest.NewRouter(handler, logger.WithField("component", "rest"))

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", healthcheck.NewCheckFunc("storage", func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return storage.Ping(pingCtx)
	}))

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("API сервер слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем API сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает служебный HTTP-сервер: /metrics для Prometheus
// и health-пробы.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.Handle("/readyz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
