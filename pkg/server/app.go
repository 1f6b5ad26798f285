package server

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"PremCast/internal/domain/repository"
	"PremCast/internal/handler/api"
	internalrepo "PremCast/internal/repository"
	icache "PremCast/internal/service/cache"
	"PremCast/internal/usecase"
	pkgch "PremCast/pkg/clickhouse"
	"PremCast/pkg/config"
	xhttp "PremCast/pkg/http"
	pkgkafka "PremCast/pkg/kafka"
	applogger "PremCast/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	projector *usecase.Projector
	store     repository.RunStore
	sink      *usecase.RunSink
	processor *usecase.RunProcessor
	consumer  *pkgkafka.Consumer
	rh        pkgkafka.MessageHandler
	chClient  *pkgch.Client
	cache     icache.BytesCache

	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	projector *usecase.Projector,
	store repository.RunStore,
	sink *usecase.RunSink,
	processor *usecase.RunProcessor,
	consumer *pkgkafka.Consumer,
	rh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	cache icache.BytesCache,
) *App {
	return &App{
		cfg:       cfg,
		projector: projector,
		store:     store,
		sink:      sink,
		processor: processor,
		consumer:  consumer,
		rh:        rh,
		chClient:  chClient,
		cache:     cache,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}

	if s, ok := a.store.(*internalrepo.ClickHouseRunStore); ok {
		s.SetLogger(l)
	}

	httpHandler := a.httpHandler
	if httpHandler == nil {
		httpHandler = api.NewProjectionEchoHandler(l, a.projector, a.store, api.RateLimitSettings{
			Enabled:      a.cfg.RateLimit.Enabled,
			Capacity:     a.cfg.RateLimit.Capacity,
			RefillPerSec: a.cfg.RateLimit.RefillPerSec,
		})
	}

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}

	a.httpServer = xhttp.NewServer(httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	a.sink.Start(ctx)
	l.Info("run sink started", applogger.String("backend", a.cfg.History.Backend))

	if a.consumer != nil && a.rh != nil {
		a.consumer.RegisterHandler(a.rh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.rh.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(l)
}

// shutdown gracefully stops all services. Intake first, then the sink so
// buffered runs drain to the backend before clients close.
func (a *App) shutdown(l *applogger.Logger) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			l.Error("http shutdown error", applogger.Error(err))
		}
	}

	if err := a.sink.Stop(shutdownCtx); err != nil {
		l.Warn("run sink stop error", applogger.Error(err))
	}

	a.processor.Close()

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if closer, ok := a.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
