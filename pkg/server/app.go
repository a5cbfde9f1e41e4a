package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "SentiPulse/internal/domain/repository"
	mid "SentiPulse/internal/middleware"
	"SentiPulse/internal/usecase"
	pkgch "SentiPulse/pkg/clickhouse"
	"SentiPulse/pkg/config"
	xhttp "SentiPulse/pkg/http"
	pkgkafka "SentiPulse/pkg/kafka"
	applogger "SentiPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg      *config.Config
	logger   *applogger.Logger
	chClient *pkgch.Client
	producer *pkgkafka.Producer
	consumer *pkgkafka.Consumer
	kh       pkgkafka.MessageHandler
	pipe     *mid.IngestPipeline
	runner   *usecase.Runner
	sinks    []domrepo.ResultSink

	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	pipe *mid.IngestPipeline,
	runner *usecase.Runner,
	sinks []domrepo.ResultSink,
	httpHandler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		logger:      logger,
		chClient:    chClient,
		producer:    producer,
		consumer:    consumer,
		kh:          kh,
		pipe:        pipe,
		runner:      runner,
		sinks:       sinks,
		httpHandler: httpHandler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Ingest pipeline flushes buffered readings in the background
	a.pipe.Start(ctx)

	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.logger.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.logger.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	if a.cfg.Scheduler.Enabled && a.runner != nil {
		a.runner.Start(ctx)
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services, ingest side first so in-flight
// readings drain before the stores close.
func (a *App) shutdown(ctx context.Context) error {
	if a.runner != nil {
		a.runner.Stop()
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.logger.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	a.pipe.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	for _, sink := range a.sinks {
		if err := sink.Close(); err != nil {
			a.logger.Warn("result sink close error", applogger.Error(err))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
