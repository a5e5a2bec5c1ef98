package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"scicalc/internal/calculator"
	"scicalc/internal/config"
	"scicalc/internal/observability"
	"scicalc/internal/server"
)

func main() {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load(os.Getenv("CALC_CONFIG_FILE"))
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger()
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(context.Background())

	// Metrics
	metricShutdown, err := initMetrics(ctx)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(context.Background())

	// OTLP log export
	if cfg.OTLPLogs {
		logShutdown, err := observability.InitLogging(ctx)
		if err != nil {
			panic(err)
		}
		defer logShutdown(context.Background())
	}

	// Sessions
	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		observability.Logger.Fatal("session store unavailable", zap.Error(err))
	}
	defer store.Close()

	if err := calculator.RegisterSessionGauge(otel.Meter("calculator"), store); err != nil {
		observability.Logger.Fatal("session gauge unavailable", zap.Error(err))
	}

	// Router
	router := server.NewRouter(calculator.NewSessions(store, cfg.AngleMode))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.String("session_backend", cfg.SessionBackend),
			zap.Stringer("angle_mode", cfg.AngleMode),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv, cfg.ShutdownTimeout)
}

func waitForShutdown(srv *http.Server, timeout time.Duration) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("graceful shutdown failed", zap.Error(err))
		return
	}

	observability.Logger.Info("server stopped")
}
