package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"

	"go.uber.org/zap"
)

func main() {

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics and log export
	shutdownTelemetry, err := initTelemetry(ctx, cfg)
	if err != nil {
		panic(err)
	}
	defer shutdownTelemetry(ctx)

	// Sessions
	store := calculator.NewStore(calculator.StoreOptions{
		TTL:         cfg.SessionTTL,
		MaxSessions: cfg.MaxSessions,
		Logger:      observability.Logger,
	})
	if err := calculator.RegisterSessionCollector(prometheusRegisterer, store); err != nil {
		panic(err)
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if cfg.SessionTTL > 0 {
		go store.Run(sweepCtx, sweepInterval(cfg.SessionTTL))
	}

	// Router
	router := server.NewRouter(store)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.String("service", cfg.ServiceName),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	waitForShutdown(srv, cfg.ShutdownTimeout)
}

// sweepInterval checks for idle sessions a few times per TTL.
func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

func waitForShutdown(srv *http.Server, timeout time.Duration) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("server shutdown", zap.Error(err))
	}
}
