package main

import (
	"context"
	"errors"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"

	"github.com/prometheus/client_golang/prometheus"
)

// prometheusRegisterer is the registry served by /metrics.
var prometheusRegisterer prometheus.Registerer = prometheus.DefaultRegisterer

// initTelemetry initialises the OTel providers enabled in cfg and the
// calculator metric instruments. With OTel disabled the instruments are
// bound to the global no-op provider.
func initTelemetry(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.OTelEnabled {
		traceShutdown, err := observability.InitTracing(ctx, cfg.ServiceName)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, traceShutdown)

		metricShutdown, err := observability.InitMetrics(ctx, cfg.ServiceName)
		if err != nil {
			return nil, errors.Join(err, shutdown(ctx))
		}
		shutdowns = append(shutdowns, metricShutdown)

		if cfg.OTelLogs {
			logShutdown, err := observability.InitLogging(ctx, cfg.ServiceName)
			if err != nil {
				return nil, errors.Join(err, shutdown(ctx))
			}
			shutdowns = append(shutdowns, logShutdown)
		}
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}

	return shutdown, nil
}
