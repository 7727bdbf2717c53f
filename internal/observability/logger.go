package observability

import (
	"context"
	"fmt"

	"go-chi-calculator/internal/config"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Logger is the process-wide logger. It discards everything until InitLogger
// runs.
var Logger = zap.NewNop()

// InitLogger replaces Logger with a JSON production logger or a console
// development logger, depending on mode.
func InitLogger(mode string) error {
	var (
		l   *zap.Logger
		err error
	)

	switch mode {
	case config.LogModeProduction, "":
		l, err = zap.NewProduction()
	case config.LogModeDevelopment:
		l, err = zap.NewDevelopment()
	default:
		return fmt.Errorf("unknown log mode %q", mode)
	}
	if err != nil {
		return err
	}

	Logger = l
	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child logger enriched with trace_id and span_id
// fields from the active OTel span in ctx.
//
// ctx itself is attached as zap.Any("context", ctx): the otelzap bridge picks
// up any field holding a context.Context and emits the record with it, so the
// exported OTLP log carries the native TraceID/SpanID. The string fields keep
// stdout JSON greppable.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	span := trace.SpanContextFromContext(ctx)

	if !span.IsValid() {
		return Logger
	}

	return Logger.With(
		zap.Any("context", ctx),
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
