package observability

import (
	"context"
	"testing"

	"go-chi-calculator/internal/config"

	"go.uber.org/zap"
)

func TestInitLoggerModes(t *testing.T) {
	oldLogger := Logger
	t.Cleanup(func() { Logger = oldLogger })

	for _, mode := range []string{config.LogModeProduction, config.LogModeDevelopment} {
		t.Run(mode, func(t *testing.T) {
			Logger = nil
			if err := InitLogger(mode); err != nil {
				t.Fatalf("InitLogger(%q): %v", mode, err)
			}
			if Logger == nil {
				t.Fatal("expected Logger to be set")
			}
		})
	}
}

func TestInitLoggerRejectsUnknownMode(t *testing.T) {
	oldLogger := Logger
	t.Cleanup(func() { Logger = oldLogger })

	if err := InitLogger("chatty"); err == nil {
		t.Fatal("expected error for unknown log mode")
	}
	if Logger != oldLogger {
		t.Fatal("expected Logger to be left untouched")
	}
}

func TestLoggerWithTraceWithoutSpanReturnsBaseLogger(t *testing.T) {
	oldLogger := Logger
	Logger = zap.NewNop()
	t.Cleanup(func() { Logger = oldLogger })

	if got := LoggerWithTrace(context.Background()); got != Logger {
		t.Fatal("expected base logger when no span is active")
	}
}
