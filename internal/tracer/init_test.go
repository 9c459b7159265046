package tracer

import (
	"context"
	"testing"

	"github.com/ginogen/litigium-sub001/internal/pkg/logger"
)

func TestInitTracerDisabledByDefault(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "")

	shutdown := InitTracer(logger.NewNop())
	if shutdown == nil {
		t.Fatal("expected a no-op shutdown, got nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("no-op shutdown returned %v", err)
	}
}

func TestInitTracerRequiresExplicitOptIn(t *testing.T) {
	for _, value := range []string{"false", "0", "yes", "TRUE"} {
		t.Setenv("TRACING_ENABLED", value)
		shutdown := InitTracer(logger.NewNop())
		if err := shutdown(context.Background()); err != nil {
			t.Errorf("TRACING_ENABLED=%q: shutdown returned %v", value, err)
		}
	}
}
