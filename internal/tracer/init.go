package tracer

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/ginogen/litigium-sub001/internal/pkg/logger"
)

// InitTracer wires the global OTLP HTTP tracer when TRACING_ENABLED=true and
// returns the shutdown to call on exit. Disabled or failing setup yields a
// no-op shutdown, so callers never branch on tracing state.
func InitTracer(sysLogger logger.ILogger) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if os.Getenv("TRACING_ENABLED") != "true" {
		return noop
	}

	// Jaeger accepts OTLP over HTTP on 4318.
	endpoint := os.Getenv("TRACING_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:4318"
	}

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		sysLogger.Warn("TRACER", "otlp exporter unavailable, tracing stays off", map[string]interface{}{
			"endpoint": endpoint,
			"error":    err.Error(),
		})
		return noop
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("litigium-client"),
		)),
	)
	otel.SetTracerProvider(tp)

	sysLogger.Info("TRACER", "otlp tracer initialized", map[string]interface{}{"endpoint": endpoint})
	return tp.Shutdown
}
