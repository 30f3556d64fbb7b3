package app

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/adanyl0v/go-task-manager/internal/config"
)

var globalTracerProvider *sdktrace.TracerProvider

func MustInitTracing() {
	cfg := config.Global()
	if !cfg.Tracing.Enabled {
		globalLogger.Debug().Msg("tracing disabled")
		return
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create trace exporter")
		panic(err)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.Tracing.ServiceName),
		attribute.String("deployment.environment", cfg.Env),
	)
	globalTracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(globalTracerProvider)

	globalLogger.Info().
		Str("service_name", cfg.Tracing.ServiceName).
		Msg("initialized tracing")
}

func ShutdownTracing() {
	if globalTracerProvider == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Global().HTTP.ShutdownTimeout)
	defer cancel()

	err := globalTracerProvider.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown tracing")
		return
	}
	globalLogger.Info().Msg("shut down tracing")
}
