package server

import (
	"context"

	"github.com/Ramsey-B/stem/pkg/tracing"
	"github.com/Ramsey-B/stem/pkg/tracing/exporters"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Ramsey-B/fern/config"
)

// InitTracing sets up the OTLP trace pipeline and hands the tracer to the
// span helpers. Returns a shutdown func for the provider; a nil shutdown
// means tracing is disabled.
func InitTracing(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	if !cfg.TracingEnabled {
		return nil, nil
	}

	otlpCfg := exporters.DefaultOTLPConfig()
	otlpCfg.Endpoint = cfg.TracingEndpoint
	otlpCfg.Protocol = cfg.TracingProtocol
	otlpCfg.Insecure = cfg.TracingInsecure

	exporter, err := exporters.NewOTLPExporter(ctx, otlpCfg)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.AppName)),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	tracing.SetTracer(tp.Tracer(cfg.AppName))

	return tp.Shutdown, nil
}
