package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Providers bundles a concrete TracerProvider/MeterProvider pair built from
// stdout exporters. Wrap accepts either field as its respective interface,
// so this is strictly a convenience constructor for CLI and demo use — an
// embedding service is free to supply its own OTLP-backed providers
// instead.
type Providers struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
}

// Shutdown flushes and stops both providers. Safe to call even if either
// provider field is nil.
func (p *Providers) Shutdown(ctx context.Context) error {
	var tErr, mErr error
	if p.TracerProvider != nil {
		tErr = p.TracerProvider.Shutdown(ctx)
	}
	if p.MeterProvider != nil {
		mErr = p.MeterProvider.Shutdown(ctx)
	}
	if tErr != nil {
		return fmt.Errorf("observability: shutting down tracer provider: %w", tErr)
	}
	if mErr != nil {
		return fmt.Errorf("observability: shutting down meter provider: %w", mErr)
	}
	return nil
}

// NewStdoutProviders builds a TracerProvider and MeterProvider that write
// pretty-printed spans and metrics to stdout — the decision trace a CLI
// invocation of authzctl can print without standing up a collector.
func NewStdoutProviders(serviceName string) (*Providers, error) {
	resource := sdkresource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)

	traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("observability: building stdout trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(resource),
	)

	metricExporter, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("observability: building stdout metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(resource),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
	)

	return &Providers{TracerProvider: tp, MeterProvider: mp}, nil
}

var (
	_ trace.TracerProvider = (*sdktrace.TracerProvider)(nil)
	_ metric.MeterProvider = (*sdkmetric.MeterProvider)(nil)
)
