package telemetry

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/tabworker/internal/build"
	"go.trai.ch/zerr"
)

// Provider owns the process-wide OpenTelemetry tracer provider.
type Provider struct {
	provider *sdktrace.TracerProvider
}

// NewProvider installs a global tracer provider. Spans are exported synchronously to w
// when w is non-nil and sampled but dropped otherwise.
func NewProvider(w io.Writer) (*Provider, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "tabworker"),
			attribute.String("service.version", build.Version),
		)),
	}
	if w != nil {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, zerr.Wrap(err, "failed to create trace exporter")
		}
		opts = append(opts, sdktrace.WithSyncer(exporter))
	}

	provider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(provider)
	return &Provider{provider: provider}, nil
}

// Tracer returns a ports.Tracer backed by this provider. Shutting the tracer down
// shuts the provider down.
func (p *Provider) Tracer() *OTelTracer {
	t := NewOTelTracerFrom(p.provider.Tracer(InstrumentationName))
	t.shutdown = p.Shutdown
	return t
}

// Shutdown flushes and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.provider.Shutdown(ctx)
}
