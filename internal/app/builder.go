package app

import (
	"context"

	"go.trai.ch/tabworker/internal/adapters/config"
	"go.trai.ch/tabworker/internal/core/ports"
)

// shutdowner is implemented by tracers that own an exporter.
type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
	Config *config.Config
	Tracer ports.Tracer
}

// Close flushes the spans the tracer still buffers.
func (c *Components) Close(ctx context.Context) error {
	if s, ok := c.Tracer.(shutdowner); ok {
		return s.Shutdown(ctx)
	}
	return nil
}
