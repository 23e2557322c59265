package sparsecontent

import (
	"context"
	"log/slog"
)

// processorFunc adapts a plain function to the PostProcessor interface.
type processorFunc struct {
	name string
	fn   func(ctx context.Context, req *RequestContext, changes []Modification) error
}

// NewProcessorFunc wraps fn as a named PostProcessor.
func NewProcessorFunc(name string, fn func(ctx context.Context, req *RequestContext, changes []Modification) error) PostProcessor {
	return &processorFunc{name: name, fn: fn}
}

func (p *processorFunc) Name() string { return p.name }

func (p *processorFunc) Process(ctx context.Context, req *RequestContext, changes []Modification) error {
	return p.fn(ctx, req, changes)
}

// NewNoopProcessor returns a processor that accepts every invocation.
func NewNoopProcessor(name string) PostProcessor {
	return NewProcessorFunc(name, func(context.Context, *RequestContext, []Modification) error {
		return nil
	})
}

// NewLoggingProcessor returns a processor that logs every change record at
// info level. A nil logger falls back to slog.Default().
func NewLoggingProcessor(logger *slog.Logger) PostProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return NewProcessorFunc("change-logger", func(_ context.Context, req *RequestContext, changes []Modification) error {
		for _, change := range changes {
			logger.Info("content change",
				"request_id", req.ID,
				"operation", req.Operation,
				"type", change.Type,
				"source", change.Source)
		}
		return nil
	})
}
