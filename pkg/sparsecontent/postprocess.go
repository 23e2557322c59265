package sparsecontent

import (
	"context"
	"sync"
)

// PostProcessor is an externally registered extension invoked after a
// primary lifecycle operation succeeds. Implementations receive the request
// context and the full accumulated change-record sequence, read-only.
type PostProcessor interface {
	// Name identifies the processor for registry management and error
	// reporting.
	Name() string

	// Process reacts to a completed lifecycle operation. Returning an error
	// aborts the remaining pipeline; effects already applied are not rolled
	// back.
	Process(ctx context.Context, req *RequestContext, changes []Modification) error
}

// ProcessorRegistry holds the dynamic set of registered post-processors.
// Registration and deregistration are safe to call concurrently with RunAll:
// an in-flight run iterates over a snapshot taken at invocation start, so
// the registry lock is never held across processor calls.
type ProcessorRegistry struct {
	mu         sync.RWMutex
	processors []PostProcessor
}

// NewProcessorRegistry creates an empty registry.
func NewProcessorRegistry() *ProcessorRegistry {
	return &ProcessorRegistry{}
}

// Register appends a processor. Invocation order is registration order.
func (r *ProcessorRegistry) Register(p PostProcessor) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processors = append(r.processors, p)
}

// Deregister removes the first processor with the given name and reports
// whether one was found. Runs already started keep their snapshot.
func (r *ProcessorRegistry) Deregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.processors {
		if p.Name() == name {
			r.processors = append(r.processors[:i:i], r.processors[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered processors.
func (r *ProcessorRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.processors)
}

func (r *ProcessorRegistry) snapshot() []PostProcessor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := make([]PostProcessor, len(r.processors))
	copy(snap, r.processors)
	return snap
}

// RunAll invokes every registered processor sequentially, in registration
// order, stopping at the first failure. The failure is returned as a
// *PipelineError naming the processor; earlier processors' effects stand.
// With zero processors registered RunAll is an immediate no-op.
func (r *ProcessorRegistry) RunAll(ctx context.Context, req *RequestContext, changes []Modification) error {
	for i, p := range r.snapshot() {
		if err := p.Process(ctx, req, changes); err != nil {
			return &PipelineError{Processor: p.Name(), Index: i, Err: err}
		}
	}
	return nil
}
