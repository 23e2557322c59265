package sparsecontent

import (
	"context"
	"net/http"
)

// Response carries the outcome of a lifecycle operation using servlet-style
// status semantics (200 success, 404 not found, 500 internal error).
type Response struct {
	Status  int            `json:"status"`
	Message string         `json:"message,omitempty"`
	Path    string         `json:"path"`
	Changes []Modification `json:"changes,omitempty"`
}

// NewResponse creates a successful response for the given path.
func NewResponse(path string) *Response {
	return &Response{Status: http.StatusOK, Path: path}
}

// IsSuccessful reports whether the response carries a 2xx status.
func (r *Response) IsSuccessful() bool {
	return r.Status >= 200 && r.Status < 300
}

// SetStatus overwrites the response status and message.
func (r *Response) SetStatus(status int, message string) {
	r.Status = status
	r.Message = message
}

// PrimaryOperation performs the primary mutation of a lifecycle operation
// (e.g. deleting an authorizable) and reports its own change records on the
// returned response. An error return means the operation did not produce a
// meaningful response at all.
type PrimaryOperation func(ctx context.Context, req *RequestContext) (*Response, error)

// LifecycleOperation composes a primary operation with the post-processor
// pipeline. The pipeline runs only after the primary operation succeeds; a
// pipeline failure is reported as an internal error on the response while
// the committed primary mutation stands. There is no transactional guarantee
// across the two phases: callers can observe a 500 response for a delete
// that did in fact happen.
type LifecycleOperation struct {
	primary    PrimaryOperation
	processors *ProcessorRegistry
}

// NewLifecycleOperation composes primary with the processor registry. A nil
// registry disables post-processing.
func NewLifecycleOperation(primary PrimaryOperation, processors *ProcessorRegistry) *LifecycleOperation {
	return &LifecycleOperation{primary: primary, processors: processors}
}

// Run executes the primary operation and, on success, the pipeline.
//
// A primary error or non-2xx response returns unchanged; the pipeline is
// never invoked. On pipeline failure the response status becomes 500 with
// the pipeline failure's message; on pipeline success the primary response
// is preserved untouched.
func (o *LifecycleOperation) Run(ctx context.Context, req *RequestContext) (*Response, error) {
	resp, err := o.primary(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccessful() {
		return resp, nil
	}

	if o.processors != nil {
		if err := o.processors.RunAll(ctx, req, resp.Changes); err != nil {
			resp.SetStatus(http.StatusInternalServerError, err.Error())
		}
	}
	return resp, nil
}
