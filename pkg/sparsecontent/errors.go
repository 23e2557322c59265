package sparsecontent

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrContentNotFound indicates a node was not found in the store
	ErrContentNotFound = errors.New("content not found")

	// ErrPropertyNotFound indicates a property does not exist on a node
	ErrPropertyNotFound = errors.New("property not found")

	// ErrAuthorizableNotFound indicates a user or group was not found
	ErrAuthorizableNotFound = errors.New("authorizable not found")

	// ErrUnparseableValue indicates a value could not be parsed as the
	// requested property kind
	ErrUnparseableValue = errors.New("value cannot be parsed as requested kind")
)

// StorageError represents a failure raised by the content store boundary.
// Property mutations propagate it unchanged; nothing in this package retries.
type StorageError struct {
	Path string
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ProcessingError represents a failure raised by a single post-processor.
type ProcessingError struct {
	Processor string
	Op        string
	Err       error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processor %s failed during %s: %v", e.Processor, e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// PipelineError wraps the first post-processor failure with pipeline-level
// context. The cause is preserved for diagnostics via Unwrap.
type PipelineError struct {
	Processor string
	Index     int
	Err       error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("post-processor %q (index %d) failed: %v", e.Processor, e.Index, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
