package sparsecontent

import "context"

// Service defines the main interface for the sparse-content library.
type Service interface {
	// GetContent loads the node at path.
	GetContent(ctx context.Context, path string) (*Node, error)

	// UpdateProperties applies a batch of property changes to the node at
	// req.Path, creating the node on first write, and returns the ordered
	// change records produced.
	UpdateProperties(ctx context.Context, req UpdatePropertiesRequest) ([]Modification, error)

	// DeleteContent removes the node at path and returns the resulting
	// change records. Plain node deletes do not run the post-processor
	// pipeline.
	DeleteContent(ctx context.Context, path string) ([]Modification, error)

	// DeleteAuthorizable removes one or more user/group nodes, then runs
	// the post-processor pipeline over the accumulated change records. The
	// returned response reports 404 when a target is missing and 500 when a
	// post-processor fails after the deletion already committed.
	DeleteAuthorizable(ctx context.Context, req DeleteAuthorizableRequest) (*Response, error)

	// RegisterPostProcessor adds a processor to the pipeline.
	RegisterPostProcessor(p PostProcessor)

	// DeregisterPostProcessor removes the named processor, reporting
	// whether it was registered.
	DeregisterPostProcessor(name string) bool
}
