package sparsecontent

import "context"

// ContentEntity is the narrow view of a store node consumed by the property
// mutator. Implementations own persistence; the mutator holds a reference
// only for the duration of one call. Accessor failures surface as
// *StorageError and propagate unchanged.
type ContentEntity interface {
	// Path returns the entity's address in the store.
	Path() string

	// HasProperty reports whether the named property exists. Cleared
	// properties (empty stored value) still exist.
	HasProperty(name string) bool

	// GetProperty returns the stored value for name.
	GetProperty(name string) (StorableValue, error)

	// SetProperty stores value under name, replacing any existing value.
	SetProperty(name string, value StorableValue) error

	// RemoveProperty deletes the named property.
	RemoveProperty(name string) error
}

// Store defines the interface for sparse node persistence.
type Store interface {
	// GetNode loads the node at path, or ErrContentNotFound.
	GetNode(ctx context.Context, path string) (*Node, error)

	// SaveNode persists the node, creating or replacing it.
	SaveNode(ctx context.Context, node *Node) error

	// DeleteNode removes the node at path, or returns ErrContentNotFound.
	DeleteNode(ctx context.Context, path string) error

	// ListNodes returns the direct children of parentPath, ordered by path.
	ListNodes(ctx context.Context, parentPath string) ([]*Node, error)
}
