package sparsecontent

import (
	"sort"

	"github.com/google/uuid"
)

// ModificationType identifies the kind of change applied to a node or
// property.
type ModificationType string

const (
	ModificationCreated  ModificationType = "created"
	ModificationModified ModificationType = "modified"
	ModificationDeleted  ModificationType = "deleted"
)

// Modification is one immutable audit record describing a single mutation.
// Source is the path of the changed node, or path+"@"+name for a property.
type Modification struct {
	Type   ModificationType `json:"type"`
	Source string           `json:"source"`
}

// OnCreated returns a Modification recording a creation.
func OnCreated(source string) Modification {
	return Modification{Type: ModificationCreated, Source: source}
}

// OnModified returns a Modification recording a property change.
func OnModified(source string) Modification {
	return Modification{Type: ModificationModified, Source: source}
}

// OnDeleted returns a Modification recording a removal.
func OnDeleted(source string) Modification {
	return Modification{Type: ModificationDeleted, Source: source}
}

// RequestProperty is one already-parsed property change from an inbound
// request. Values carries the delete/clear/set distinction: nil means delete,
// an empty slice means clear, anything else is the literal values to store.
type RequestProperty struct {
	Name       string
	ParentPath string
	TypeHint   string
	Values     []string
}

// Path returns the request-level address of the property.
func (p RequestProperty) Path() string {
	return p.ParentPath + "@" + p.Name
}

// RequestContext carries request-scoped information through a lifecycle
// operation and into post-processors.
type RequestContext struct {
	ID         uuid.UUID
	Operation  string
	Path       string
	Parameters map[string][]string
}

// Operation names used in RequestContext.
const (
	OperationUpdateProperties   = "updateProperties"
	OperationDeleteContent      = "delete"
	OperationDeleteAuthorizable = "deleteAuthorizable"
)

// NewRequestContext creates a request context with a fresh request ID.
func NewRequestContext(operation, path string) *RequestContext {
	return &RequestContext{
		ID:         uuid.New(),
		Operation:  operation,
		Path:       path,
		Parameters: make(map[string][]string),
	}
}

// Authorizable path layout. Users and groups are ordinary nodes stored under
// the user-manager subtree.
const (
	UserManagerRoot = "/system/userManager"
	userRoot        = UserManagerRoot + "/user/"
	groupRoot       = UserManagerRoot + "/group/"
)

// UserPath returns the node path for the user with the given id.
func UserPath(id string) string { return userRoot + id }

// GroupPath returns the node path for the group with the given id.
func GroupPath(id string) string { return groupRoot + id }

// IsAuthorizablePath reports whether path addresses a user or group node.
func IsAuthorizablePath(path string) bool {
	return len(path) > len(userRoot) && (path[:len(userRoot)] == userRoot || path[:len(groupRoot)] == groupRoot)
}

// Node is an addressable entity in the sparse content store. It holds only
// opaque storable values; no property types are persisted.
type Node struct {
	path  string
	props map[string]StorableValue
}

// NewNode creates an empty node at the given path.
func NewNode(path string) *Node {
	return &Node{path: path, props: make(map[string]StorableValue)}
}

// NewNodeWithProperties creates a node with a copy of the given properties.
func NewNodeWithProperties(path string, props map[string]StorableValue) *Node {
	n := NewNode(path)
	for name, value := range props {
		n.props[name] = value
	}
	return n
}

// Path returns the node's address in the store.
func (n *Node) Path() string { return n.path }

// HasProperty reports whether the named property exists, including
// properties cleared to an empty value.
func (n *Node) HasProperty(name string) bool {
	_, ok := n.props[name]
	return ok
}

// GetProperty returns the stored value for name, or ErrPropertyNotFound.
func (n *Node) GetProperty(name string) (StorableValue, error) {
	value, ok := n.props[name]
	if !ok {
		return StorableValue{}, ErrPropertyNotFound
	}
	return value, nil
}

// SetProperty stores value under name, replacing any existing value.
func (n *Node) SetProperty(name string, value StorableValue) error {
	n.props[name] = value
	return nil
}

// RemoveProperty deletes the named property. Removing an absent property is
// a no-op.
func (n *Node) RemoveProperty(name string) error {
	delete(n.props, name)
	return nil
}

// PropertyNames returns the names of all stored properties, sorted.
func (n *Node) PropertyNames() []string {
	names := make([]string, 0, len(n.props))
	for name := range n.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Properties returns a copy of the node's property map.
func (n *Node) Properties() map[string]StorableValue {
	props := make(map[string]StorableValue, len(n.props))
	for name, value := range n.props {
		props[name] = value
	}
	return props
}

// Clone returns a deep copy of the node. Repositories use this to keep
// stored state isolated from caller mutations.
func (n *Node) Clone() *Node {
	return NewNodeWithProperties(n.path, n.props)
}

var _ ContentEntity = (*Node)(nil)
