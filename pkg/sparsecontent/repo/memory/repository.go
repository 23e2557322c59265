package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tendant/sparse-content/pkg/sparsecontent"
)

// Repository implements sparsecontent.Store using in-memory storage
type Repository struct {
	mu    sync.RWMutex
	nodes map[string]*sparsecontent.Node
}

// New creates a new in-memory node store
func New() sparsecontent.Store {
	return &Repository{
		nodes: make(map[string]*sparsecontent.Node),
	}
}

func (r *Repository) GetNode(ctx context.Context, path string) (*sparsecontent.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	node, exists := r.nodes[path]
	if !exists {
		return nil, sparsecontent.ErrContentNotFound
	}

	// Return a copy to prevent external modifications
	return node.Clone(), nil
}

func (r *Repository) SaveNode(ctx context.Context, node *sparsecontent.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	r.nodes[node.Path()] = node.Clone()
	return nil
}

func (r *Repository) DeleteNode(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodes[path]; !exists {
		return sparsecontent.ErrContentNotFound
	}

	delete(r.nodes, path)
	return nil
}

func (r *Repository) ListNodes(ctx context.Context, parentPath string) ([]*sparsecontent.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefix := strings.TrimSuffix(parentPath, "/") + "/"

	var result []*sparsecontent.Node
	for path, node := range r.nodes {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		// direct children only
		if strings.Contains(path[len(prefix):], "/") {
			continue
		}
		result = append(result, node.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path() < result[j].Path()
	})

	return result, nil
}
