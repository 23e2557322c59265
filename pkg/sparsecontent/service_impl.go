package sparsecontent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// service implements the Service interface
type service struct {
	store      Store
	processors *ProcessorRegistry
	logger     *slog.Logger
	pending    []PostProcessor
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithStore sets the node store for the service
func WithStore(store Store) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithProcessorRegistry sets the post-processor registry for the service.
// Without this option the service creates its own empty registry.
func WithProcessorRegistry(registry *ProcessorRegistry) Option {
	return func(s *service) {
		s.processors = registry
	}
}

// WithPostProcessor registers a post-processor at construction time.
func WithPostProcessor(p PostProcessor) Option {
	return func(s *service) {
		s.pending = append(s.pending, p)
	}
}

// WithLogger sets the structured logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if s.processors == nil {
		s.processors = NewProcessorRegistry()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	for _, p := range s.pending {
		s.processors.Register(p)
	}
	s.pending = nil

	return s, nil
}

func (s *service) GetContent(ctx context.Context, path string) (*Node, error) {
	return s.store.GetNode(ctx, path)
}

func (s *service) UpdateProperties(ctx context.Context, req UpdatePropertiesRequest) ([]Modification, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	created := false
	node, err := s.store.GetNode(ctx, req.Path)
	switch {
	case errors.Is(err, ErrContentNotFound):
		// first write to this path creates the node
		node = NewNode(req.Path)
		created = true
	case err != nil:
		return nil, err
	}

	handler := NewPropertyValueHandler(s.logger)
	for _, prop := range req.Properties {
		if prop.ParentPath == "" {
			prop.ParentPath = node.Path()
		}
		if err := handler.SetProperty(node, prop); err != nil {
			return nil, err
		}
	}

	if err := s.store.SaveNode(ctx, node); err != nil {
		return nil, err
	}

	changes := handler.Changes()
	if created {
		changes = append([]Modification{OnCreated(node.Path())}, changes...)
	}
	return changes, nil
}

func (s *service) DeleteContent(ctx context.Context, path string) ([]Modification, error) {
	if err := s.store.DeleteNode(ctx, path); err != nil {
		return nil, err
	}
	return []Modification{OnDeleted(path)}, nil
}

func (s *service) DeleteAuthorizable(ctx context.Context, req DeleteAuthorizableRequest) (*Response, error) {
	rc := NewRequestContext(OperationDeleteAuthorizable, req.Path)
	if len(req.ApplyTo) > 0 {
		rc.Parameters["applyTo"] = req.ApplyTo
	}

	op := NewLifecycleOperation(s.deleteAuthorizables(req), s.processors)
	return op.Run(ctx, rc)
}

// deleteAuthorizables builds the primary operation for authorizable
// deletion. Targets are deleted in request order; a missing target reports
// 404 and stops, leaving already-applied deletions in place.
func (s *service) deleteAuthorizables(req DeleteAuthorizableRequest) PrimaryOperation {
	return func(ctx context.Context, rc *RequestContext) (*Response, error) {
		resp := NewResponse(req.Path)
		for _, target := range req.Targets() {
			if err := s.store.DeleteNode(ctx, target); err != nil {
				if errors.Is(err, ErrContentNotFound) {
					resp.SetStatus(http.StatusNotFound, fmt.Sprintf("authorizable %s not found", target))
					return resp, nil
				}
				return nil, err
			}
			resp.Changes = append(resp.Changes, OnDeleted(target))
		}
		return resp, nil
	}
}

func (s *service) RegisterPostProcessor(p PostProcessor) {
	s.processors.Register(p)
}

func (s *service) DeregisterPostProcessor(name string) bool {
	return s.processors.Deregister(name)
}
