package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/sparse-content/pkg/sparsecontent"
)

// NodeHandler handles HTTP requests for sparse content nodes
type NodeHandler struct {
	service sparsecontent.Service
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(service sparsecontent.Service) *NodeHandler {
	return &NodeHandler{service: service}
}

// Routes returns the routes for nodes
func (h *NodeHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/*", h.GetNode)
	r.Post("/*", h.UpdateProperties)
	r.Delete("/*", h.DeleteNode)

	return r
}

// PropertyRequest is one property change in an update request. A null values
// field deletes the property; an empty array clears it.
type PropertyRequest struct {
	Name     string   `json:"name"`
	Values   []string `json:"values"`
	TypeHint string   `json:"type_hint,omitempty"`
}

// UpdatePropertiesRequest is the request body for updating node properties
type UpdatePropertiesRequest struct {
	Properties []PropertyRequest `json:"properties"`
}

// ChangesResponse is the response body listing recorded change records
type ChangesResponse struct {
	Path    string                       `json:"path"`
	Changes []sparsecontent.Modification `json:"changes"`
}

// NodeResponse is the response body for a node
type NodeResponse struct {
	Path       string              `json:"path"`
	Properties map[string][]string `json:"properties"`
}

func nodePath(r *http.Request) string {
	return "/" + chi.URLParam(r, "*")
}

// GetNode returns the node at the request path
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	path := nodePath(r)

	node, err := h.service.GetContent(r.Context(), path)
	if err != nil {
		if errors.Is(err, sparsecontent.ErrContentNotFound) {
			http.Error(w, "node not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get node", "path", path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	props := make(map[string][]string)
	for name, value := range node.Properties() {
		props[name] = value.Values()
	}

	render.JSON(w, r, NodeResponse{Path: node.Path(), Properties: props})
}

// UpdateProperties applies a batch of property changes to the node at the
// request path, creating the node on first write
func (h *NodeHandler) UpdateProperties(w http.ResponseWriter, r *http.Request) {
	path := nodePath(r)

	var req UpdatePropertiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updateReq := sparsecontent.UpdatePropertiesRequest{Path: path}
	for _, p := range req.Properties {
		updateReq.Properties = append(updateReq.Properties, sparsecontent.RequestProperty{
			Name:     p.Name,
			TypeHint: p.TypeHint,
			Values:   p.Values,
		})
	}

	changes, err := h.service.UpdateProperties(r.Context(), updateReq)
	if err != nil {
		slog.Error("Failed to update properties", "path", path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, ChangesResponse{Path: path, Changes: changes})
}

// DeleteNode removes the node at the request path
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	path := nodePath(r)

	changes, err := h.service.DeleteContent(r.Context(), path)
	if err != nil {
		if errors.Is(err, sparsecontent.ErrContentNotFound) {
			http.Error(w, "node not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to delete node", "path", path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, ChangesResponse{Path: path, Changes: changes})
}
