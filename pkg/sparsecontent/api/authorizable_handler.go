package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/sparse-content/pkg/sparsecontent"
)

// AuthorizableHandler handles lifecycle requests for users and groups
type AuthorizableHandler struct {
	service sparsecontent.Service
}

// NewAuthorizableHandler creates a new authorizable handler
func NewAuthorizableHandler(service sparsecontent.Service) *AuthorizableHandler {
	return &AuthorizableHandler{service: service}
}

// Routes returns the routes for authorizables
func (h *AuthorizableHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/user/{id}/delete", h.DeleteUser)
	r.Post("/group/{id}/delete", h.DeleteGroup)
	r.Post("/delete", h.DeleteAuthorizables)

	return r
}

// DeleteAuthorizablesRequest is the request body for bulk deletion. When
// apply_to is non-empty the path field is ignored and every listed
// authorizable path is deleted.
type DeleteAuthorizablesRequest struct {
	Path    string   `json:"path"`
	ApplyTo []string `json:"apply_to,omitempty"`
}

// DeleteUser deletes a single user
func (h *AuthorizableHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	h.deleteOne(w, r, sparsecontent.UserPath(chi.URLParam(r, "id")))
}

// DeleteGroup deletes a single group
func (h *AuthorizableHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	h.deleteOne(w, r, sparsecontent.GroupPath(chi.URLParam(r, "id")))
}

func (h *AuthorizableHandler) deleteOne(w http.ResponseWriter, r *http.Request, path string) {
	h.respond(w, r, sparsecontent.DeleteAuthorizableRequest{Path: path})
}

// DeleteAuthorizables deletes one or more authorizables named in the body
func (h *AuthorizableHandler) DeleteAuthorizables(w http.ResponseWriter, r *http.Request) {
	var req DeleteAuthorizablesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Path == "" && len(req.ApplyTo) == 0 {
		http.Error(w, "path or apply_to is required", http.StatusBadRequest)
		return
	}

	h.respond(w, r, sparsecontent.DeleteAuthorizableRequest{
		Path:    req.Path,
		ApplyTo: req.ApplyTo,
	})
}

// respond runs the deletion and mirrors the lifecycle response status. A 500
// here can follow a committed deletion when a post-processor fails; the
// response message carries the pipeline failure for the caller.
func (h *AuthorizableHandler) respond(w http.ResponseWriter, r *http.Request, req sparsecontent.DeleteAuthorizableRequest) {
	resp, err := h.service.DeleteAuthorizable(r.Context(), req)
	if err != nil {
		slog.Error("Failed to delete authorizable", "path", req.Path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.Status(r, resp.Status)
	render.JSON(w, r, resp)
}
