package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/sparse-content/pkg/sparsecontent"
	"github.com/tendant/sparse-content/pkg/sparsecontent/api"
	"github.com/tendant/sparse-content/pkg/sparsecontent/repo/memory"
)

func setupRouter(t *testing.T, options ...sparsecontent.Option) (chi.Router, sparsecontent.Service) {
	t.Helper()

	svc, err := sparsecontent.New(append([]sparsecontent.Option{
		sparsecontent.WithStore(memory.New()),
	}, options...)...)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Mount("/nodes", api.NewNodeHandler(svc).Routes())
	r.Mount("/system/userManager", api.NewAuthorizableHandler(svc).Routes())
	return r, svc
}

func postJSON(t *testing.T, router http.Handler, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUpdateAndGetNode(t *testing.T) {
	router, _ := setupRouter(t)

	w := postJSON(t, router, "/nodes/content/item", map[string]any{
		"properties": []map[string]any{
			{"name": "title", "values": []string{"hello"}},
			{"name": "tags", "values": []string{"a", "b"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var changes api.ChangesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &changes))
	assert.Equal(t, "/content/item", changes.Path)
	require.Len(t, changes.Changes, 3) // created + two modified
	assert.Equal(t, sparsecontent.ModificationCreated, changes.Changes[0].Type)

	req := httptest.NewRequest(http.MethodGet, "/nodes/content/item", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var node api.NodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &node))
	assert.Equal(t, []string{"hello"}, node.Properties["title"])
	assert.Equal(t, []string{"a", "b"}, node.Properties["tags"])
}

func TestUpdateNodeNullValuesDeletesProperty(t *testing.T) {
	router, svc := setupRouter(t)

	w := postJSON(t, router, "/nodes/content/item", map[string]any{
		"properties": []map[string]any{{"name": "title", "values": []string{"hello"}}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "/nodes/content/item", map[string]any{
		"properties": []map[string]any{{"name": "title", "values": nil}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	node, err := svc.GetContent(context.Background(), "/content/item")
	require.NoError(t, err)
	assert.False(t, node.HasProperty("title"))
}

func TestGetNodeNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nodes/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteNode(t *testing.T) {
	router, _ := setupRouter(t)

	w := postJSON(t, router, "/nodes/content/item", map[string]any{
		"properties": []map[string]any{{"name": "title", "values": []string{"x"}}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/nodes/content/item", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/nodes/content/item", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUserEndpoint(t *testing.T) {
	router, svc := setupRouter(t)
	ctx := context.Background()

	_, err := svc.UpdateProperties(ctx, sparsecontent.UpdatePropertiesRequest{
		Path:       sparsecontent.UserPath("alice"),
		Properties: []sparsecontent.RequestProperty{{Name: "principalName", Values: []string{"alice"}}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/system/userManager/user/alice/delete", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	_, err = svc.GetContent(ctx, sparsecontent.UserPath("alice"))
	assert.ErrorIs(t, err, sparsecontent.ErrContentNotFound)
}

func TestDeleteAuthorizablesApplyTo(t *testing.T) {
	router, svc := setupRouter(t)
	ctx := context.Background()

	paths := []string{sparsecontent.UserPath("alice"), sparsecontent.GroupPath("editors")}
	for _, path := range paths {
		_, err := svc.UpdateProperties(ctx, sparsecontent.UpdatePropertiesRequest{
			Path:       path,
			Properties: []sparsecontent.RequestProperty{{Name: "principalName", Values: []string{path}}},
		})
		require.NoError(t, err)
	}

	w := postJSON(t, router, "/system/userManager/delete", map[string]any{
		"apply_to": paths,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp sparsecontent.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Changes, 2)

	for _, path := range paths {
		_, err := svc.GetContent(ctx, path)
		assert.ErrorIs(t, err, sparsecontent.ErrContentNotFound)
	}
}

func TestDeleteAuthorizableNotFoundStatus(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/system/userManager/user/ghost/delete", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAuthorizablePipelineFailureStatus(t *testing.T) {
	failing := sparsecontent.NewProcessorFunc("syncer",
		func(context.Context, *sparsecontent.RequestContext, []sparsecontent.Modification) error {
			return errors.New("downstream sync failed")
		})
	router, svc := setupRouter(t, sparsecontent.WithPostProcessor(failing))
	ctx := context.Background()

	_, err := svc.UpdateProperties(ctx, sparsecontent.UpdatePropertiesRequest{
		Path:       sparsecontent.UserPath("alice"),
		Properties: []sparsecontent.RequestProperty{{Name: "principalName", Values: []string{"alice"}}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/system/userManager/user/alice/delete", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp sparsecontent.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "downstream sync failed")

	// the delete still committed despite the 500
	_, err = svc.GetContent(ctx, sparsecontent.UserPath("alice"))
	assert.ErrorIs(t, err, sparsecontent.ErrContentNotFound)
}

func TestDeleteAuthorizablesRequiresTarget(t *testing.T) {
	router, _ := setupRouter(t)

	w := postJSON(t, router, "/system/userManager/delete", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
