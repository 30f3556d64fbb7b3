package v1

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	w := do(t, router, http.MethodPost, "/api/tags", map[string]any{"id": 1, "name": "x", "user": user(1)})
	assertErrorKey(t, w, http.StatusBadRequest, errKeyIDExists)

	w = do(t, router, http.MethodPost, "/api/tags", map[string]any{"name": "x"})
	assertErrorKey(t, w, http.StatusBadRequest, errKeyUserNull)

	w = do(t, router, http.MethodPost, "/api/tags", map[string]any{"name": "x", "user": map[string]any{}})
	assertErrorKey(t, w, http.StatusBadRequest, errKeyUserNull)

	tag := createTag(t, router, "work", 1)
	createTag(t, router, "home", 1)
	createTag(t, router, "gym", 2)
	path := fmt.Sprintf("/api/tags/%d", tag.ID)

	task := createTask(t, router, map[string]any{"title": "deploy", "user": user(1), "tags": []map[string]any{{"id": tag.ID}}})

	w = do(t, router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[tagResponse](t, w)
	require.Len(t, found.Tasks, 1)
	assert.Equal(t, task.ID, found.Tasks[0].ID)

	w = do(t, router, http.MethodPatch, path, map[string]any{"id": tag.ID, "name": "office"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "office", *decode[tagResponse](t, w).Name)

	w = do(t, router, http.MethodPut, path, map[string]any{"id": tag.ID, "name": "desk", "user": user(1)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, testAppName+".tag.updated", w.Header().Get("X-"+testAppName+"-alert"))

	w = do(t, router, http.MethodPatch, "/api/tags/999", map[string]any{"id": 999, "name": "desk"})
	assertErrorKey(t, w, http.StatusBadRequest, errKeyIDNotFound)

	w = do(t, router, http.MethodPut, path, map[string]any{"id": tag.ID, "name": "desk", "user": map[string]any{}})
	assertErrorKey(t, w, http.StatusBadRequest, errKeyUserNull)

	w = do(t, router, http.MethodPut, "/api/tags/999", map[string]any{"id": 999, "name": "desk", "user": user(1)})
	assertErrorKey(t, w, http.StatusBadRequest, errKeyIDNotFound)

	w = do(t, router, http.MethodGet, "/api/tags/user-tags/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get(totalCountHeader))
	assert.Len(t, decode[[]tagResponse](t, w), 2)

	w = do(t, router, http.MethodGet, "/api/tags?sort=name,asc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]tagResponse](t, w)
	require.Len(t, all, 3)
	assert.Equal(t, "desk", *all[0].Name)

	w = do(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[taskResponse](t, w).Tags)

	w = do(t, router, http.MethodGet, path, nil)
	assertErrorKey(t, w, http.StatusNotFound, errKeyIDNotFound)
}
