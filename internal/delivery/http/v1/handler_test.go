package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-task-manager/internal/repository/sqlite"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

const testAppName = "taskmanagerApp"

var brt = time.FixedZone("BRT", -3*60*60)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, signingKey []byte) *gin.Engine {
	t.Helper()

	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	h := New(
		zerolog.Nop(),
		services.NewTaskService(zerolog.Nop(), store, brt),
		services.NewTagService(zerolog.Nop(), store),
		testAppName,
		brt,
		"issuer",
		signingKey,
	)

	router := gin.New()
	RegisterRoutes(router.Group("/api"), h)
	return router
}

func do(t *testing.T, router http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createTask(t *testing.T, router http.Handler, body map[string]any) taskResponse {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/tasks", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[taskResponse](t, w)
}

func createTag(t *testing.T, router http.Handler, name string, userID int64) tagResponse {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/tags", map[string]any{"name": name, "user": map[string]any{"id": userID}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[tagResponse](t, w)
}

func assertErrorKey(t *testing.T, w *httptest.ResponseRecorder, status int, key string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	assert.Equal(t, "error."+key, w.Header().Get("X-"+testAppName+"-error"))

	problem := decode[apiError](t, w)
	assert.Equal(t, status, problem.Status)
	assert.Equal(t, key, problem.ErrorKey)
}

func TestRegisterRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	expected := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/tasks"},
		{http.MethodPut, "/api/tasks/:id"},
		{http.MethodPatch, "/api/tasks/:id"},
		{http.MethodGet, "/api/tasks"},
		{http.MethodGet, "/api/tasks/:id"},
		{http.MethodDelete, "/api/tasks/:id"},
		{http.MethodGet, "/api/tasks/user-tasks/:userId"},
		{http.MethodGet, "/api/tasks/tasks-by-title/:title/:userId"},
		{http.MethodGet, "/api/tasks/tasks-by-day/:day/:userId"},
		{http.MethodGet, "/api/tasks/tasks-by-week/:week/:userId"},
		{http.MethodGet, "/api/tasks/tasks-by-month/:month/:userId"},
		{http.MethodPost, "/api/tasks/:id/update-tags"},
		{http.MethodGet, "/api/tasks/rel/:userId"},
		{http.MethodGet, "/api/tasks/rel/:userId/solved"},
		{http.MethodPost, "/api/tags"},
		{http.MethodGet, "/api/tags/user-tags/:userId"},
	}

	routes := router.Routes()
	for _, e := range expected {
		found := false
		for _, r := range routes {
			if r.Method == e.method && r.Path == e.path {
				found = true
				break
			}
		}
		assert.True(t, found, "route %s %s not registered", e.method, e.path)
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t, nil)

	w := do(t, router, http.MethodGet, "/api/tasks", nil)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	w = do(t, router, http.MethodGet, "/api/tasks", nil, requestIDHeader, "req-42")
	assert.Equal(t, "req-42", w.Header().Get(requestIDHeader))
}

func TestAuthMiddleware(t *testing.T) {
	key := []byte("secret")
	router := newTestRouter(t, key)

	w := do(t, router, http.MethodGet, "/api/tasks", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodGet, "/api/tasks", nil, "Authorization", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	sign := func(issuer string, signingKey []byte) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		s, err := token.SignedString(signingKey)
		require.NoError(t, err)
		return s
	}

	w = do(t, router, http.MethodGet, "/api/tasks", nil, "Authorization", "Bearer "+sign("issuer", []byte("other")))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodGet, "/api/tasks", nil, "Authorization", "Bearer "+sign("someone-else", key))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodGet, "/api/tasks", nil, "Authorization", "Bearer "+sign("issuer", key))
	assert.Equal(t, http.StatusOK, w.Code)
}
