package v1

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

func newTestContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestParsePageable(t *testing.T) {
	c, _ := newTestContext("/api/tasks")
	pageable, err := parsePageable(c)
	require.NoError(t, err)
	assert.Equal(t, models.Pageable{Size: defaultPageSize}, pageable)

	c, _ = newTestContext("/api/tasks?page=2&size=5000&sort=title&sort=executionTime,DESC")
	pageable, err = parsePageable(c)
	require.NoError(t, err)
	assert.Equal(t, 2, pageable.Page)
	assert.Equal(t, maxPageSize, pageable.Size)
	assert.Equal(t, []models.SortOrder{
		{Property: "title"},
		{Property: "executionTime", Desc: true},
	}, pageable.Sort)

	for _, target := range []string{
		"/api/tasks?page=-1",
		"/api/tasks?size=abc",
		"/api/tasks?sort=title,sideways",
		"/api/tasks?sort=,asc",
	} {
		c, _ = newTestContext(target)
		_, err = parsePageable(c)
		assert.ErrorIs(t, err, errInvalidPaging, target)
	}
}

func TestParsePageableRejectsOverflowingOffset(t *testing.T) {
	c, _ := newTestContext("/api/tasks?size=20&page=" + strconv.Itoa(math.MaxInt/20+1))
	_, err := parsePageable(c)
	assert.ErrorIs(t, err, errInvalidPaging)

	c, _ = newTestContext("/api/tasks?size=20&page=" + strconv.Itoa(math.MaxInt/20))
	pageable, err := parsePageable(c)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pageable.Offset(), 0)

	router := newTestRouter(t, nil)
	w := do(t, router, http.MethodGet, "/api/tasks?page="+strconv.Itoa(math.MaxInt), nil)
	assertErrorKey(t, w, http.StatusBadRequest, errKeyInvalidPaging)
}

func TestParseEagerLoad(t *testing.T) {
	c, _ := newTestContext("/api/tasks")
	eager, err := parseEagerLoad(c)
	require.NoError(t, err)
	assert.True(t, eager)

	c, _ = newTestContext("/api/tasks?eagerload=false")
	eager, err = parseEagerLoad(c)
	require.NoError(t, err)
	assert.False(t, eager)
}

func TestWritePaginationHeaders(t *testing.T) {
	c, w := newTestContext("/api/tasks?page=1&size=10&eagerload=false")
	c.Request.Host = "example.com"

	writePaginationHeaders(c, models.NewPage([]int{1}, 25, models.Pageable{Page: 1, Size: 10}))

	assert.Equal(t, "25", w.Header().Get(totalCountHeader))
	assert.Equal(t,
		`<http://example.com/api/tasks?eagerload=false&page=2&size=10>; rel="next",`+
			`<http://example.com/api/tasks?eagerload=false&page=0&size=10>; rel="prev",`+
			`<http://example.com/api/tasks?eagerload=false&page=2&size=10>; rel="last",`+
			`<http://example.com/api/tasks?eagerload=false&page=0&size=10>; rel="first"`,
		w.Header().Get(linkHeader),
	)
}
