package v1

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 2000

	totalCountHeader = "X-Total-Count"
	linkHeader       = "Link"
)

var errInvalidPaging = errors.New("invalid paging parameters")

// parsePageable reads page, size and repeated sort=property[,asc|desc]
// query parameters.
func parsePageable(c *gin.Context) (models.Pageable, error) {
	pageable := models.Pageable{Size: defaultPageSize}

	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 0 {
			return pageable, fmt.Errorf("%w: page %q", errInvalidPaging, v)
		}
		pageable.Page = page
	}

	if v := c.Query("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 {
			return pageable, fmt.Errorf("%w: size %q", errInvalidPaging, v)
		}
		pageable.Size = min(size, maxPageSize)
	}

	if pageable.Page > math.MaxInt/pageable.Size {
		return pageable, fmt.Errorf("%w: page %d is out of range", errInvalidPaging, pageable.Page)
	}

	for _, v := range c.QueryArray("sort") {
		parts := strings.Split(v, ",")
		order := models.SortOrder{Property: strings.TrimSpace(parts[0])}
		if order.Property == "" || len(parts) > 2 {
			return pageable, fmt.Errorf("%w: sort %q", errInvalidPaging, v)
		}
		if len(parts) == 2 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "asc":
			case "desc":
				order.Desc = true
			default:
				return pageable, fmt.Errorf("%w: sort %q", errInvalidPaging, v)
			}
		}
		pageable.Sort = append(pageable.Sort, order)
	}

	return pageable, nil
}

// parseEagerLoad reads the eagerload flag, which defaults to true.
func parseEagerLoad(c *gin.Context) (bool, error) {
	v := c.Query("eagerload")
	if v == "" {
		return true, nil
	}
	return strconv.ParseBool(v)
}

// writePaginationHeaders sets X-Total-Count and an RFC 5988 Link header
// with next, prev, last and first relations.
func writePaginationHeaders[T any](c *gin.Context, page models.Page[T]) {
	c.Header(totalCountHeader, strconv.FormatInt(page.Total, 10))

	size := page.Pageable.Size
	current := page.Pageable.Page
	lastPage := max(page.TotalPages()-1, 0)

	links := make([]string, 0, 4)
	if page.HasNext() {
		links = append(links, pageLink(c, current+1, size, "next"))
	}
	if page.HasPrevious() {
		links = append(links, pageLink(c, current-1, size, "prev"))
	}
	links = append(links,
		pageLink(c, lastPage, size, "last"),
		pageLink(c, 0, size, "first"),
	)
	c.Header(linkHeader, strings.Join(links, ","))
}

func pageLink(c *gin.Context, page, size int, rel string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}

	query := c.Request.URL.Query()
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return fmt.Sprintf(`<%s>; rel="%s"`, u.String(), rel)
}
