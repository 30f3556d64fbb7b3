package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

var (
	TaskSortColumns = map[string]string{
		"id":            "t.id",
		"title":         "t.title",
		"description":   "t.description",
		"executionTime": "t.execution_time",
		"durationMin":   "t.duration_min",
		"closed":        "t.closed",
	}
	TagSortColumns = map[string]string{
		"id":   "g.id",
		"name": "g.name",
	}
)

// ErrUnknownSortProperty is wrapped by OrderBy for properties outside the
// whitelist.
var ErrUnknownSortProperty = errors.New("unknown sort property")

// OrderBy renders an ORDER BY clause from sort orders limited to the given
// whitelist. The id column is always appended as a tiebreaker.
func OrderBy(orders []models.SortOrder, columns map[string]string) (string, error) {
	parts := make([]string, 0, len(orders)+1)
	hasID := false
	for _, o := range orders {
		col, ok := columns[o.Property]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownSortProperty, o.Property)
		}
		if o.Property == "id" {
			hasID = true
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	if !hasID {
		parts = append(parts, columns["id"]+" ASC")
	}
	return "ORDER BY " + strings.Join(parts, ", "), nil
}

// EscapeLike escapes LIKE wildcards using backslash as the escape character.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
