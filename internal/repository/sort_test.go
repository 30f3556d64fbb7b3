package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

func TestOrderBy(t *testing.T) {
	clause, err := OrderBy(nil, TaskSortColumns)
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY t.id ASC", clause)

	clause, err = OrderBy([]models.SortOrder{
		{Property: "executionTime", Desc: true},
		{Property: "title"},
	}, TaskSortColumns)
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY t.execution_time DESC, t.title ASC, t.id ASC", clause)

	clause, err = OrderBy([]models.SortOrder{{Property: "id", Desc: true}}, TagSortColumns)
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY g.id DESC", clause)
}

func TestOrderByRejectsUnknownProperty(t *testing.T) {
	_, err := OrderBy([]models.SortOrder{{Property: "user_id; DROP TABLE task"}}, TaskSortColumns)
	assert.ErrorIs(t, err, ErrUnknownSortProperty)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\o/`, EscapeLike(`50% off_now \o/`))
	assert.Equal(t, "plain", EscapeLike("plain"))
}
