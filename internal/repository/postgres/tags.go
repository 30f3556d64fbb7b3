package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

const tagColumns = `g.id, g.name, g.user_id`

type tagRepository struct {
	q querier
}

func scanTag(row pgx.Row) (*models.Tag, error) {
	tag := new(models.Tag)
	err := row.Scan(&tag.ID, &tag.Name, &tag.User.ID)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	const insertTagQuery = `
INSERT INTO tag (name, user_id)
VALUES ($1, $2)
RETURNING id
`
	err := r.q.QueryRow(ctx, insertTagQuery, tag.Name, tag.User.ID).Scan(&tag.ID)
	if err != nil {
		return fmt.Errorf("insert tag: %w", mapError(err))
	}
	return nil
}

func (r *tagRepository) Update(ctx context.Context, tag *models.Tag) error {
	const updateTagQuery = `
UPDATE tag
SET name = $1,
    user_id = $2
WHERE id = $3
`
	cmd, err := r.q.Exec(ctx, updateTagQuery, tag.Name, tag.User.ID, tag.ID)
	if err != nil {
		return fmt.Errorf("update tag: %w", mapError(err))
	}
	return requireAffected(cmd)
}

func (r *tagRepository) FindByID(ctx context.Context, id int64) (*models.Tag, error) {
	const selectTagByIDQuery = `SELECT ` + tagColumns + ` FROM tag g WHERE g.id = $1`
	tag, err := scanTag(r.q.QueryRow(ctx, selectTagByIDQuery, id))
	if err != nil {
		return nil, fmt.Errorf("select tag: %w", mapError(err))
	}
	return tag, nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error) {
	if len(ids) == 0 {
		return []*models.Tag{}, nil
	}

	const selectTagsByIDsQuery = `SELECT ` + tagColumns + ` FROM tag g WHERE g.id = ANY($1)`
	rows, err := r.q.Query(ctx, selectTagsByIDsQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("select tags: %w", mapError(err))
	}
	defer rows.Close()

	tags := make([]*models.Tag, 0, len(ids))
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const existsTagQuery = `SELECT EXISTS (SELECT 1 FROM tag WHERE id = $1)`
	var exists bool
	err := r.q.QueryRow(ctx, existsTagQuery, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check tag: %w", mapError(err))
	}
	return exists, nil
}

func (r *tagRepository) Delete(ctx context.Context, id int64) error {
	const deleteTagQuery = `DELETE FROM tag WHERE id = $1`
	cmd, err := r.q.Exec(ctx, deleteTagQuery, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", mapError(err))
	}
	return requireAffected(cmd)
}

func (r *tagRepository) FindAll(
	ctx context.Context,
	filter repository.TagFilter,
	pageable models.Pageable,
) ([]*models.Tag, int64, error) {
	orderBy, err := repository.OrderBy(pageable.Sort, repository.TagSortColumns)
	if err != nil {
		return nil, 0, err
	}

	var (
		where string
		args  []any
	)
	if filter.UserID != 0 {
		where = " WHERE g.user_id = $1"
		args = append(args, filter.UserID)
	}

	var total int64
	err = r.q.QueryRow(ctx, "SELECT COUNT(*) FROM tag g"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count tags: %w", mapError(err))
	}

	query := "SELECT " + tagColumns + " FROM tag g" + where + " " + orderBy
	if pageable.Size > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, pageable.Size, pageable.Offset())
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select tags: %w", mapError(err))
	}
	defer rows.Close()

	tags := make([]*models.Tag, 0, max(pageable.Size, 0))
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	err = rows.Err()
	if err != nil {
		return nil, 0, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, total, nil
}

func (r *tagRepository) LoadTasks(ctx context.Context, tag *models.Tag) error {
	const selectTagTasksQuery = `
SELECT t.id, t.title
FROM task_tag tt
JOIN task t ON t.id = tt.task_id
WHERE tt.tag_id = $1
ORDER BY t.id
`
	rows, err := r.q.Query(ctx, selectTagTasksQuery, tag.ID)
	if err != nil {
		return fmt.Errorf("select tag tasks: %w", mapError(err))
	}
	defer rows.Close()

	tag.Tasks = []models.TaskRef{}
	for rows.Next() {
		var ref models.TaskRef
		err = rows.Scan(&ref.ID, &ref.Title)
		if err != nil {
			return fmt.Errorf("scan tag task: %w", err)
		}
		tag.Tasks = append(tag.Tasks, ref)
	}
	err = rows.Err()
	if err != nil {
		return fmt.Errorf("iterate tag tasks: %w", err)
	}
	return nil
}
