package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

const taskColumns = `t.id, t.title, t.description, t.execution_time, t.duration_min, t.closed, t.user_id`

type taskRepository struct {
	q querier
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*models.Task, error) {
	task := new(models.Task)
	var executionTime sql.NullInt64
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&executionTime,
		&task.DurationMin,
		&task.Closed,
		&task.User.ID,
	)
	if err != nil {
		return nil, err
	}
	task.ExecutionTime = timeOrNil(executionTime)
	return task, nil
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO task (title,
                  description,
                  execution_time,
                  duration_min,
                  closed,
                  user_id)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id
`
	err := r.q.QueryRowContext(
		ctx,
		insertTaskQuery,
		task.Title,
		task.Description,
		unixOrNil(task.ExecutionTime),
		task.DurationMin,
		task.Closed,
		task.User.ID,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("insert task: %w", mapError(err))
	}
	return nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE task
SET title = ?,
    description = ?,
    execution_time = ?,
    duration_min = ?,
    closed = ?,
    user_id = ?
WHERE id = ?
`
	res, err := r.q.ExecContext(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		unixOrNil(task.ExecutionTime),
		task.DurationMin,
		task.Closed,
		task.User.ID,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", mapError(err))
	}
	return requireAffected(res)
}

func (r *taskRepository) ReplaceTags(ctx context.Context, taskID int64, tagIDs []int64) error {
	const deleteTaskTagsQuery = `DELETE FROM task_tag WHERE task_id = ?`
	_, err := r.q.ExecContext(ctx, deleteTaskTagsQuery, taskID)
	if err != nil {
		return fmt.Errorf("delete task tags: %w", mapError(err))
	}

	const insertTaskTagQuery = `
INSERT INTO task_tag (task_id, tag_id)
VALUES (?, ?)
ON CONFLICT DO NOTHING
`
	for _, tagID := range tagIDs {
		_, err = r.q.ExecContext(ctx, insertTaskTagQuery, taskID, tagID)
		if err != nil {
			return fmt.Errorf("insert task tag %d: %w", tagID, mapError(err))
		}
	}
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	const selectTaskByIDQuery = `SELECT ` + taskColumns + ` FROM task t WHERE t.id = ?`
	task, err := scanTask(r.q.QueryRowContext(ctx, selectTaskByIDQuery, id))
	if err != nil {
		return nil, fmt.Errorf("select task: %w", mapError(err))
	}
	return task, nil
}

func (r *taskRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const existsTaskQuery = `SELECT EXISTS (SELECT 1 FROM task WHERE id = ?)`
	var exists bool
	err := r.q.QueryRowContext(ctx, existsTaskQuery, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check task: %w", mapError(err))
	}
	return exists, nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	const deleteTaskQuery = `DELETE FROM task WHERE id = ?`
	res, err := r.q.ExecContext(ctx, deleteTaskQuery, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", mapError(err))
	}
	return requireAffected(res)
}

func (r *taskRepository) FindAll(
	ctx context.Context,
	filter repository.TaskFilter,
	pageable models.Pageable,
) ([]*models.Task, int64, error) {
	orderBy, err := repository.OrderBy(pageable.Sort, repository.TaskSortColumns)
	if err != nil {
		return nil, 0, err
	}

	var (
		conds []string
		args  []any
	)
	if filter.UserID != 0 {
		conds = append(conds, "t.user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.TitleContains != "" {
		conds = append(conds, `t.title LIKE ? ESCAPE '\'`)
		args = append(args, "%"+repository.EscapeLike(filter.TitleContains)+"%")
	}
	if filter.ExecutionFrom != nil {
		conds = append(conds, "t.execution_time >= ?")
		args = append(args, filter.ExecutionFrom.Unix())
	}
	if filter.ExecutionTo != nil {
		conds = append(conds, "t.execution_time <= ?")
		args = append(args, filter.ExecutionTo.Unix())
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	err = r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM task t"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", mapError(err))
	}

	query := "SELECT " + taskColumns + " FROM task t" + where + " " + orderBy
	if pageable.Size > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, pageable.Size, pageable.Offset())
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select tasks: %w", mapError(err))
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0, max(pageable.Size, 0))
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	err = rows.Err()
	if err != nil {
		return nil, 0, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, total, nil
}

func (r *taskRepository) LoadTags(ctx context.Context, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Task, len(tasks))
	ids := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		task.Tags = []models.Tag{}
		if _, ok := byID[task.ID]; !ok {
			ids = append(ids, task.ID)
		}
		byID[task.ID] = task
	}

	selectTaskTagsQuery := `
SELECT tt.task_id, g.id, g.name, g.user_id
FROM task_tag tt
JOIN tag g ON g.id = tt.tag_id
WHERE tt.task_id IN (` + placeholders(len(ids)) + `)
ORDER BY g.id`
	rows, err := r.q.QueryContext(ctx, selectTaskTagsQuery, int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("select task tags: %w", mapError(err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			taskID int64
			tag    models.Tag
		)
		err = rows.Scan(&taskID, &tag.ID, &tag.Name, &tag.User.ID)
		if err != nil {
			return fmt.Errorf("scan task tag: %w", err)
		}
		task := byID[taskID]
		task.Tags = append(task.Tags, tag)
	}
	err = rows.Err()
	if err != nil {
		return fmt.Errorf("iterate task tags: %w", err)
	}
	return nil
}

func (r *taskRepository) RelationshipRows(ctx context.Context, userID int64) ([]models.TaskTagRelation, error) {
	const selectRelationshipsQuery = `
SELECT t.id,
       t.title,
       t.execution_time,
       t.duration_min,
       COALESCE(t.closed, 0),
       g.id,
       g.name
FROM task t
LEFT JOIN task_tag tt ON tt.task_id = t.id
LEFT JOIN tag g ON g.id = tt.tag_id
WHERE t.user_id = ?
ORDER BY t.id, g.id
`
	rows, err := r.q.QueryContext(ctx, selectRelationshipsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("select relationships: %w", mapError(err))
	}
	defer rows.Close()

	relations := make([]models.TaskTagRelation, 0)
	for rows.Next() {
		var (
			rel           models.TaskTagRelation
			executionTime sql.NullInt64
			tagID         sql.NullInt64
		)
		err = rows.Scan(
			&rel.TaskID,
			&rel.TaskTitle,
			&executionTime,
			&rel.DurationMin,
			&rel.Closed,
			&tagID,
			&rel.TagName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		rel.ExecutionTime = timeOrNil(executionTime)
		rel.TagID = tagID.Int64
		relations = append(relations, rel)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate relationships: %w", err)
	}
	return relations, nil
}

func (r *taskRepository) CountResolvedByTag(ctx context.Context, userID int64) ([]models.TagResolution, error) {
	const countResolvedByTagQuery = `
SELECT g.id,
       g.name,
       SUM(CASE WHEN t.closed = 1 THEN 1 ELSE 0 END),
       SUM(CASE WHEN t.closed = 1 THEN 0 ELSE 1 END)
FROM tag g
JOIN task_tag tt ON tt.tag_id = g.id
JOIN task t ON t.id = tt.task_id
WHERE t.user_id = ?
GROUP BY g.id, g.name
ORDER BY g.id
`
	rows, err := r.q.QueryContext(ctx, countResolvedByTagQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("count resolved by tag: %w", mapError(err))
	}
	defer rows.Close()

	counts := make([]models.TagResolution, 0)
	for rows.Next() {
		var c models.TagResolution
		err = rows.Scan(&c.TagID, &c.TagName, &c.Resolved, &c.Unresolved)
		if err != nil {
			return nil, fmt.Errorf("scan tag resolution: %w", err)
		}
		counts = append(counts, c)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate tag resolutions: %w", err)
	}
	return counts, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
