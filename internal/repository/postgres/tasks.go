package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

const taskColumns = `t.id, t.title, t.description, t.execution_time, t.duration_min, t.closed, t.user_id`

type taskRepository struct {
	q querier
}

func scanTask(row pgx.Row) (*models.Task, error) {
	task := new(models.Task)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.ExecutionTime,
		&task.DurationMin,
		&task.Closed,
		&task.User.ID,
	)
	if err != nil {
		return nil, err
	}
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
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`
	err := r.q.QueryRow(
		ctx,
		insertTaskQuery,
		task.Title,
		task.Description,
		task.ExecutionTime,
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
SET title = $1,
    description = $2,
    execution_time = $3,
    duration_min = $4,
    closed = $5,
    user_id = $6
WHERE id = $7
`
	tag, err := r.q.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.ExecutionTime,
		task.DurationMin,
		task.Closed,
		task.User.ID,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", mapError(err))
	}
	return requireAffected(tag)
}

func (r *taskRepository) ReplaceTags(ctx context.Context, taskID int64, tagIDs []int64) error {
	const deleteTaskTagsQuery = `DELETE FROM task_tag WHERE task_id = $1`
	_, err := r.q.Exec(ctx, deleteTaskTagsQuery, taskID)
	if err != nil {
		return fmt.Errorf("delete task tags: %w", mapError(err))
	}
	if len(tagIDs) == 0 {
		return nil
	}

	const insertTaskTagsQuery = `
INSERT INTO task_tag (task_id, tag_id)
SELECT $1, UNNEST($2::BIGINT[])
ON CONFLICT DO NOTHING
`
	_, err = r.q.Exec(ctx, insertTaskTagsQuery, taskID, tagIDs)
	if err != nil {
		return fmt.Errorf("insert task tags: %w", mapError(err))
	}
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	const selectTaskByIDQuery = `SELECT ` + taskColumns + ` FROM task t WHERE t.id = $1`
	task, err := scanTask(r.q.QueryRow(ctx, selectTaskByIDQuery, id))
	if err != nil {
		return nil, fmt.Errorf("select task: %w", mapError(err))
	}
	return task, nil
}

func (r *taskRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const existsTaskQuery = `SELECT EXISTS (SELECT 1 FROM task WHERE id = $1)`
	var exists bool
	err := r.q.QueryRow(ctx, existsTaskQuery, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check task: %w", mapError(err))
	}
	return exists, nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	const deleteTaskQuery = `DELETE FROM task WHERE id = $1`
	tag, err := r.q.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", mapError(err))
	}
	return requireAffected(tag)
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
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.UserID != 0 {
		conds = append(conds, "t.user_id = "+arg(filter.UserID))
	}
	if filter.TitleContains != "" {
		conds = append(conds, "t.title LIKE "+arg("%"+repository.EscapeLike(filter.TitleContains)+"%")+` ESCAPE '\'`)
	}
	if filter.ExecutionFrom != nil {
		conds = append(conds, "t.execution_time >= "+arg(*filter.ExecutionFrom))
	}
	if filter.ExecutionTo != nil {
		conds = append(conds, "t.execution_time <= "+arg(*filter.ExecutionTo))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	err = r.q.QueryRow(ctx, "SELECT COUNT(*) FROM task t"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", mapError(err))
	}

	query := "SELECT " + taskColumns + " FROM task t" + where + " " + orderBy
	if pageable.Size > 0 {
		query += " LIMIT " + arg(pageable.Size) + " OFFSET " + arg(pageable.Offset())
	}

	rows, err := r.q.Query(ctx, query, args...)
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

	const selectTaskTagsQuery = `
SELECT tt.task_id, g.id, g.name, g.user_id
FROM task_tag tt
JOIN tag g ON g.id = tt.tag_id
WHERE tt.task_id = ANY($1)
ORDER BY g.id
`
	rows, err := r.q.Query(ctx, selectTaskTagsQuery, ids)
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
       COALESCE(t.closed, FALSE),
       COALESCE(g.id, 0),
       g.name
FROM task t
LEFT JOIN task_tag tt ON tt.task_id = t.id
LEFT JOIN tag g ON g.id = tt.tag_id
WHERE t.user_id = $1
ORDER BY t.id, g.id
`
	rows, err := r.q.Query(ctx, selectRelationshipsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("select relationships: %w", mapError(err))
	}
	defer rows.Close()

	relations := make([]models.TaskTagRelation, 0)
	for rows.Next() {
		var rel models.TaskTagRelation
		err = rows.Scan(
			&rel.TaskID,
			&rel.TaskTitle,
			&rel.ExecutionTime,
			&rel.DurationMin,
			&rel.Closed,
			&rel.TagID,
			&rel.TagName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
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
       SUM(CASE WHEN t.closed THEN 1 ELSE 0 END),
       SUM(CASE WHEN t.closed THEN 0 ELSE 1 END)
FROM tag g
JOIN task_tag tt ON tt.tag_id = g.id
JOIN task t ON t.id = tt.task_id
WHERE t.user_id = $1
GROUP BY g.id, g.name
ORDER BY g.id
`
	rows, err := r.q.Query(ctx, countResolvedByTagQuery, userID)
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
