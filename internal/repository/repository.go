// Package repository defines the persistence contract shared by the
// PostgreSQL and SQLite backends.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

var (
	ErrNotFound = errors.New("entity not found")
	// ErrConflict is returned when a write violates a unique or foreign key
	// constraint.
	ErrConflict = errors.New("constraint violation")
)

type TxOptions struct {
	ReadOnly bool
}

type Store interface {
	Tasks() TaskRepository
	Tags() TagRepository

	// WithinTx runs fn against a store bound to a single transaction. The
	// transaction is committed when fn returns nil and rolled back otherwise.
	WithinTx(ctx context.Context, opts TxOptions, fn func(Store) error) error

	Ping(ctx context.Context) error
	Close() error
}

// TaskFilter narrows task listings. Zero fields are ignored.
type TaskFilter struct {
	UserID        int64
	TitleContains string
	ExecutionFrom *time.Time
	ExecutionTo   *time.Time
}

type TagFilter struct {
	UserID int64
}

type TaskRepository interface {
	// Create inserts the task and sets its ID. Tags are not touched.
	Create(ctx context.Context, task *models.Task) error
	// Update overwrites every column of the task. Tags are not touched.
	Update(ctx context.Context, task *models.Task) error
	// ReplaceTags makes tagIDs the complete tag set of the task.
	ReplaceTags(ctx context.Context, taskID int64, tagIDs []int64) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	FindAll(ctx context.Context, filter TaskFilter, pageable models.Pageable) ([]*models.Task, int64, error)
	// LoadTags populates the Tags of every given task with one query.
	LoadTags(ctx context.Context, tasks []*models.Task) error
	RelationshipRows(ctx context.Context, userID int64) ([]models.TaskTagRelation, error)
	CountResolvedByTag(ctx context.Context, userID int64) ([]models.TagResolution, error)
}

type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) error
	FindByID(ctx context.Context, id int64) (*models.Tag, error)
	// FindByIDs returns the tags that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	FindAll(ctx context.Context, filter TagFilter, pageable models.Pageable) ([]*models.Tag, int64, error)
	// LoadTasks populates the inverse Tasks side of the tag.
	LoadTasks(ctx context.Context, tag *models.Tag) error
}
