package services

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrTagNotFound  = errors.New("tag not found")
	ErrTaskIDExists = errors.New("a new task cannot already have an id")
	ErrTagIDExists  = errors.New("a new tag cannot already have an id")
	ErrConflict     = errors.New("conflicting data")
	ErrInvalidSort  = errors.New("invalid sort property")
)

type TaskService interface {
	// Save creates the task together with its tags.
	//
	// It returns ErrTaskIDExists if the task already has an ID
	// or ErrTagNotFound if any of its tags doesn't exist.
	Save(ctx context.Context, task *models.Task) (*models.Task, error)

	// Update replaces every field of the task, its tag set included.
	//
	// It returns ErrTaskNotFound if the task doesn't exist.
	Update(ctx context.Context, task *models.Task) (*models.Task, error)

	// PartialUpdate overwrites only the non-nil fields of patch on the
	// stored task. Tags are left untouched.
	//
	// It returns ErrTaskNotFound if the task doesn't exist.
	PartialUpdate(ctx context.Context, patch *models.Task) (*models.Task, error)

	FindAll(ctx context.Context, pageable models.Pageable, eager bool) (models.Page[*models.Task], error)

	// FindOne returns the task with its tags loaded.
	FindOne(ctx context.Context, id int64) (*models.Task, error)

	// Delete returns ErrTaskNotFound if the task doesn't exist.
	Delete(ctx context.Context, id int64) error

	FindAllByUser(ctx context.Context, userID int64, pageable models.Pageable, eager bool) (models.Page[*models.Task], error)

	// FindAllByUserAndTitle matches tasks whose title contains title. Case
	// sensitivity follows the store's LIKE operator.
	FindAllByUserAndTitle(ctx context.Context, userID int64, title string, pageable models.Pageable, eager bool) (models.Page[*models.Task], error)

	// FindAllByUserAndDay matches tasks executed on the given calendar day in
	// the service's location.
	FindAllByUserAndDay(ctx context.Context, userID int64, year int, month time.Month, day int, pageable models.Pageable, eager bool) (models.Page[*models.Task], error)

	// FindAllByUserAndWeekRange matches tasks executed within [start, end].
	FindAllByUserAndWeekRange(ctx context.Context, userID int64, start, end time.Time, pageable models.Pageable, eager bool) (models.Page[*models.Task], error)

	FindAllByUserAndMonth(ctx context.Context, userID int64, year int, month time.Month, pageable models.Pageable, eager bool) (models.Page[*models.Task], error)

	// UpdateTags replaces the tag set of the task with the distinct tags
	// given and returns the reloaded task.
	//
	// It returns ErrTaskNotFound if the task doesn't exist or
	// ErrTagNotFound if any of the tags doesn't exist.
	UpdateTags(ctx context.Context, taskID int64, tags []models.Tag) (*models.Task, error)

	// TasksForRelationshipReport returns one row per task and tag pair of
	// the user, and a row without a tag for every untagged task.
	TasksForRelationshipReport(ctx context.Context, userID int64) ([]models.TaskTagRelation, error)

	// CountResolvedTasksByTag counts closed and open tasks of the user per
	// tag. Tags without tasks of the user are omitted.
	CountResolvedTasksByTag(ctx context.Context, userID int64) ([]models.TagResolution, error)
}

type TagService interface {
	// Save returns ErrTagIDExists if the tag already has an ID.
	Save(ctx context.Context, tag *models.Tag) (*models.Tag, error)

	// Update returns ErrTagNotFound if the tag doesn't exist.
	Update(ctx context.Context, tag *models.Tag) (*models.Tag, error)

	PartialUpdate(ctx context.Context, patch *models.Tag) (*models.Tag, error)
	FindAll(ctx context.Context, pageable models.Pageable) (models.Page[*models.Tag], error)
	FindAllByUser(ctx context.Context, userID int64, pageable models.Pageable) (models.Page[*models.Tag], error)

	// FindOne returns the tag with the inverse Tasks side loaded.
	FindOne(ctx context.Context, id int64) (*models.Tag, error)

	Delete(ctx context.Context, id int64) error
}
