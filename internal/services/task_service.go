package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/period"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

type taskServiceImpl struct {
	logger   zerolog.Logger
	store    repository.Store
	location *time.Location
}

func NewTaskService(
	logger zerolog.Logger,
	store repository.Store,
	location *time.Location,
) TaskService {
	return &taskServiceImpl{
		logger:   logger.With().Str("component", "task_service").Logger(),
		store:    store,
		location: location,
	}
}

func (s *taskServiceImpl) Save(ctx context.Context, task *models.Task) (_ *models.Task, err error) {
	defer observe(serviceTask, "save", time.Now(), &err)

	if task.ID != 0 {
		s.logger.Error().
			Int64("task_id", task.ID).
			Msg("task to create already has an id")
		return nil, ErrTaskIDExists
	}
	task.TruncateExecutionTime()

	var saved *models.Task
	err = s.store.WithinTx(ctx, repository.TxOptions{}, func(store repository.Store) error {
		err := store.Tasks().Create(ctx, task)
		if err != nil {
			return err
		}
		s.logger.Debug().
			Int64("task_id", task.ID).
			Msg("inserted task")

		err = s.replaceTags(ctx, store, task.ID, task.Tags)
		if err != nil {
			return err
		}

		saved, err = s.reload(ctx, store, task.ID)
		return err
	})
	if err != nil {
		task.ID = 0
		s.logger.Error().
			Err(err).
			Int64("user_id", task.User.ID).
			Msg("failed to create task")
		return nil, s.mapError(err)
	}

	s.logger.Info().
		Int64("task_id", saved.ID).
		Int64("user_id", saved.User.ID).
		Msg("created task")
	return saved, nil
}

func (s *taskServiceImpl) Update(ctx context.Context, task *models.Task) (_ *models.Task, err error) {
	defer observe(serviceTask, "update", time.Now(), &err)

	task.TruncateExecutionTime()

	var updated *models.Task
	err = s.store.WithinTx(ctx, repository.TxOptions{}, func(store repository.Store) error {
		err := store.Tasks().Update(ctx, task)
		if err != nil {
			return err
		}
		s.logger.Debug().
			Int64("task_id", task.ID).
			Msg("updated task row")

		err = s.replaceTags(ctx, store, task.ID, task.Tags)
		if err != nil {
			return err
		}

		updated, err = s.reload(ctx, store, task.ID)
		return err
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return nil, s.mapError(err)
	}

	s.logger.Info().
		Int64("task_id", updated.ID).
		Msg("updated task")
	return updated, nil
}

func (s *taskServiceImpl) PartialUpdate(ctx context.Context, patch *models.Task) (_ *models.Task, err error) {
	defer observe(serviceTask, "partial_update", time.Now(), &err)

	var merged *models.Task
	err = s.store.WithinTx(ctx, repository.TxOptions{}, func(store repository.Store) error {
		existing, err := store.Tasks().FindByID(ctx, patch.ID)
		if err != nil {
			return err
		}

		existing.Merge(patch)
		existing.TruncateExecutionTime()

		err = store.Tasks().Update(ctx, existing)
		if err != nil {
			return err
		}
		s.logger.Debug().
			Int64("task_id", existing.ID).
			Msg("merged task")

		err = store.Tasks().LoadTags(ctx, []*models.Task{existing})
		if err != nil {
			return err
		}
		merged = existing
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", patch.ID).
			Msg("failed to partially update task")
		return nil, s.mapError(err)
	}

	s.logger.Info().
		Int64("task_id", merged.ID).
		Msg("partially updated task")
	return merged, nil
}

func (s *taskServiceImpl) FindAll(ctx context.Context, pageable models.Pageable, eager bool) (_ models.Page[*models.Task], err error) {
	defer observe(serviceTask, "find_all", time.Now(), &err)
	return s.findPage(ctx, repository.TaskFilter{}, pageable, eager)
}

func (s *taskServiceImpl) FindOne(ctx context.Context, id int64) (_ *models.Task, err error) {
	defer observe(serviceTask, "find_one", time.Now(), &err)

	var task *models.Task
	err = s.store.WithinTx(ctx, repository.TxOptions{ReadOnly: true}, func(store repository.Store) error {
		task, err = s.reload(ctx, store, id)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().
				Int64("task_id", id).
				Msg("task not found")
		} else {
			s.logger.Error().
				Err(err).
				Int64("task_id", id).
				Msg("failed to select task")
		}
		return nil, s.mapError(err)
	}

	s.logger.Debug().
		Int64("task_id", id).
		Int("tags", len(task.Tags)).
		Msg("selected task")
	return task, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, id int64) (err error) {
	defer observe(serviceTask, "delete", time.Now(), &err)

	err = s.store.WithinTx(ctx, repository.TxOptions{}, func(store repository.Store) error {
		return store.Tasks().Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return s.mapError(err)
	}

	s.logger.Info().
		Int64("task_id", id).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) FindAllByUser(
	ctx context.Context,
	userID int64,
	pageable models.Pageable,
	eager bool,
) (_ models.Page[*models.Task], err error) {
	defer observe(serviceTask, "find_all_by_user", time.Now(), &err)
	return s.findPage(ctx, repository.TaskFilter{UserID: userID}, pageable, eager)
}

func (s *taskServiceImpl) FindAllByUserAndTitle(
	ctx context.Context,
	userID int64,
	title string,
	pageable models.Pageable,
	eager bool,
) (_ models.Page[*models.Task], err error) {
	defer observe(serviceTask, "find_all_by_user_and_title", time.Now(), &err)
	return s.findPage(ctx, repository.TaskFilter{UserID: userID, TitleContains: title}, pageable, eager)
}

func (s *taskServiceImpl) FindAllByUserAndDay(
	ctx context.Context,
	userID int64,
	year int,
	month time.Month,
	day int,
	pageable models.Pageable,
	eager bool,
) (_ models.Page[*models.Task], err error) {
	defer observe(serviceTask, "find_all_by_user_and_day", time.Now(), &err)

	r := period.DayRange(year, month, day, s.location)
	return s.findPage(ctx, rangeFilter(userID, r), pageable, eager)
}

func (s *taskServiceImpl) FindAllByUserAndWeekRange(
	ctx context.Context,
	userID int64,
	start, end time.Time,
	pageable models.Pageable,
	eager bool,
) (_ models.Page[*models.Task], err error) {
	defer observe(serviceTask, "find_all_by_user_and_week", time.Now(), &err)
	return s.findPage(ctx, rangeFilter(userID, period.Range{Start: start, End: end}), pageable, eager)
}

func (s *taskServiceImpl) FindAllByUserAndMonth(
	ctx context.Context,
	userID int64,
	year int,
	month time.Month,
	pageable models.Pageable,
	eager bool,
) (_ models.Page[*models.Task], err error) {
	defer observe(serviceTask, "find_all_by_user_and_month", time.Now(), &err)

	r := period.MonthRange(year, month, s.location)
	return s.findPage(ctx, rangeFilter(userID, r), pageable, eager)
}

func (s *taskServiceImpl) UpdateTags(ctx context.Context, taskID int64, tags []models.Tag) (_ *models.Task, err error) {
	defer observe(serviceTask, "update_tags", time.Now(), &err)

	var task *models.Task
	err = s.store.WithinTx(ctx, repository.TxOptions{}, func(store repository.Store) error {
		exists, err := store.Tasks().Exists(ctx, taskID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrTaskNotFound
		}

		err = s.replaceTags(ctx, store, taskID, tags)
		if err != nil {
			return err
		}

		task, err = s.reload(ctx, store, taskID)
		return err
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to update task tags")
		return nil, s.mapError(err)
	}

	tagsPerTask.Observe(float64(len(task.Tags)))
	s.logger.Info().
		Int64("task_id", taskID).
		Int("tags", len(task.Tags)).
		Msg("updated task tags")
	return task, nil
}

func (s *taskServiceImpl) TasksForRelationshipReport(ctx context.Context, userID int64) (_ []models.TaskTagRelation, err error) {
	defer observe(serviceTask, "relationship_report", time.Now(), &err)

	var rows []models.TaskTagRelation
	err = s.store.WithinTx(ctx, repository.TxOptions{ReadOnly: true}, func(store repository.Store) error {
		rows, err = store.Tasks().RelationshipRows(ctx, userID)
		return err
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to build relationship report")
		return nil, s.mapError(err)
	}

	s.logger.Debug().
		Int64("user_id", userID).
		Int("rows", len(rows)).
		Msg("built relationship report")
	return rows, nil
}

func (s *taskServiceImpl) CountResolvedTasksByTag(ctx context.Context, userID int64) (_ []models.TagResolution, err error) {
	defer observe(serviceTask, "resolved_report", time.Now(), &err)

	var counts []models.TagResolution
	err = s.store.WithinTx(ctx, repository.TxOptions{ReadOnly: true}, func(store repository.Store) error {
		counts, err = store.Tasks().CountResolvedByTag(ctx, userID)
		return err
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to count resolved tasks by tag")
		return nil, s.mapError(err)
	}

	s.logger.Debug().
		Int64("user_id", userID).
		Int("tags", len(counts)).
		Msg("counted resolved tasks by tag")
	return counts, nil
}

func (s *taskServiceImpl) findPage(
	ctx context.Context,
	filter repository.TaskFilter,
	pageable models.Pageable,
	eager bool,
) (models.Page[*models.Task], error) {
	var page models.Page[*models.Task]
	err := s.store.WithinTx(ctx, repository.TxOptions{ReadOnly: true}, func(store repository.Store) error {
		tasks, total, err := store.Tasks().FindAll(ctx, filter, pageable)
		if err != nil {
			return err
		}
		if eager {
			err = store.Tasks().LoadTags(ctx, tasks)
			if err != nil {
				return err
			}
		}
		page = models.NewPage(tasks, total, pageable)
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", filter.UserID).
			Msg("failed to select tasks")
		return page, s.mapError(err)
	}

	s.logger.Debug().
		Int64("user_id", filter.UserID).
		Int("count", len(page.Items)).
		Int64("total", page.Total).
		Bool("eager", eager).
		Msg("selected tasks")
	return page, nil
}

// replaceTags validates that every referenced tag exists and makes them the
// complete tag set of the task. A nil slice clears the set.
func (s *taskServiceImpl) replaceTags(ctx context.Context, store repository.Store, taskID int64, tags []models.Tag) error {
	ids := (&models.Task{Tags: tags}).TagIDs()
	for _, id := range ids {
		if id == 0 {
			return fmt.Errorf("%w: tag without id", ErrTagNotFound)
		}
	}

	found, err := store.Tags().FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return fmt.Errorf("%w: %d of %d tags exist", ErrTagNotFound, len(found), len(ids))
	}

	err = store.Tasks().ReplaceTags(ctx, taskID, ids)
	if err != nil {
		return err
	}
	s.logger.Debug().
		Int64("task_id", taskID).
		Ints64("tag_ids", ids).
		Msg("replaced task tags")
	return nil
}

func (s *taskServiceImpl) reload(ctx context.Context, store repository.Store, id int64) (*models.Task, error) {
	task, err := store.Tasks().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = store.Tasks().LoadTags(ctx, []*models.Task{task})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) mapError(err error) error {
	switch {
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, ErrTagNotFound):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrTaskNotFound, err)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, repository.ErrUnknownSortProperty):
		return fmt.Errorf("%w: %w", ErrInvalidSort, err)
	default:
		return err
	}
}

func rangeFilter(userID int64, r period.Range) repository.TaskFilter {
	return repository.TaskFilter{
		UserID:        userID,
		ExecutionFrom: &r.Start,
		ExecutionTo:   &r.End,
	}
}
