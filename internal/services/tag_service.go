package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

type tagServiceImpl struct {
	logger zerolog.Logger
	store  repository.Store
}

func NewTagService(
	logger zerolog.Logger,
	store repository.Store,
) TagService {
	return &tagServiceImpl{
		logger: logger.With().Str("component", "tag_service").Logger(),
		store:  store,
	}
}

func (s *tagServiceImpl) Save(ctx context.Context, tag *models.Tag) (_ *models.Tag, err error) {
	defer observe(serviceTag, "save", time.Now(), &err)

	if tag.ID != 0 {
		s.logger.Error().
			Int64("tag_id", tag.ID).
			Msg("tag to create already has an id")
		return nil, ErrTagIDExists
	}

	err = s.store.WithinTx(ctx, repository.TxOptions{}, func(store repository.Store) error {
		return store.Tags().Create(ctx, tag)
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", tag.User.ID).
			Msg("failed to create tag")
		return nil, s.mapError(err)
	}

	s.logger.Info().
		Int64("tag_id", tag.ID).
		Int64("user_id", tag.User.ID).
		Msg("created tag")
	return tag, nil
}

func (s *tagServiceImpl) Update(ctx context.Context, tag *models.Tag) (_ *models.Tag, err error) {
	defer observe(serviceTag, "update", time.Now(), &err)

	err = s.store.WithinTx(ctx, repository.TxOptions{}, func(store repository.Store) error {
		return store.Tags().Update(ctx, tag)
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("tag_id", tag.ID).
			Msg("failed to update tag")
		return nil, s.mapError(err)
	}

	s.logger.Info().
		Int64("tag_id", tag.ID).
		Msg("updated tag")
	return tag, nil
}

func (s *tagServiceImpl) PartialUpdate(ctx context.Context, patch *models.Tag) (_ *models.Tag, err error) {
	defer observe(serviceTag, "partial_update", time.Now(), &err)

	var merged *models.Tag
	err = s.store.WithinTx(ctx, repository.TxOptions{}, func(store repository.Store) error {
		existing, err := store.Tags().FindByID(ctx, patch.ID)
		if err != nil {
			return err
		}
		existing.Merge(patch)

		err = store.Tags().Update(ctx, existing)
		if err != nil {
			return err
		}
		merged = existing
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("tag_id", patch.ID).
			Msg("failed to partially update tag")
		return nil, s.mapError(err)
	}

	s.logger.Info().
		Int64("tag_id", merged.ID).
		Msg("partially updated tag")
	return merged, nil
}

func (s *tagServiceImpl) FindAll(ctx context.Context, pageable models.Pageable) (_ models.Page[*models.Tag], err error) {
	defer observe(serviceTag, "find_all", time.Now(), &err)
	return s.findPage(ctx, repository.TagFilter{}, pageable)
}

func (s *tagServiceImpl) FindAllByUser(ctx context.Context, userID int64, pageable models.Pageable) (_ models.Page[*models.Tag], err error) {
	defer observe(serviceTag, "find_all_by_user", time.Now(), &err)
	return s.findPage(ctx, repository.TagFilter{UserID: userID}, pageable)
}

func (s *tagServiceImpl) FindOne(ctx context.Context, id int64) (_ *models.Tag, err error) {
	defer observe(serviceTag, "find_one", time.Now(), &err)

	var tag *models.Tag
	err = s.store.WithinTx(ctx, repository.TxOptions{ReadOnly: true}, func(store repository.Store) error {
		tag, err = store.Tags().FindByID(ctx, id)
		if err != nil {
			return err
		}
		return store.Tags().LoadTasks(ctx, tag)
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("tag_id", id).
			Msg("failed to select tag")
		return nil, s.mapError(err)
	}

	s.logger.Debug().
		Int64("tag_id", id).
		Int("tasks", len(tag.Tasks)).
		Msg("selected tag")
	return tag, nil
}

func (s *tagServiceImpl) Delete(ctx context.Context, id int64) (err error) {
	defer observe(serviceTag, "delete", time.Now(), &err)

	err = s.store.WithinTx(ctx, repository.TxOptions{}, func(store repository.Store) error {
		return store.Tags().Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("tag_id", id).
			Msg("failed to delete tag")
		return s.mapError(err)
	}

	s.logger.Info().
		Int64("tag_id", id).
		Msg("deleted tag")
	return nil
}

func (s *tagServiceImpl) findPage(ctx context.Context, filter repository.TagFilter, pageable models.Pageable) (models.Page[*models.Tag], error) {
	var page models.Page[*models.Tag]
	err := s.store.WithinTx(ctx, repository.TxOptions{ReadOnly: true}, func(store repository.Store) error {
		tags, total, err := store.Tags().FindAll(ctx, filter, pageable)
		if err != nil {
			return err
		}
		page = models.NewPage(tags, total, pageable)
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", filter.UserID).
			Msg("failed to select tags")
		return page, s.mapError(err)
	}

	s.logger.Debug().
		Int64("user_id", filter.UserID).
		Int("count", len(page.Items)).
		Int64("total", page.Total).
		Msg("selected tags")
	return page, nil
}

func (s *tagServiceImpl) mapError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrTagNotFound, err)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, repository.ErrUnknownSortProperty):
		return fmt.Errorf("%w: %w", ErrInvalidSort, err)
	default:
		return err
	}
}
