package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newTestStore connects to the server named by POSTGRES_* and isolates the
// test in a throwaway schema.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		t.Skip("POSTGRES_HOST is not set")
	}
	ctx := context.Background()

	connURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		envOr("POSTGRES_USERNAME", "postgres"), os.Getenv("POSTGRES_PASSWORD"), host,
		envOr("POSTGRES_PORT", "5432"), envOr("POSTGRES_DATABASE", "postgres"),
		envOr("POSTGRES_SSL_MODE", "disable"))

	schemaName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	admin, err := pgx.Connect(ctx, connURL)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schemaName)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schemaName+" CASCADE")
		_ = admin.Close(context.Background())
	})

	poolCfg, err := pgxpool.ParseConfig(connURL)
	require.NoError(t, err)
	poolCfg.ConnConfig.RuntimeParams["search_path"] = schemaName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	require.NoError(t, err)

	store, err := New(ctx, pool)
	if err != nil {
		pool.Close()
		require.NoError(t, err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func ptr[T any](v T) *T {
	return &v
}

func createTask(t *testing.T, store *Store, task *models.Task) *models.Task {
	t.Helper()
	require.NoError(t, store.Tasks().Create(context.Background(), task))
	return task
}

func createTag(t *testing.T, store *Store, name string, userID int64) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: ptr(name), User: models.UserRef{ID: userID}}
	require.NoError(t, store.Tags().Create(context.Background(), tag))
	return tag
}

func TestTaskCreateAndFind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
	task := createTask(t, store, &models.Task{
		Title:         ptr("buy milk"),
		ExecutionTime: &at,
		DurationMin:   ptr(int64(15)),
		Closed:        ptr(false),
		User:          models.UserRef{ID: 7},
	})
	require.NotZero(t, task.ID)

	found, err := store.Tasks().FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", *found.Title)
	assert.Nil(t, found.Description)
	assert.True(t, at.Equal(*found.ExecutionTime))
	assert.Equal(t, int64(15), *found.DurationMin)
	assert.False(t, *found.Closed)
	assert.Equal(t, int64(7), found.User.ID)

	_, err = store.Tasks().FindByID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = store.Tasks().Update(ctx, &models.Task{ID: 12345, User: models.UserRef{ID: 1}})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Tasks().Delete(ctx, task.ID))
	assert.ErrorIs(t, store.Tasks().Delete(ctx, task.ID), repository.ErrNotFound)
}

func TestReplaceTagsAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	work := createTag(t, store, "work", 1)
	home := createTag(t, store, "home", 1)
	first := createTask(t, store, &models.Task{User: models.UserRef{ID: 1}})
	second := createTask(t, store, &models.Task{User: models.UserRef{ID: 1}})

	require.NoError(t, store.Tasks().ReplaceTags(ctx, first.ID, []int64{work.ID, home.ID}))
	require.NoError(t, store.Tasks().ReplaceTags(ctx, first.ID, []int64{home.ID, home.ID}))

	tasks := []*models.Task{first, second}
	require.NoError(t, store.Tasks().LoadTags(ctx, tasks))
	require.Len(t, first.Tags, 1)
	assert.Equal(t, home.ID, first.Tags[0].ID)
	assert.NotNil(t, second.Tags)
	assert.Empty(t, second.Tags)

	require.NoError(t, store.Tags().LoadTasks(ctx, home))
	require.Len(t, home.Tasks, 1)
	assert.Equal(t, first.ID, home.Tasks[0].ID)

	found, err := store.Tags().FindByIDs(ctx, []int64{work.ID, home.ID, 404})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	err = store.Tasks().ReplaceTags(ctx, first.ID, []int64{404})
	assert.ErrorIs(t, err, repository.ErrConflict)

	require.NoError(t, store.Tags().Delete(ctx, home.ID))
	require.NoError(t, store.Tasks().LoadTags(ctx, tasks))
	assert.Empty(t, first.Tags)
}

func TestFindAllFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	day := func(d, h, m, s int) *time.Time {
		v := time.Date(2024, 3, d, h, m, s, 0, time.UTC)
		return &v
	}
	createTask(t, store, &models.Task{Title: ptr("Weekly report"), ExecutionTime: day(11, 0, 0, 0), User: models.UserRef{ID: 1}})
	createTask(t, store, &models.Task{Title: ptr("100% done"), ExecutionTime: day(17, 23, 59, 59), User: models.UserRef{ID: 1}})
	createTask(t, store, &models.Task{Title: ptr("report card"), ExecutionTime: day(18, 0, 0, 0), User: models.UserRef{ID: 1}})
	createTask(t, store, &models.Task{Title: ptr("report"), ExecutionTime: day(12, 0, 0, 0), User: models.UserRef{ID: 2}})

	tasks, total, err := store.Tasks().FindAll(ctx, repository.TaskFilter{UserID: 1}, models.Pageable{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "report card", *tasks[0].Title)

	tasks, _, err = store.Tasks().FindAll(ctx, repository.TaskFilter{UserID: 1, TitleContains: "report"}, models.Pageable{Size: 20})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	tasks, _, err = store.Tasks().FindAll(ctx, repository.TaskFilter{UserID: 1, TitleContains: "0%"}, models.Pageable{Size: 20})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "100% done", *tasks[0].Title)

	tasks, total, err = store.Tasks().FindAll(ctx, repository.TaskFilter{
		UserID:        1,
		ExecutionFrom: day(11, 0, 0, 0),
		ExecutionTo:   day(17, 23, 59, 59),
	}, models.Pageable{Size: 20, Sort: []models.SortOrder{{Property: "executionTime", Desc: true}}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, tasks, 2)
	assert.Equal(t, "100% done", *tasks[0].Title)
	assert.Equal(t, "Weekly report", *tasks[1].Title)
}

func TestReports(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := createTag(t, store, "A", 1)
	createTag(t, store, "B", 1)

	for _, closed := range []*bool{ptr(true), ptr(true), ptr(false)} {
		task := createTask(t, store, &models.Task{Closed: closed, User: models.UserRef{ID: 1}})
		require.NoError(t, store.Tasks().ReplaceTags(ctx, task.ID, []int64{a.ID}))
	}
	untagged := createTask(t, store, &models.Task{Title: ptr("loose"), User: models.UserRef{ID: 1}})
	nullClosed := createTask(t, store, &models.Task{User: models.UserRef{ID: 2}})
	require.NoError(t, store.Tasks().ReplaceTags(ctx, nullClosed.ID, []int64{a.ID}))

	counts, err := store.Tasks().CountResolvedByTag(ctx, 1)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, a.ID, counts[0].TagID)
	assert.Equal(t, int64(2), counts[0].Resolved)
	assert.Equal(t, int64(1), counts[0].Unresolved)

	counts, err = store.Tasks().CountResolvedByTag(ctx, 2)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, int64(0), counts[0].Resolved)
	assert.Equal(t, int64(1), counts[0].Unresolved)

	rows, err := store.Tasks().RelationshipRows(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, untagged.ID, rows[3].TaskID)
	assert.Zero(t, rows[3].TagID)
	assert.Nil(t, rows[3].TagName)
	assert.Equal(t, "A", *rows[0].TagName)
}

func TestWithinTx(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var id int64
	boom := errors.New("boom")
	err := store.WithinTx(ctx, repository.TxOptions{}, func(tx repository.Store) error {
		task := &models.Task{User: models.UserRef{ID: 1}}
		require.NoError(t, tx.Tasks().Create(ctx, task))
		id = task.ID
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := store.Tasks().Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)

	err = store.WithinTx(ctx, repository.TxOptions{ReadOnly: true}, func(tx repository.Store) error {
		return tx.Tasks().Create(ctx, &models.Task{User: models.UserRef{ID: 1}})
	})
	assert.Error(t, err)
}
