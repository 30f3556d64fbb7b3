package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/repository"
	"github.com/adanyl0v/go-task-manager/internal/repository/sqlite"
)

var brt = time.FixedZone("BRT", -3*60*60)

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestServices(t *testing.T) (TaskService, TagService) {
	t.Helper()
	store := newTestStore(t)
	return NewTaskService(zerolog.Nop(), store, brt), NewTagService(zerolog.Nop(), store)
}

func ptr[T any](v T) *T {
	return &v
}

func pageable() models.Pageable {
	return models.Pageable{Size: 20}
}
