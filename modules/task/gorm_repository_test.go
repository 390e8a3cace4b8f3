package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/storage"
)

// setupTestRepository creates a repository over an in-memory database.
func setupTestRepository(t *testing.T) *GormRepository {
	t.Helper()

	db, err := storage.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	newID, err := storage.NewIDFunc()
	require.NoError(t, err)
	return NewGormRepository(db, newID)
}

func newTask(userID, title string, createdAt time.Time) *domain.Task {
	return &domain.Task{
		UserID:      userID,
		Title:       title,
		Description: "description",
		CreatedAt:   createdAt,
	}
}

func TestGormRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("Create and FindByID", func(t *testing.T) {
		repo := setupTestRepository(t)

		created, err := repo.Create(ctx, newTask("u1", "Buy milk", base))
		require.NoError(t, err)
		assert.Len(t, created.ID, 20)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Buy milk", found.Title)
		assert.False(t, found.Completed)
		assert.True(t, found.CreatedAt.Equal(base))
	})

	t.Run("FindByID missing", func(t *testing.T) {
		repo := setupTestRepository(t)

		found, err := repo.FindByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("FindAll newest first", func(t *testing.T) {
		repo := setupTestRepository(t)

		old, err := repo.Create(ctx, newTask("u1", "old", base))
		require.NoError(t, err)
		recent, err := repo.Create(ctx, newTask("u1", "recent", base.Add(2*time.Hour)))
		require.NoError(t, err)
		middle, err := repo.Create(ctx, newTask("u1", "middle", base.Add(90*time.Millisecond)))
		require.NoError(t, err)
		_, err = repo.Create(ctx, newTask("u2", "other", base.Add(time.Hour)))
		require.NoError(t, err)

		tasks, err := repo.FindAll(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, recent.ID, tasks[0].ID)
		assert.Equal(t, middle.ID, tasks[1].ID)
		assert.Equal(t, old.ID, tasks[2].ID)
	})

	t.Run("FindAll empty", func(t *testing.T) {
		repo := setupTestRepository(t)

		tasks, err := repo.FindAll(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("Update writes only present fields", func(t *testing.T) {
		repo := setupTestRepository(t)
		created, err := repo.Create(ctx, newTask("u1", "Buy milk", base))
		require.NoError(t, err)

		done := true
		updated, err := repo.Update(ctx, created.ID, domain.Changes{Completed: &done})
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, "Buy milk", updated.Title)
		assert.Equal(t, "u1", updated.UserID)

		undone := false
		updated, err = repo.Update(ctx, created.ID, domain.Changes{Completed: &undone})
		require.NoError(t, err)
		assert.False(t, updated.Completed)
	})

	t.Run("Update missing", func(t *testing.T) {
		repo := setupTestRepository(t)

		title := "x"
		_, err := repo.Update(ctx, "missing", domain.Changes{Title: &title})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = repo.Update(ctx, "missing", domain.Changes{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := setupTestRepository(t)
		created, err := repo.Create(ctx, newTask("u1", "Buy milk", base))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, created.ID))
		assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrNotFound)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
