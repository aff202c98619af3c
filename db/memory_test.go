package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/models"
)

func newClockedStore() *MemoryStore {
	s := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var n int
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return s
}

func TestMemoryStoreCreateAndList(t *testing.T) {
	ctx := context.Background()
	s := newClockedStore()

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	first, err := s.Create(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.False(t, first.IsDone)

	second, err := s.Create(ctx, "second")
	require.NoError(t, err)

	tasks, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, first.ID, tasks[1].ID)
}

func TestMemoryStoreUpdateIsPartial(t *testing.T) {
	ctx := context.Background()
	s := newClockedStore()
	task, err := s.Create(ctx, "Buy milk")
	require.NoError(t, err)

	done := true
	updated, err := s.Update(ctx, task.ID, models.TaskPatch{IsDone: &done})
	require.NoError(t, err)
	assert.True(t, updated.IsDone)
	assert.Equal(t, "Buy milk", updated.Title)

	title := "Buy oat milk"
	updated, err = s.Update(ctx, task.ID, models.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.True(t, updated.IsDone)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)

	_, err = s.Update(ctx, task.ID, models.TaskPatch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)

	_, err = s.Update(ctx, 99, models.TaskPatch{IsDone: &done})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestMemoryStoreListOrderIgnoresUpdates(t *testing.T) {
	ctx := context.Background()
	s := newClockedStore()
	older, _ := s.Create(ctx, "older")
	newer, _ := s.Create(ctx, "newer")

	title := "older, renamed"
	_, err := s.Update(ctx, older.ID, models.TaskPatch{Title: &title})
	require.NoError(t, err)

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{newer.ID, older.ID}, []int64{tasks[0].ID, tasks[1].ID})
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newClockedStore()
	task, _ := s.Create(ctx, "gone soon")

	require.NoError(t, s.Delete(ctx, task.ID))
	assert.ErrorIs(t, s.Delete(ctx, task.ID), ErrTaskNotFound)

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore()

	_, err := s.Create(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Ping(ctx), context.Canceled)
}

func TestMemoryStoreConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Create(ctx, "task")
		}()
	}
	wg.Wait()

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 50)

	seen := make(map[int64]bool)
	for _, task := range tasks {
		assert.False(t, seen[task.ID])
		seen[task.ID] = true
	}
}
