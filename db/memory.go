package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"task-tracker/models"
)

// MemoryStore keeps tasks in process. It honours the same contract as
// PostgresStore and backs the "memory" driver.
type MemoryStore struct {
	mu     sync.RWMutex
	tasks  map[int64]models.Task
	nextID int64
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:  make(map[int64]models.Task),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) List(ctx context.Context) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
	return tasks, nil
}

func (s *MemoryStore) Create(ctx context.Context, title string) (models.Task, error) {
	if err := ctx.Err(); err != nil {
		return models.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	task := models.Task{
		ID:        s.nextID,
		Title:     title,
		IsDone:    false,
		CreatedAt: s.now(),
	}
	s.tasks[task.ID] = task
	s.nextID++
	return task, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	if patch.Empty() {
		return models.Task{}, ErrEmptyPatch
	}
	if err := ctx.Err(); err != nil {
		return models.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, ErrTaskNotFound
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.IsDone != nil {
		task.IsDone = *patch.IsDone
	}
	s.tasks[id] = task
	return task, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
