package db

import (
	"context"
	"errors"

	"task-tracker/models"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrEmptyPatch   = errors.New("no fields to update")
)

// TaskStore is the persistence contract the API is built on. Every method
// is a single atomic operation against the store.
type TaskStore interface {
	// List returns all tasks, newest first. It never returns nil on success.
	List(ctx context.Context) ([]models.Task, error)
	// Create inserts a task with the given, already validated, title.
	Create(ctx context.Context, title string) (models.Task, error)
	// Update applies the present fields of patch and returns the full row.
	Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
