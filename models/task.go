package models

import (
	"errors"
	"strings"
	"time"
)

type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	IsDone    bool      `json:"is_done"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTask is the body accepted by POST /tasks.
type NewTask struct {
	Title string `json:"title"`
}

// TaskPatch carries the fields of a partial update. A nil field is absent
// and must be left untouched.
type TaskPatch struct {
	Title  *string `json:"title,omitempty"`
	IsDone *bool   `json:"is_done,omitempty"`
}

// ValidationError is returned for input rejected before reaching the store.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Normalize trims the title and validates it.
func (t *NewTask) Normalize() error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return &ValidationError{Message: "Title required"}
	}
	return nil
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.IsDone == nil
}

// Normalize trims a present title and validates the patch.
func (p *TaskPatch) Normalize() error {
	if p.Empty() {
		return &ValidationError{Message: "No fields to update"}
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return &ValidationError{Message: "Title cannot be empty"}
		}
		p.Title = &title
	}
	return nil
}
