package task

import (
	"context"
	"errors"

	domain "github.com/example/task-manager/domain/task"
)

// ErrNotFound is returned by Update and Delete when the id does not exist.
var ErrNotFound = errors.New("task not found")

// Repository is the task store consumed by the use cases.
type Repository interface {
	// FindAll returns the user's tasks, most recently created first.
	FindAll(ctx context.Context, userID string) ([]*domain.Task, error)
	// FindByID returns nil, nil when the task does not exist.
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// Create stores t, assigning an id when absent.
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	// Update writes the present fields of c and returns the stored task.
	Update(ctx context.Context, id string, c domain.Changes) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// changedColumns maps a change set to column values. Only the mutable
// columns can appear here.
func changedColumns(c domain.Changes) map[string]any {
	cols := make(map[string]any, 3)
	if c.Title != nil {
		cols["title"] = *c.Title
	}
	if c.Description != nil {
		cols["description"] = *c.Description
	}
	if c.Completed != nil {
		cols["completed"] = *c.Completed
	}
	return cols
}
