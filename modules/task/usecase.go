package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/example/task-manager/domain/apperror"
	domain "github.com/example/task-manager/domain/task"
)

// Clock returns the current time.
type Clock func() time.Time

// SystemClock returns the current UTC time truncated to milliseconds.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// CreateTaskInput is the payload of CreateTask.
type CreateTaskInput struct {
	UserID      string
	Title       string
	Description string
}

// CreateTask adds a task for a user.
type CreateTask struct {
	repo Repository
	now  Clock
}

func NewCreateTask(repo Repository, now Clock) *CreateTask {
	return &CreateTask{repo: repo, now: now}
}

// Execute builds the task with completed=false and the current time,
// validates it and stores it.
func (uc *CreateTask) Execute(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	t := &domain.Task{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   false,
		CreatedAt:   uc.now(),
	}
	if err := validateCreate(t); err != nil {
		return nil, err
	}

	created, err := uc.repo.Create(ctx, t)
	if err != nil {
		return nil, apperror.Internal("failed to create task", err)
	}
	return created, nil
}

// GetTasks reads tasks on behalf of their owner.
type GetTasks struct {
	repo Repository
}

func NewGetTasks(repo Repository) *GetTasks {
	return &GetTasks{repo: repo}
}

// Execute lists the user's tasks, newest first.
func (uc *GetTasks) Execute(ctx context.Context, userID string) ([]*domain.Task, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperror.Validation("user id is required")
	}

	tasks, err := uc.repo.FindAll(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("failed to list tasks", err)
	}
	return tasks, nil
}

// GetByIDWithAuth returns the task when userID owns it and nil when it
// does not exist.
func (uc *GetTasks) GetByIDWithAuth(ctx context.Context, taskID, userID string) (*domain.Task, error) {
	if strings.TrimSpace(taskID) == "" || strings.TrimSpace(userID) == "" {
		return nil, apperror.Validation("task id and user id are required")
	}

	t, err := uc.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, apperror.Internal("failed to load task", err)
	}
	if t == nil {
		return nil, nil
	}
	if t.UserID != userID {
		return nil, apperror.Forbidden("no permission to access this task")
	}
	return t, nil
}

// UpdateTaskInput is a partial update; nil fields are left untouched.
type UpdateTaskInput = domain.Changes

// UpdateTask changes a task on behalf of its owner.
type UpdateTask struct {
	repo Repository
}

func NewUpdateTask(repo Repository) *UpdateTask {
	return &UpdateTask{repo: repo}
}

// ExecuteWithAuth checks existence, then ownership, then the present
// fields, and returns the task as stored after the update.
func (uc *UpdateTask) ExecuteWithAuth(ctx context.Context, taskID, userID string, in UpdateTaskInput) (*domain.Task, error) {
	if _, err := loadOwned(ctx, uc.repo, taskID, userID, "no permission to update this task"); err != nil {
		return nil, err
	}

	changes, err := validateChanges(in)
	if err != nil {
		return nil, err
	}
	if changes.IsEmpty() {
		return nil, apperror.Validation("no fields to update")
	}

	updated, err := uc.repo.Update(ctx, taskID, changes)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.TaskNotFound(taskID)
		}
		return nil, apperror.Internal("failed to update task", err)
	}
	return updated, nil
}

// DeleteTask removes a task on behalf of its owner.
type DeleteTask struct {
	repo Repository
}

func NewDeleteTask(repo Repository) *DeleteTask {
	return &DeleteTask{repo: repo}
}

// ExecuteWithAuth deletes the task. Deleting it again reports not found.
func (uc *DeleteTask) ExecuteWithAuth(ctx context.Context, taskID, userID string) error {
	t, err := loadOwned(ctx, uc.repo, taskID, userID, "no permission to delete this task")
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, t.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperror.TaskNotFound(taskID)
		}
		return apperror.Internal("failed to delete task", err)
	}
	return nil
}

// loadOwned fetches a task that must exist and belong to userID.
func loadOwned(ctx context.Context, repo Repository, taskID, userID, denied string) (*domain.Task, error) {
	t, err := repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, apperror.Internal("failed to load task", err)
	}
	if t == nil {
		return nil, apperror.TaskNotFound(taskID)
	}
	if t.UserID != userID {
		return nil, apperror.Forbidden(denied)
	}
	return t, nil
}
