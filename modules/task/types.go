package task

import (
	"context"

	"github.com/example/task-manager/domain/apperror"
	domain "github.com/example/task-manager/domain/task"
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GetTaskRequest is the request for reading a task as its owner.
type GetTaskRequest struct {
	TaskID string `json:"task_id"`
	UserID string `json:"user_id"`
}

// UpdateTaskRequest is the request for a partial update.
type UpdateTaskRequest struct {
	TaskID  string         `json:"task_id"`
	UserID  string         `json:"user_id"`
	Changes domain.Changes `json:"changes"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID string `json:"task_id"`
	UserID string `json:"user_id"`
}

// ListTasksRequest is the request for listing a user's tasks.
type ListTasksRequest struct {
	UserID string `json:"user_id"`
}

// TaskResponse carries a single task. Task is nil when get-task finds nothing.
type TaskResponse struct {
	Task  *domain.Task      `json:"task,omitempty"`
	Error *apperror.Payload `json:"error,omitempty"`
}

// ListTasksResponse carries a user's tasks, newest first.
type ListTasksResponse struct {
	Tasks []*domain.Task    `json:"tasks"`
	Error *apperror.Payload `json:"error,omitempty"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool              `json:"deleted"`
	Error   *apperror.Payload `json:"error,omitempty"`
}

// TaskPort defines the task operations available to driving adapters.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*domain.Task, error)
	ListTasks(ctx context.Context, userID string) ([]*domain.Task, error)
	// GetTask returns nil, nil when the task does not exist.
	GetTask(ctx context.Context, taskID, userID string) (*domain.Task, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*domain.Task, error)
	DeleteTask(ctx context.Context, taskID, userID string) error
}
