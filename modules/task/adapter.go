package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/task-manager/domain/apperror"
	domain "github.com/example/task-manager/domain/task"
)

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
// This is the adapter that implements the TaskPort interface.
type taskAdapter struct {
	container mono.ServiceContainer
	timeout   time.Duration
}

// NewTaskAdapter creates a new adapter for task services.
// Each call is bounded by timeout.
func NewTaskAdapter(container mono.ServiceContainer, timeout time.Duration) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container, timeout: timeout}
}

// callService sends req to service and decodes the reply into resp.
// Transport failures become internal errors.
func callService[Req, Resp any](ctx context.Context, a *taskAdapter, service string, req *Req, resp *Resp) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return apperror.Internal(service+" service call failed", err)
	}
	return nil
}

// CreateTask creates a new task via the create-task service.
func (a *taskAdapter) CreateTask(ctx context.Context, req *CreateTaskRequest) (*domain.Task, error) {
	var resp TaskResponse
	if err := callService(ctx, a, "create-task", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.Task, nil
}

// ListTasks lists a user's tasks via the list-tasks service.
func (a *taskAdapter) ListTasks(ctx context.Context, userID string) ([]*domain.Task, error) {
	var resp ListTasksResponse
	if err := callService(ctx, a, "list-tasks", &ListTasksRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	if resp.Tasks == nil {
		resp.Tasks = []*domain.Task{}
	}
	return resp.Tasks, nil
}

// GetTask retrieves a task via the get-task service.
func (a *taskAdapter) GetTask(ctx context.Context, taskID, userID string) (*domain.Task, error) {
	var resp TaskResponse
	if err := callService(ctx, a, "get-task", &GetTaskRequest{TaskID: taskID, UserID: userID}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.Task, nil
}

// UpdateTask updates a task via the update-task service.
func (a *taskAdapter) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*domain.Task, error) {
	var resp TaskResponse
	if err := callService(ctx, a, "update-task", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.Task, nil
}

// DeleteTask deletes a task via the delete-task service.
func (a *taskAdapter) DeleteTask(ctx context.Context, taskID, userID string) error {
	var resp DeleteTaskResponse
	if err := callService(ctx, a, "delete-task", &DeleteTaskRequest{TaskID: taskID, UserID: userID}, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error.Err()
	}
	if !resp.Deleted {
		return apperror.Internal("task not deleted", nil)
	}
	return nil
}
