package task

import (
	"context"
	"time"

	"github.com/go-monolith/mono"

	"github.com/example/task-manager/domain/apperror"
	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/events"
)

// createTask handles the create-task service request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.createUC.Execute(ctx, CreateTaskInput{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		m.logFailure(err, "create-task", "")
		return TaskResponse{Error: apperror.ToPayload(err)}, nil
	}

	m.publishCreated(t)
	return TaskResponse{Task: t}, nil
}

// listTasks handles the list-tasks service request.
func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.getUC.Execute(ctx, req.UserID)
	if err != nil {
		m.logFailure(err, "list-tasks", "")
		return ListTasksResponse{Error: apperror.ToPayload(err)}, nil
	}
	return ListTasksResponse{Tasks: tasks}, nil
}

// getTask handles the get-task service request.
func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.getUC.GetByIDWithAuth(ctx, req.TaskID, req.UserID)
	if err != nil {
		m.logFailure(err, "get-task", req.TaskID)
		return TaskResponse{Error: apperror.ToPayload(err)}, nil
	}
	return TaskResponse{Task: t}, nil
}

// updateTask handles the update-task service request.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.updateUC.ExecuteWithAuth(ctx, req.TaskID, req.UserID, req.Changes)
	if err != nil {
		m.logFailure(err, "update-task", req.TaskID)
		return TaskResponse{Error: apperror.ToPayload(err)}, nil
	}

	m.publishUpdated(t, req.Changes)
	return TaskResponse{Task: t}, nil
}

// deleteTask handles the delete-task service request.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.deleteUC.ExecuteWithAuth(ctx, req.TaskID, req.UserID); err != nil {
		m.logFailure(err, "delete-task", req.TaskID)
		return DeleteTaskResponse{Error: apperror.ToPayload(err)}, nil
	}

	m.publishDeleted(req.TaskID, req.UserID)
	return DeleteTaskResponse{Deleted: true}, nil
}

func (m *TaskModule) logFailure(err error, service, taskID string) {
	if apperror.KindOf(err) != apperror.KindInternal {
		return
	}
	m.log.Error().Err(err).Str("service", service).Str("task_id", taskID).Msg("task service failed")
}

// Event publishing is best-effort; failures are logged and never fail the operation.

func (m *TaskModule) publishCreated(t *domain.Task) {
	if m.eventBus == nil {
		return
	}
	event := events.TaskCreatedEvent{
		TaskID:    t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
	}
	if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
		m.log.Warn().Err(err).Str("task_id", t.ID).Msg("failed to publish TaskCreated event")
	}
}

func (m *TaskModule) publishUpdated(t *domain.Task, c domain.Changes) {
	if m.eventBus == nil {
		return
	}
	event := events.TaskUpdatedEvent{
		TaskID:    t.ID,
		UserID:    t.UserID,
		Fields:    changedFields(c),
		Completed: t.Completed,
		UpdatedAt: time.Now().UTC(),
	}
	if err := events.TaskUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
		m.log.Warn().Err(err).Str("task_id", t.ID).Msg("failed to publish TaskUpdated event")
	}
}

func (m *TaskModule) publishDeleted(taskID, userID string) {
	if m.eventBus == nil {
		return
	}
	event := events.TaskDeletedEvent{
		TaskID:    taskID,
		UserID:    userID,
		DeletedAt: time.Now().UTC(),
	}
	if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
		m.log.Warn().Err(err).Str("task_id", taskID).Msg("failed to publish TaskDeleted event")
	}
}

func changedFields(c domain.Changes) []string {
	fields := make([]string, 0, 3)
	if c.Title != nil {
		fields = append(fields, "title")
	}
	if c.Description != nil {
		fields = append(fields, "description")
	}
	if c.Completed != nil {
		fields = append(fields, "completed")
	}
	return fields
}
