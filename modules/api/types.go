package api

import (
	"time"

	taskdomain "github.com/example/task-manager/domain/task"
	userdomain "github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/modules/activity"
)

// timeLayout is ISO-8601 in UTC with millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Email string `json:"email"`
}

// UserResponse is the user DTO.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTaskRequest is the body of PUT /tasks/:id. Identity fields sent
// by the client are not decoded.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func (r UpdateTaskRequest) changes() taskdomain.Changes {
	return taskdomain.Changes{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
	}
}

// TaskResponse is the task DTO.
type TaskResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
}

// ActivityResponse is one activity feed entry.
type ActivityResponse struct {
	TaskID     string `json:"taskId"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	OccurredAt string `json:"occurredAt"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func toUserResponse(u *userdomain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func toTaskResponse(t *taskdomain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   formatTime(t.CreatedAt),
	}
}

func toTaskResponses(tasks []*taskdomain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func toActivityResponses(entries []activity.Entry) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ActivityResponse{
			TaskID:     e.TaskID,
			Type:       e.Type,
			Message:    e.Message,
			OccurredAt: formatTime(e.OccurredAt),
		})
	}
	return out
}
