package api

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/task-manager/config"
	"github.com/example/task-manager/domain/apperror"
	taskdomain "github.com/example/task-manager/domain/task"
	userdomain "github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/modules/activity"
	"github.com/example/task-manager/modules/task"
)

// mockUserPort implements user.UserPort for testing.
type mockUserPort struct {
	mu        sync.Mutex
	users     map[string]*userdomain.User
	lookupErr error
	nextID    int
}

func newMockUserPort(users ...*userdomain.User) *mockUserPort {
	m := &mockUserPort{users: make(map[string]*userdomain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserPort) CreateUser(_ context.Context, email string) (*userdomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, apperror.Conflict("email already in use")
		}
	}
	m.nextID++
	u := &userdomain.User{
		ID:        fmt.Sprintf("user-%d", m.nextID),
		Email:     email,
		CreatedAt: time.Date(2024, 3, 10, 12, 30, 45, 123000000, time.UTC),
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserPort) FindUserByEmail(_ context.Context, email string) (*userdomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserPort) FindUserByID(_ context.Context, userID string) (*userdomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.users[userID], nil
}

// mockTaskPort implements task.TaskPort with ownership rules enforced.
type mockTaskPort struct {
	mu     sync.Mutex
	tasks  map[string]*taskdomain.Task
	nextID int
	clock  time.Time
}

func newMockTaskPort() *mockTaskPort {
	return &mockTaskPort{
		tasks: make(map[string]*taskdomain.Task),
		clock: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *mockTaskPort) CreateTask(_ context.Context, req *task.CreateTaskRequest) (*taskdomain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req.Title == "" {
		return nil, apperror.Validation("title is required")
	}
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	t := &taskdomain.Task{
		ID:          fmt.Sprintf("task-%d", m.nextID),
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   m.clock,
	}
	m.tasks[t.ID] = t
	cp := *t
	return &cp, nil
}

func (m *mockTaskPort) ListTasks(_ context.Context, userID string) ([]*taskdomain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*taskdomain.Task, 0)
	for _, t := range m.tasks {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockTaskPort) GetTask(_ context.Context, taskID, userID string) (*taskdomain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[taskID]
	if !ok {
		return nil, nil
	}
	if t.UserID != userID {
		return nil, apperror.Forbidden("no permission to access this task")
	}
	cp := *t
	return &cp, nil
}

func (m *mockTaskPort) UpdateTask(_ context.Context, req *task.UpdateTaskRequest) (*taskdomain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[req.TaskID]
	if !ok {
		return nil, apperror.TaskNotFound(req.TaskID)
	}
	if t.UserID != req.UserID {
		return nil, apperror.Forbidden("no permission to update this task")
	}
	c := req.Changes
	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	if c.Completed != nil {
		t.Completed = *c.Completed
	}
	cp := *t
	return &cp, nil
}

func (m *mockTaskPort) DeleteTask(_ context.Context, taskID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[taskID]
	if !ok {
		return apperror.TaskNotFound(taskID)
	}
	if t.UserID != userID {
		return apperror.Forbidden("no permission to delete this task")
	}
	delete(m.tasks, taskID)
	return nil
}

// mockActivityPort implements activity.ActivityPort.
type mockActivityPort struct {
	entries map[string][]activity.Entry
}

func (m *mockActivityPort) ListActivity(_ context.Context, userID string) ([]activity.Entry, error) {
	entries := m.entries[userID]
	if entries == nil {
		entries = []activity.Entry{}
	}
	return entries, nil
}

func testHTTPConfig() config.HTTPConfig {
	return config.HTTPConfig{
		Prefix:         "/api",
		AllowedOrigins: "*",
	}
}
