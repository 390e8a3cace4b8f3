package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/rs/zerolog"

	"github.com/example/task-manager/events"
	"github.com/example/task-manager/storage"
)

// TaskModule provides task management services (core domain).
type TaskModule struct {
	store    *storage.Store
	createUC *CreateTask
	getUC    *GetTasks
	updateUC *UpdateTask
	deleteUC *DeleteTask
	eventBus mono.EventBus
	log      zerolog.Logger
}

var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates the task module over an opened store.
func NewModule(store *storage.Store, log zerolog.Logger) *TaskModule {
	var repo Repository
	if store.Gorm != nil {
		repo = NewGormRepository(store.Gorm, store.NewID)
	} else {
		repo = NewPgxRepository(store.Pool, store.NewID)
	}
	return newModule(store, repo, SystemClock, log)
}

func newModule(store *storage.Store, repo Repository, now Clock, log zerolog.Logger) *TaskModule {
	return &TaskModule{
		store:    store,
		createUC: NewCreateTask(repo, now),
		getUC:    NewGetTasks(repo),
		updateUC: NewUpdateTask(repo),
		deleteUC: NewDeleteTask(repo),
		log:      log,
	}
}

func (m *TaskModule) Name() string {
	return "task"
}

func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	m.log.Info().Msg("registered services: create-task, list-tasks, get-task, update-task, delete-task")
	return nil
}

func (m *TaskModule) Start(_ context.Context) error {
	if m.eventBus == nil {
		m.log.Warn().Msg("eventBus not set, events will not be published")
	}
	m.log.Info().Str("store", m.store.Driver).Msg("module started")
	return nil
}

func (m *TaskModule) Stop(_ context.Context) error {
	m.log.Info().Msg("module stopped")
	return nil
}

func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("store ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"store": m.store.Driver},
	}
}
