// Package activity records task lifecycle events into a per-user feed.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/rs/zerolog"

	"github.com/example/task-manager/domain/apperror"
	"github.com/example/task-manager/events"
)

// ActivityModule subscribes to task events and serves the resulting feed.
type ActivityModule struct {
	feed *Feed
	log  zerolog.Logger
}

var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)
var _ mono.ServiceProviderModule = (*ActivityModule)(nil)

func NewModule(log zerolog.Logger) *ActivityModule {
	return &ActivityModule{
		feed: NewFeed(maxEntriesPerUser),
		log:  log,
	}
}

func (m *ActivityModule) Name() string {
	return "activity"
}

func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.log.Info().Msg("registered event consumers: TaskCreated, TaskUpdated, TaskDeleted")
	return nil
}

func (m *ActivityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-activity", json.Unmarshal, json.Marshal, m.listActivity,
	); err != nil {
		return fmt.Errorf("failed to register list-activity service: %w", err)
	}
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.log.Info().Str("task_id", event.TaskID).Str("user_id", event.UserID).Msg("task created")
	m.feed.Add(Entry{
		TaskID:     event.TaskID,
		UserID:     event.UserID,
		Type:       "task_created",
		Message:    fmt.Sprintf("Task '%s' created", event.Title),
		OccurredAt: event.CreatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.log.Info().Str("task_id", event.TaskID).Strs("fields", event.Fields).Msg("task updated")

	message := fmt.Sprintf("Task %s updated (%s)", event.TaskID, strings.Join(event.Fields, ", "))
	if len(event.Fields) == 1 && event.Fields[0] == "completed" {
		if event.Completed {
			message = fmt.Sprintf("Task %s completed", event.TaskID)
		} else {
			message = fmt.Sprintf("Task %s reopened", event.TaskID)
		}
	}

	m.feed.Add(Entry{
		TaskID:     event.TaskID,
		UserID:     event.UserID,
		Type:       "task_updated",
		Message:    message,
		OccurredAt: event.UpdatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.log.Info().Str("task_id", event.TaskID).Str("user_id", event.UserID).Msg("task deleted")
	m.feed.Add(Entry{
		TaskID:     event.TaskID,
		UserID:     event.UserID,
		Type:       "task_deleted",
		Message:    fmt.Sprintf("Task %s deleted", event.TaskID),
		OccurredAt: event.DeletedAt,
	})
	return nil
}

func (m *ActivityModule) listActivity(_ context.Context, req ListActivityRequest, _ *mono.Msg) (ListActivityResponse, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return ListActivityResponse{Error: apperror.ToPayload(apperror.Validation("user id is required"))}, nil
	}
	return ListActivityResponse{Entries: m.feed.List(req.UserID)}, nil
}

func (m *ActivityModule) Start(_ context.Context) error {
	m.log.Info().Msg("module started, listening for task events")
	return nil
}

func (m *ActivityModule) Stop(_ context.Context) error {
	m.log.Info().Msg("module stopped")
	return nil
}
