package user

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/rs/zerolog"

	"github.com/example/task-manager/cache"
	"github.com/example/task-manager/storage"
)

// UserModule provides account creation and lookup.
type UserModule struct {
	store    *storage.Store
	cache    *cache.Cache
	repo     Repository
	createUC *CreateUser
	findUC   *FindUser
	log      zerolog.Logger
}

var _ mono.Module = (*UserModule)(nil)
var _ mono.ServiceProviderModule = (*UserModule)(nil)
var _ mono.HealthCheckableModule = (*UserModule)(nil)

// NewModule creates the user module over an opened store.
// c may be nil, in which case lookups always hit the store.
func NewModule(store *storage.Store, c *cache.Cache, log zerolog.Logger) *UserModule {
	var repo Repository
	if store.Gorm != nil {
		repo = NewGormRepository(store.Gorm, store.NewID)
	} else {
		repo = NewPgxRepository(store.Pool, store.NewID)
	}
	if c != nil {
		repo = NewCachedRepository(repo, c, log)
	}

	return &UserModule{
		store:    store,
		cache:    c,
		repo:     repo,
		createUC: NewCreateUser(repo, SystemClock),
		findUC:   NewFindUser(repo),
		log:      log,
	}
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-user", json.Unmarshal, json.Marshal, m.createUser,
	); err != nil {
		return fmt.Errorf("failed to register create-user service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "find-user-by-email", json.Unmarshal, json.Marshal, m.findUserByEmail,
	); err != nil {
		return fmt.Errorf("failed to register find-user-by-email service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "find-user-by-id", json.Unmarshal, json.Marshal, m.findUserByID,
	); err != nil {
		return fmt.Errorf("failed to register find-user-by-id service: %w", err)
	}

	m.log.Info().Msg("registered services: create-user, find-user-by-email, find-user-by-id")
	return nil
}

func (m *UserModule) Start(_ context.Context) error {
	m.log.Info().
		Str("store", m.store.Driver).
		Bool("cache", m.cache != nil).
		Msg("module started")
	return nil
}

func (m *UserModule) Stop(_ context.Context) error {
	m.log.Info().Msg("module stopped")
	return nil
}

// Health reports the store and, when configured, the cache.
func (m *UserModule) Health(ctx context.Context) mono.HealthStatus {
	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("store ping failed: %v", err),
		}
	}

	details := map[string]any{"store": m.store.Driver}
	if m.cache != nil {
		if err := m.cache.Ping(ctx); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("cache ping failed: %v", err),
			}
		}
		details["cache"] = m.cache.Stats()
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}
