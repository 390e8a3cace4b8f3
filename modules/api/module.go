package api

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/example/task-manager/config"
	"github.com/example/task-manager/modules/activity"
	"github.com/example/task-manager/modules/task"
	"github.com/example/task-manager/modules/user"
)

// APIModule is the driving adapter that exposes REST endpoints.
// It calls into the user, task and activity modules through their ports.
type APIModule struct {
	cfg            config.HTTPConfig
	serviceTimeout time.Duration
	checks         map[string]HealthCheck
	log            zerolog.Logger

	app          *fiber.App
	userPort     user.UserPort
	taskPort     task.TaskPort
	activityPort activity.ActivityPort
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates the API module. checks are reported by GET /health.
func NewModule(cfg config.HTTPConfig, serviceTimeout time.Duration, checks map[string]HealthCheck, log zerolog.Logger) *APIModule {
	return &APIModule{
		cfg:            cfg,
		serviceTimeout: serviceTimeout,
		checks:         checks,
		log:            log,
	}
}

func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"user", "task", "activity"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "user":
		m.userPort = user.NewUserAdapter(container, m.serviceTimeout)
	case "task":
		m.taskPort = task.NewTaskAdapter(container, m.serviceTimeout)
	case "activity":
		m.activityPort = activity.NewActivityAdapter(container, m.serviceTimeout)
	}
}

// Start binds the listener and serves HTTP in the background.
func (m *APIModule) Start(_ context.Context) error {
	if m.userPort == nil {
		return fmt.Errorf("userPort dependency not set")
	}
	if m.taskPort == nil {
		return fmt.Errorf("taskPort dependency not set")
	}
	if m.activityPort == nil {
		return fmt.Errorf("activityPort dependency not set")
	}

	m.app = newFiberApp(m.cfg, &server{
		users:    m.userPort,
		tasks:    m.taskPort,
		activity: m.activityPort,
		auth:     NewAuthenticator(m.userPort, m.log),
		checks:   m.checks,
		log:      m.log,
	})

	ln, err := net.Listen("tcp", m.cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", m.cfg.Address, err)
	}

	go func() {
		if err := m.app.Listener(ln); err != nil {
			m.log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	m.log.Info().Str("address", m.cfg.Address).Str("prefix", m.cfg.Prefix).Msg("HTTP server started")
	return nil
}

// Stop shuts down the HTTP server, waiting for in-flight requests.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	m.log.Info().Msg("shutting down HTTP server")
	return m.app.ShutdownWithContext(ctx)
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"address": m.cfg.Address,
		},
	}
}
