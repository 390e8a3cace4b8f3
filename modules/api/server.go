package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/task-manager/config"
	"github.com/example/task-manager/modules/activity"
	"github.com/example/task-manager/modules/task"
	"github.com/example/task-manager/modules/user"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// server holds the ports the HTTP handlers call into.
type server struct {
	users    user.UserPort
	tasks    task.TaskPort
	activity activity.ActivityPort
	auth     *Authenticator
	checks   map[string]HealthCheck
	log      zerolog.Logger
}

// newFiberApp builds the HTTP application with its middleware chain and routes.
func newFiberApp(cfg config.HTTPConfig, s *server) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          newErrorHandler(s.log),
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		UnescapePath:          true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: requestIDContextKey,
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, " + UserIDHeader,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(RequestLogger(s.log))

	app.Get("/health", s.health)

	s.registerRoutes(app)
	if cfg.Prefix != "" && cfg.Prefix != "/" {
		s.registerRoutes(app.Group(cfg.Prefix))
	}

	return app
}
