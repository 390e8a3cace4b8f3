package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/example/task-manager/domain/apperror"
	userdomain "github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/modules/user"
)

const (
	// UserIDHeader carries the caller's user id.
	UserIDHeader = "user-id"

	// IdentityContextKey is the key used to store the caller in the Fiber context.
	IdentityContextKey = "identity"

	requestIDContextKey = "request_id"
)

// Authenticator resolves the caller named by the user-id header.
type Authenticator struct {
	users user.UserPort
	log   zerolog.Logger
}

func NewAuthenticator(users user.UserPort, log zerolog.Logger) *Authenticator {
	return &Authenticator{users: users, log: log}
}

// Required rejects requests without a resolvable caller with 401.
// A failed lookup is a 500, not a 401.
func (a *Authenticator) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(UserIDHeader))
		if userID == "" {
			return writeError(c, a.log, apperror.Unauthorized("authentication required"))
		}

		u, err := a.users.FindUserByID(c.UserContext(), userID)
		if err != nil {
			return writeError(c, a.log, apperror.Internal("failed to resolve caller", err))
		}
		if u == nil {
			return writeError(c, a.log, apperror.Unauthorized("user not found"))
		}

		c.Locals(IdentityContextKey, &userdomain.Identity{ID: u.ID, Email: u.Email})
		return c.Next()
	}
}

// Optional attaches the caller when one can be resolved and continues
// anonymously otherwise.
func (a *Authenticator) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(UserIDHeader))
		if userID == "" {
			return c.Next()
		}

		u, err := a.users.FindUserByID(c.UserContext(), userID)
		if err != nil {
			a.log.Warn().Err(err).Str("request_id", requestID(c)).Msg("optional authentication failed")
			return c.Next()
		}
		if u != nil {
			c.Locals(IdentityContextKey, &userdomain.Identity{ID: u.ID, Email: u.Email})
		}
		return c.Next()
	}
}

// IdentityFrom returns the caller attached by the authenticator, if any.
func IdentityFrom(c *fiber.Ctx) (*userdomain.Identity, bool) {
	id, ok := c.Locals(IdentityContextKey).(*userdomain.Identity)
	return id, ok && id != nil
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}

// RequestLogger logs one line per request.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		event := log.Info()
		if status >= fiber.StatusInternalServerError {
			event = log.Error()
		} else if status >= fiber.StatusBadRequest {
			event = log.Warn()
		}

		event = event.
			Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start))
		if id, ok := IdentityFrom(c); ok {
			event = event.Str("user_id", id.ID)
		}
		event.Msg("request")
		return nil
	}
}
