package api

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userdomain "github.com/example/task-manager/domain/user"
)

var alice = &userdomain.User{ID: "alice-id", Email: "alice@example.com", CreatedAt: time.Now().UTC()}

func TestAuthenticator(t *testing.T) {
	tests := []struct {
		name           string
		optional       bool
		header         string
		lookupErr      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "required missing header",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"UNAUTHORIZED"`,
		},
		{
			name:           "required blank header",
			header:         "   ",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"authentication required"`,
		},
		{
			name:           "required unknown user",
			header:         "ghost",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"user not found"`,
		},
		{
			name:           "required lookup failure is internal",
			header:         "alice-id",
			lookupErr:      errors.New("store unavailable"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"INTERNAL_ERROR"`,
		},
		{
			name:           "required known user",
			header:         "alice-id",
			expectedStatus: http.StatusOK,
			expectedBody:   `"alice@example.com"`,
		},
		{
			name:           "optional missing header",
			optional:       true,
			expectedStatus: http.StatusOK,
			expectedBody:   `"anonymous"`,
		},
		{
			name:           "optional unknown user",
			optional:       true,
			header:         "ghost",
			expectedStatus: http.StatusOK,
			expectedBody:   `"anonymous"`,
		},
		{
			name:           "optional lookup failure continues",
			optional:       true,
			header:         "alice-id",
			lookupErr:      errors.New("store unavailable"),
			expectedStatus: http.StatusOK,
			expectedBody:   `"anonymous"`,
		},
		{
			name:           "optional known user",
			optional:       true,
			header:         "alice-id",
			expectedStatus: http.StatusOK,
			expectedBody:   `"alice@example.com"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMockUserPort(alice)
			users.lookupErr = tt.lookupErr
			auth := NewAuthenticator(users, zerolog.Nop())

			app := fiber.New()
			if tt.optional {
				app.Use(auth.Optional())
			} else {
				app.Use(auth.Required())
			}

			called := false
			app.Get("/test", func(c *fiber.Ctx) error {
				called = true
				if id, ok := IdentityFrom(c); ok {
					return c.JSON(fiber.Map{"email": id.Email})
				}
				return c.JSON(fiber.Map{"status": "anonymous"})
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.True(t, strings.Contains(string(body), tt.expectedBody), "body = %s", body)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, called, "downstream handler invocation")
		})
	}
}

func TestAuthenticator_IdentityInContext(t *testing.T) {
	auth := NewAuthenticator(newMockUserPort(alice), zerolog.Nop())

	app := fiber.New()
	app.Use(auth.Required())

	var captured *userdomain.Identity
	app.Get("/test", func(c *fiber.Ctx) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		captured = id
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(UserIDHeader, "alice-id")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, captured)
	assert.Equal(t, "alice-id", captured.ID)
	assert.Equal(t, "alice@example.com", captured.Email)
}
