package api

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/task-manager/domain/apperror"
	"github.com/example/task-manager/modules/task"
)

// registerRoutes mounts every endpoint on router.
func (s *server) registerRoutes(router fiber.Router) {
	users := router.Group("/users", s.auth.Optional())
	users.Get("/", s.findUserBlank)
	users.Get("/:email", s.findUser)
	users.Post("/", s.createUser)

	tasks := router.Group("/tasks", s.auth.Required())
	tasks.Get("/", s.listTasks)
	tasks.Post("/", s.createTask)
	tasks.Get("/:id", s.getTask)
	tasks.Put("/:id", s.updateTask)
	tasks.Delete("/:id", s.deleteTask)

	router.Get("/activity", s.auth.Required(), s.listActivity)
}

// health handles GET /health.
func (s *server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "OK",
		Timestamp: formatTime(time.Now()),
		Checks:    make(map[string]string, len(s.checks)),
	}
	status := fiber.StatusOK
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "DEGRADED"
			status = fiber.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	return c.Status(status).JSON(resp)
}

// findUserBlank handles GET /users without an email.
func (s *server) findUserBlank(c *fiber.Ctx) error {
	return writeError(c, s.log, apperror.Validation("email is required"))
}

// findUser handles GET /users/:email.
func (s *server) findUser(c *fiber.Ctx) error {
	email := c.Params("email")
	if strings.TrimSpace(email) == "" {
		return writeError(c, s.log, apperror.Validation("email is required"))
	}

	u, err := s.users.FindUserByEmail(c.UserContext(), email)
	if err != nil {
		return writeError(c, s.log, err)
	}
	if u == nil {
		return writeError(c, s.log, apperror.UserNotFound("user not found"))
	}
	return c.JSON(toUserResponse(u))
}

// createUser handles POST /users.
func (s *server) createUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, s.log, apperror.Validation("invalid request body"))
	}
	if strings.TrimSpace(req.Email) == "" {
		return writeError(c, s.log, apperror.Validation("email is required"))
	}

	u, err := s.users.CreateUser(c.UserContext(), req.Email)
	if err != nil {
		return writeError(c, s.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toUserResponse(u))
}

// actingUser returns the authenticated caller, rejecting a client supplied
// user id that names someone else.
func actingUser(c *fiber.Ctx, claimed string) (string, error) {
	id, ok := IdentityFrom(c)
	if !ok {
		return "", apperror.Unauthorized("authentication required")
	}
	if claimMismatch(claimed, id.ID) {
		return "", errClaimMismatch()
	}
	return id.ID, nil
}

// claimMismatch reports whether a non-blank claimed user id differs from userID.
func claimMismatch(claimed, userID string) bool {
	claimed = strings.TrimSpace(claimed)
	return claimed != "" && claimed != userID
}

func errClaimMismatch() error {
	return apperror.Forbidden("user id does not match the authenticated user")
}

// listTasks handles GET /tasks?userId=.
func (s *server) listTasks(c *fiber.Ctx) error {
	claimed := c.Query("userId")
	if strings.TrimSpace(claimed) == "" {
		return writeError(c, s.log, apperror.Validation("userId query parameter is required"))
	}
	userID, err := actingUser(c, claimed)
	if err != nil {
		return writeError(c, s.log, err)
	}

	tasks, err := s.tasks.ListTasks(c.UserContext(), userID)
	if err != nil {
		return writeError(c, s.log, err)
	}
	return c.JSON(toTaskResponses(tasks))
}

// getTask handles GET /tasks/:id.
func (s *server) getTask(c *fiber.Ctx) error {
	userID, err := actingUser(c, "")
	if err != nil {
		return writeError(c, s.log, err)
	}

	taskID := c.Params("id")
	t, err := s.tasks.GetTask(c.UserContext(), taskID, userID)
	if err != nil {
		return writeError(c, s.log, err)
	}
	if t == nil {
		return writeError(c, s.log, apperror.TaskNotFound(taskID))
	}
	if claimMismatch(c.Query("userId"), userID) {
		return writeError(c, s.log, errClaimMismatch())
	}
	return c.JSON(toTaskResponse(t))
}

// createTask handles POST /tasks.
func (s *server) createTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, s.log, apperror.Validation("invalid request body"))
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		return writeError(c, s.log, err)
	}

	t, err := s.tasks.CreateTask(c.UserContext(), &task.CreateTaskRequest{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, s.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(t))
}

// updateTask handles PUT /tasks/:id.
func (s *server) updateTask(c *fiber.Ctx) error {
	userID, err := actingUser(c, "")
	if err != nil {
		return writeError(c, s.log, err)
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, s.log, apperror.Validation("invalid request body"))
	}
	changes := req.changes()
	if changes.IsEmpty() {
		return writeError(c, s.log, apperror.Validation("no fields to update"))
	}

	t, err := s.tasks.UpdateTask(c.UserContext(), &task.UpdateTaskRequest{
		TaskID:  c.Params("id"),
		UserID:  userID,
		Changes: changes,
	})
	if err != nil {
		return writeError(c, s.log, err)
	}
	return c.JSON(toTaskResponse(t))
}

// deleteTask handles DELETE /tasks/:id.
func (s *server) deleteTask(c *fiber.Ctx) error {
	userID, err := actingUser(c, "")
	if err != nil {
		return writeError(c, s.log, err)
	}

	taskID := c.Params("id")
	if claimMismatch(c.Query("userId"), userID) {
		// Existence and ownership are reported before the mismatch.
		t, err := s.tasks.GetTask(c.UserContext(), taskID, userID)
		if err != nil {
			return writeError(c, s.log, err)
		}
		if t == nil {
			return writeError(c, s.log, apperror.TaskNotFound(taskID))
		}
		return writeError(c, s.log, errClaimMismatch())
	}

	if err := s.tasks.DeleteTask(c.UserContext(), taskID, userID); err != nil {
		return writeError(c, s.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// listActivity handles GET /activity.
func (s *server) listActivity(c *fiber.Ctx) error {
	userID, err := actingUser(c, "")
	if err != nil {
		return writeError(c, s.log, err)
	}

	entries, err := s.activity.ListActivity(c.UserContext(), userID)
	if err != nil {
		return writeError(c, s.log, err)
	}
	return c.JSON(toActivityResponses(entries))
}
