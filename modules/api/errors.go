package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/example/task-manager/domain/apperror"
)

// writeError renders err with the status and code of its kind.
// Internal details are logged, never sent.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Internal("internal server error", err)
	}

	message := appErr.Message
	if appErr.Kind == apperror.KindInternal {
		log.Error().
			Err(err).
			Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
		message = "internal server error"
	}

	return c.Status(appErr.Status()).JSON(ErrorResponse{
		Status:  "error",
		Code:    appErr.Code,
		Message: message,
	})
}

// newErrorHandler handles errors returned by handlers and fiber itself.
func newErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := apperror.CodeInternal
			switch {
			case fe.Code == fiber.StatusNotFound:
				code = apperror.CodeNotFound
			case fe.Code == fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			case fe.Code < fiber.StatusInternalServerError:
				code = apperror.CodeValidation
			}
			return c.Status(fe.Code).JSON(ErrorResponse{
				Status:  "error",
				Code:    code,
				Message: fe.Message,
			})
		}
		return writeError(c, log, err)
	}
}
