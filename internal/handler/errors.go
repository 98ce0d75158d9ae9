package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Medard30/StudyLoop/internal/middleware"
	"github.com/Medard30/StudyLoop/internal/model"
)

// storageError maps a service error to the standard error envelope.
// Validation failures are handled by each handler since they echo the form.
func storageError(c fiber.Ctx, err error, what string) error {
	if errors.Is(err, model.ErrNotFound) {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", what+" not found")
	}
	middleware.Logger.Error().Err(err).Str("path", c.Path()).Msg(what + ": storage failure")
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
}

// ErrorHandler is the app-wide fiber error handler. A request body over the
// server limit can only be an oversized reply video, so it is answered like
// the in-handler size check.
func ErrorHandler(c fiber.Ctx, err error) error {
	if errors.Is(err, fiber.ErrRequestEntityTooLarge) {
		return middleware.ValidationResponse(c, "video_file", "Video file is too large.", nil)
	}
	return fiber.DefaultErrorHandler(c, err)
}

func notFound(c fiber.Ctx, what string) error {
	return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", what+" not found")
}

func seeOther(c fiber.Ctx, to string) error {
	return c.Redirect().Status(fiber.StatusSeeOther).To(to)
}
