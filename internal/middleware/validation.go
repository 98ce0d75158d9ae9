package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidationResponse returns a 422 naming the rejected field. form echoes the
// submitted values back so the client can re-render its inputs.
func ValidationResponse(c fiber.Ctx, field, message string, form any) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "VALIDATION_FAILED",
			"message": message,
			"field":   field,
		},
		"form": form,
	})
}

// ValidateID parses a positive integer route parameter.
func ValidateID(raw string) (int64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, "id is required"
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, "id must be a positive integer"
	}
	return id, ""
}

// ValidateSince parses an RFC 3339 timestamp. Empty input means the
// beginning of time.
func ValidateSince(raw string) (time.Time, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ""
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, "since must be an RFC 3339 timestamp"
	}
	return t, ""
}

// SafeRedirect returns target when it is a local path, otherwise fallback.
// Protocol-relative and absolute URLs are rejected to prevent open redirects.
func SafeRedirect(target, fallback string) string {
	if target == "" {
		return fallback
	}
	if i := strings.Index(target, "://"); i >= 0 {
		// Absolute Referer from the same host: keep only the path.
		rest := target[i+3:]
		slash := strings.IndexByte(rest, '/')
		if slash < 0 {
			return fallback
		}
		target = rest[slash:]
	}
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}
