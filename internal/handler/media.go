package handler

import (
	"os"

	"github.com/gofiber/fiber/v3"

	"github.com/Medard30/StudyLoop/internal/media"
	"github.com/Medard30/StudyLoop/internal/middleware"
)

type MediaHandler struct {
	store *media.Store
}

func NewMediaHandler(store *media.Store) *MediaHandler {
	return &MediaHandler{store: store}
}

// Serve handles GET /uploads/:name
// Only names produced by the upload store resolve; anything else is a 404.
func (h *MediaHandler) Serve(c fiber.Ctx) error {
	path, err := h.store.Path(c.Params("name"))
	if err != nil {
		return notFound(c, "Video")
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return notFound(c, "Video")
	}

	if !media.Allowed(path) {
		return notFound(c, "Video")
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	if err := c.SendFile(path); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read video")
	}
	return nil
}
