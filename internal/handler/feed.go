package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Medard30/StudyLoop/internal/middleware"
	"github.com/Medard30/StudyLoop/internal/service"
)

type FeedHandler struct {
	svc *service.FeedService
}

func NewFeedHandler(svc *service.FeedService) *FeedHandler {
	return &FeedHandler{svc: svc}
}

// Delta handles GET /api/feed/delta?since=TIMESTAMP
// Clients poll with the syncTimestamp of the previous response; omitting
// since returns the oldest posts first.
func (h *FeedHandler) Delta(c fiber.Ctx) error {
	since, errMsg := middleware.ValidateSince(fiber.Query[string](c, "since"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", errMsg)
	}

	resp, err := h.svc.DeltaSince(c.Context(), since)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch feed delta")
	}

	return c.JSON(resp)
}
