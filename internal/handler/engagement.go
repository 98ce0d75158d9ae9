package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Medard30/StudyLoop/internal/middleware"
	"github.com/Medard30/StudyLoop/internal/model"
	"github.com/Medard30/StudyLoop/internal/service"
)

// ToggleResultHeader carries which transition a toggle applied.
const ToggleResultHeader = "X-Toggle-Result"

type EngagementHandler struct {
	svc *service.EngagementService
}

func NewEngagementHandler(svc *service.EngagementService) *EngagementHandler {
	return &EngagementHandler{svc: svc}
}

// Rate handles POST /reply/:id/rate (form dim=clear|correct|concise)
func (h *EngagementHandler) Rate(c fiber.Ctx) error {
	replyID, errMsg := middleware.ValidateID(c.Params("id"))
	if errMsg != "" {
		return notFound(c, "Reply")
	}

	res, err := h.svc.ToggleVote(c.Context(), replyID, middleware.SessionID(c), c.FormValue("dim"))
	if err != nil {
		// An unknown dimension is ignored: back to the page, nothing changed.
		if errors.Is(err, model.ErrInvalidInput) {
			return seeOther(c, back(c))
		}
		return storageError(c, err, "Reply")
	}

	c.Set(ToggleResultHeader, string(res))
	return seeOther(c, back(c))
}

// Report handles POST /reply/:id/report
func (h *EngagementHandler) Report(c fiber.Ctx) error {
	replyID, errMsg := middleware.ValidateID(c.Params("id"))
	if errMsg != "" {
		return notFound(c, "Reply")
	}

	res, err := h.svc.ToggleReport(c.Context(), replyID, middleware.SessionID(c))
	if err != nil {
		return storageError(c, err, "Reply")
	}

	c.Set(ToggleResultHeader, string(res))
	return seeOther(c, back(c))
}

func back(c fiber.Ctx) string {
	return middleware.SafeRedirect(c.Get(fiber.HeaderReferer), "/")
}
