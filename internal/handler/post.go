package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/Medard30/StudyLoop/internal/middleware"
	"github.com/Medard30/StudyLoop/internal/model"
	"github.com/Medard30/StudyLoop/internal/service"
)

type PostHandler struct {
	svc      *service.PostService
	authorID int64
}

// NewPostHandler creates a PostHandler that attributes new posts to authorID.
func NewPostHandler(svc *service.PostService, authorID int64) *PostHandler {
	return &PostHandler{svc: svc, authorID: authorID}
}

// List handles GET /?q=&course=&tag=&sort=
func (h *PostHandler) List(c fiber.Ctx) error {
	f := service.NormalizeFilter(model.PostFilter{
		Search: fiber.Query[string](c, "q"),
		Course: fiber.Query[string](c, "course"),
		Tag:    fiber.Query[string](c, "tag"),
		Sort:   model.SortMode(fiber.Query[string](c, "sort")),
	})

	posts, err := h.svc.List(c.Context(), f)
	if err != nil {
		return storageError(c, err, "Feed")
	}

	return c.JSON(model.FeedResponse{Posts: posts, State: f})
}

// Create handles POST /new
func (h *PostHandler) Create(c fiber.Ctx) error {
	in := service.PostInput{
		Title:  c.FormValue("title"),
		Course: c.FormValue("course"),
		Tags:   c.FormValue("tags"),
		Prompt: c.FormValue("prompt"),
		Honor:  checked(c.FormValue("honor")),
	}

	_, normalized, err := h.svc.Create(c.Context(), h.authorID, in)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return middleware.ValidationResponse(c, verr.Field, verr.Message, normalized)
		}
		return storageError(c, err, "Post")
	}

	return seeOther(c, "/")
}

// Detail handles GET /post/:id
func (h *PostHandler) Detail(c fiber.Ctx) error {
	id, errMsg := middleware.ValidateID(c.Params("id"))
	if errMsg != "" {
		return notFound(c, "Post")
	}

	detail, err := h.svc.Detail(c.Context(), id, middleware.SessionID(c))
	if err != nil {
		return storageError(c, err, "Post")
	}

	return c.JSON(detail)
}

// checked interprets an HTML checkbox value.
func checked(v string) bool {
	if v == "" {
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	// Browsers send "on" for a checked box without a value attribute.
	return v == "on" || v == "yes"
}
