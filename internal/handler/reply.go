package handler

import (
	"errors"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"

	"github.com/Medard30/StudyLoop/internal/middleware"
	"github.com/Medard30/StudyLoop/internal/service"
)

type ReplyHandler struct {
	svc      *service.ReplyService
	authorID int64
}

// NewReplyHandler creates a ReplyHandler that attributes replies to authorID.
func NewReplyHandler(svc *service.ReplyService, authorID int64) *ReplyHandler {
	return &ReplyHandler{svc: svc, authorID: authorID}
}

// replyForm echoes the text inputs of a rejected reply.
type replyForm struct {
	VideoURL   string `json:"video_url"`
	Transcript string `json:"transcript"`
}

// Create handles POST /post/:id/reply (multipart video_file or video_url, transcript)
func (h *ReplyHandler) Create(c fiber.Ctx) error {
	postID, errMsg := middleware.ValidateID(c.Params("id"))
	if errMsg != "" {
		return notFound(c, "Post")
	}

	upload, err := optionalFile(c, "video_file")
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid multipart body")
	}

	in := service.ReplyInput{
		VideoURL:   c.FormValue("video_url"),
		Upload:     upload,
		Transcript: c.FormValue("transcript"),
	}

	_, err = h.svc.Add(c.Context(), postID, h.authorID, in)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return middleware.ValidationResponse(c, verr.Field, verr.Message, replyForm{
				VideoURL:   in.VideoURL,
				Transcript: in.Transcript,
			})
		}
		return storageError(c, err, "Post")
	}

	return seeOther(c, "/post/"+strconv.FormatInt(postID, 10))
}

// optionalFile returns the named upload, or nil when the form has none.
func optionalFile(c fiber.Ctx, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if err == nil {
		return fh, nil
	}
	if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
		return nil, nil
	}
	return nil, err
}
