package service

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Medard30/StudyLoop/internal/media"
	"github.com/Medard30/StudyLoop/internal/metrics"
	"github.com/Medard30/StudyLoop/internal/model"
)

const (
	MaxTranscriptLen = 20000
	MaxVideoURLLen   = 2048
)

// UploadStore keeps uploaded video files.
type UploadStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(name string) error
}

// ReplyInput is a submitted reply. Upload wins over VideoURL when both are set.
type ReplyInput struct {
	VideoURL   string
	Upload     *multipart.FileHeader
	Transcript string
}

// ReplyService validates and stores video replies.
type ReplyService struct {
	posts    PostStore
	replies  ReplyStore
	uploads  UploadStore
	maxBytes int64
	cache    *CacheService
	log      zerolog.Logger
}

func NewReplyService(posts PostStore, replies ReplyStore, uploads UploadStore, maxBytes int64, cache *CacheService, logger zerolog.Logger) *ReplyService {
	return &ReplyService{
		posts:    posts,
		replies:  replies,
		uploads:  uploads,
		maxBytes: maxBytes,
		cache:    cache,
		log:      logger,
	}
}

// Add attaches a reply by authorID to postID. Nothing is stored unless every
// check passes; a missing post returns model.ErrNotFound.
func (s *ReplyService) Add(ctx context.Context, postID, authorID int64, in ReplyInput) (*model.Reply, error) {
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	videoURL := strings.TrimSpace(in.VideoURL)
	transcript := strings.TrimSpace(in.Transcript)
	hasUpload := in.Upload != nil && in.Upload.Filename != ""

	switch {
	case !hasUpload && videoURL == "":
		return nil, invalid("video", "You must select a video file or provide a video URL.")
	case hasUpload && !media.Allowed(in.Upload.Filename):
		return nil, invalid("video_file", "Unsupported video format. Allowed: mp4, webm, ogg, ogv, m4v, mov.")
	case hasUpload && s.maxBytes > 0 && in.Upload.Size > s.maxBytes:
		return nil, invalid("video_file", "Video file is too large.")
	case !hasUpload && len(videoURL) > MaxVideoURLLen:
		return nil, invalid("video_url", "Video URL is too long.")
	case transcript == "":
		return nil, invalid("transcript", "Transcript is required.")
	case len(transcript) > MaxTranscriptLen:
		return nil, invalid("transcript", "Transcript is too long.")
	}

	r := &model.Reply{
		PostID:     postID,
		Transcript: transcript,
		AuthorID:   authorID,
	}
	source := "url"
	if hasUpload {
		name, err := s.uploads.Save(in.Upload)
		if err != nil {
			return nil, err
		}
		r.VideoPath = name
		source = "upload"
	} else {
		r.VideoURL = videoURL
	}

	if err := s.replies.CreateReply(ctx, r); err != nil {
		if r.VideoPath != "" {
			if rmErr := s.uploads.Remove(r.VideoPath); rmErr != nil {
				s.log.Warn().Err(rmErr).Str("file", r.VideoPath).Msg("reply: remove orphaned upload")
			}
		}
		return nil, err
	}

	metrics.RecordReplyCreated(source)
	s.cache.invalidate(ctx)
	return r, nil
}
