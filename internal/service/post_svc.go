package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Medard30/StudyLoop/internal/metrics"
	"github.com/Medard30/StudyLoop/internal/model"
	"github.com/Medard30/StudyLoop/internal/tags"
)

// Field length limits matching the problem_posts schema.
const (
	MaxTitleLen  = 200
	MaxCourseLen = 100
	MaxTagsLen   = 500
	MaxPromptLen = 10000
)

// PostInput is a submitted post form.
type PostInput struct {
	Title  string `json:"title"`
	Course string `json:"course"`
	Tags   string `json:"tags"`
	Prompt string `json:"prompt"`
	Honor  bool   `json:"honor"`
}

// Normalized trims the text fields and canonicalizes the tags.
func (in PostInput) Normalized() PostInput {
	return PostInput{
		Title:  strings.TrimSpace(in.Title),
		Course: strings.TrimSpace(in.Course),
		Tags:   tags.Normalize(in.Tags),
		Prompt: strings.TrimSpace(in.Prompt),
		Honor:  in.Honor,
	}
}

// PostService owns the post-level operations of the board.
type PostService struct {
	posts   PostStore
	replies ReplyStore
	engine  *QueryEngine
	engage  *EngagementService
	cache   *CacheService
	log     zerolog.Logger
}

func NewPostService(posts PostStore, replies ReplyStore, engage *EngagementService, cache *CacheService, logger zerolog.Logger) *PostService {
	return &PostService{
		posts:   posts,
		replies: replies,
		engine:  NewQueryEngine(posts),
		engage:  engage,
		cache:   cache,
		log:     logger,
	}
}

// List returns the ranked feed for f, served from cache when possible.
func (s *PostService) List(ctx context.Context, f model.PostFilter) ([]model.PostSummary, error) {
	f = NormalizeFilter(f)

	var key string
	if s.cache.Enabled() {
		var err error
		if key, err = s.cache.FeedKey(ctx, f); err != nil {
			s.log.Warn().Err(err).Msg("cache: feed key")
		}
	}

	if key != "" {
		cached, ok, err := s.cache.GetFeed(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Msg("cache: get feed")
		}
		metrics.RecordCache(ok)
		if ok {
			return cached, nil
		}
	}

	posts, err := s.engine.List(ctx, f)
	if err != nil {
		return nil, err
	}

	if key != "" {
		if err := s.cache.SetFeed(ctx, key, posts); err != nil {
			s.log.Warn().Err(err).Msg("cache: set feed")
		}
	}
	return posts, nil
}

// Create validates and stores a new post by authorID. The returned input is
// the normalized form, suitable for redisplay when validation fails.
func (s *PostService) Create(ctx context.Context, authorID int64, in PostInput) (*model.Post, PostInput, error) {
	in = in.Normalized()
	if err := validatePost(in); err != nil {
		return nil, in, err
	}

	p := &model.Post{
		Title:    in.Title,
		Course:   in.Course,
		Tags:     in.Tags,
		Prompt:   in.Prompt,
		AuthorID: authorID,
	}
	if err := s.posts.CreatePost(ctx, p); err != nil {
		return nil, in, err
	}

	metrics.RecordPostCreated()
	s.cache.invalidate(ctx)
	return p, in, nil
}

const fillAllFields = "Please fill all fields and accept the Honor Code."

func validatePost(in PostInput) error {
	switch {
	case in.Title == "":
		return invalid("title", fillAllFields)
	case in.Course == "":
		return invalid("course", fillAllFields)
	case in.Tags == "":
		return invalid("tags", fillAllFields)
	case in.Prompt == "":
		return invalid("prompt", fillAllFields)
	case !in.Honor:
		return invalid("honor", fillAllFields)
	case len(in.Title) > MaxTitleLen:
		return invalid("title", "Title is too long.")
	case len(in.Course) > MaxCourseLen:
		return invalid("course", "Course is too long.")
	case len(in.Tags) > MaxTagsLen:
		return invalid("tags", "Too many tags.")
	case len(in.Prompt) > MaxPromptLen:
		return invalid("prompt", "Prompt is too long.")
	}
	return nil
}

// Detail assembles a post with its replies annotated for the visitor.
// Missing posts return model.ErrNotFound.
func (s *PostService) Detail(ctx context.Context, id int64, sessionID string) (*model.PostDetail, error) {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	replies, err := s.replies.RepliesForPost(ctx, id)
	if err != nil {
		return nil, err
	}

	state, err := s.engage.StateFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	views := make([]model.ReplyView, 0, len(replies))
	for _, r := range replies {
		views = append(views, model.ReplyView{
			Reply:    r,
			QScore:   ReplyScore(r),
			Video:    ClassifyVideo(PlaybackRef(r)),
			MyVotes:  orderedDimensions(state.Votes[r.ID]),
			Reported: state.Reports[r.ID],
		})
	}

	return &model.PostDetail{
		Post:                *post,
		TagList:             tags.Split(post.Tags),
		Replies:             views,
		QAvg:                PostAverage(replies),
		MinutesToFirstReply: MinutesToFirstReply(*post, replies),
	}, nil
}

// UploadsPath is the URL prefix stored reply videos are served from.
const UploadsPath = "/uploads/"

// PlaybackRef is the reference a reply video is played from: the public URL
// of an uploaded file, or the submitted link.
func PlaybackRef(r model.Reply) string {
	if r.VideoPath != "" {
		return UploadsPath + r.VideoPath
	}
	return r.VideoURL
}

func orderedDimensions(dims []model.Dimension) []model.Dimension {
	out := []model.Dimension{}
	for _, d := range model.Dimensions {
		for _, have := range dims {
			if have == d {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
