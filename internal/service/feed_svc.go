package service

import (
	"context"
	"time"

	"github.com/Medard30/StudyLoop/internal/model"
)

// MaxDeltaPosts caps one polling response.
const MaxDeltaPosts = 200

// DeltaOverlap is subtracted from syncTimestamp. Rows are stamped with the
// inserting transaction's start time, so a post can commit after a poll
// with a created_at older than that poll. Consecutive polls overlap by this
// window and clients drop posts they already hold by id.
const DeltaOverlap = 5 * time.Second

// FeedService serves the polling feed: clients remember the last
// syncTimestamp and ask for anything newer.
type FeedService struct {
	posts PostStore
	now   func() time.Time
}

func NewFeedService(posts PostStore) *FeedService {
	return &FeedService{posts: posts, now: time.Now}
}

// DeltaSince returns posts created after since, oldest first. Results may
// repeat posts from the previous poll within DeltaOverlap.
func (s *FeedService) DeltaSince(ctx context.Context, since time.Time) (*model.FeedDeltaResponse, error) {
	syncedAt := s.now().UTC().Add(-DeltaOverlap)

	stats, err := s.posts.PostStatsSince(ctx, since, MaxDeltaPosts)
	if err != nil {
		return nil, err
	}

	posts := make([]model.PostSummary, 0, len(stats))
	for _, st := range stats {
		posts = append(posts, Summarize(st))
	}
	if len(stats) == MaxDeltaPosts {
		// Truncated: resume from the last post we actually returned.
		syncedAt = stats[len(stats)-1].CreatedAt.UTC()
	}

	return &model.FeedDeltaResponse{
		Posts:         posts,
		SyncTimestamp: syncedAt.Format(time.RFC3339Nano),
	}, nil
}
