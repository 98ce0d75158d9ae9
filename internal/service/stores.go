package service

import (
	"context"
	"time"

	"github.com/Medard30/StudyLoop/internal/model"
)

// PostStore persists problem posts.
type PostStore interface {
	CreatePost(ctx context.Context, p *model.Post) error
	GetPost(ctx context.Context, id int64) (*model.Post, error)
	// ListPostStats returns candidate posts with reply aggregates. The filter
	// is a pushdown hint; callers re-apply it.
	ListPostStats(ctx context.Context, f model.PostFilter) ([]model.PostStats, error)
	// PostStatsSince returns posts created strictly after since, oldest first.
	PostStatsSince(ctx context.Context, since time.Time, limit int) ([]model.PostStats, error)
}

// ReplyStore persists video replies. Counters are only changed through a Ledger.
type ReplyStore interface {
	CreateReply(ctx context.Context, r *model.Reply) error
	RepliesForPost(ctx context.Context, postID int64) ([]model.Reply, error)
}

// Ledger is the per-visitor vote and report store. Each toggle is atomic:
// the existence check, the record mutation and the counter update happen
// as one unit.
type Ledger interface {
	ToggleVote(ctx context.Context, replyID int64, sessionKey string, dim model.Dimension) (model.ToggleResult, error)
	ToggleReport(ctx context.Context, replyID int64, sessionKey string) (model.ToggleResult, error)
	VotesFor(ctx context.Context, sessionKey string) ([]model.VoteKey, error)
	ReportsFor(ctx context.Context, sessionKey string) ([]int64, error)
}

// UserStore resolves board members.
type UserStore interface {
	EnsureUser(ctx context.Context, name string) (*model.User, error)
}

// StatsStore reports board-wide counts.
type StatsStore interface {
	GetStats(ctx context.Context) (*model.StatsResponse, error)
}
