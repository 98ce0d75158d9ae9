// Package memstore is an in-process implementation of the board stores.
// A single mutex serializes every operation, which makes each ledger toggle
// atomic. It backs tests and STORAGE_DRIVER=memory.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Medard30/StudyLoop/internal/model"
)

type voteKey struct {
	replyID    int64
	sessionKey string
	dim        model.Dimension
}

type reportKey struct {
	replyID    int64
	sessionKey string
}

// Store holds all board state in memory.
type Store struct {
	mu sync.Mutex

	now func() time.Time

	users   []model.User
	posts   map[int64]*model.Post
	replies map[int64]*model.Reply
	votes   map[voteKey]struct{}
	reports map[reportKey]struct{}

	nextUserID  int64
	nextPostID  int64
	nextReplyID int64
}

// New creates an empty store that stamps records with time.Now.
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock creates an empty store with a custom clock for creation
// timestamps.
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		now:     now,
		posts:   make(map[int64]*model.Post),
		replies: make(map[int64]*model.Reply),
		votes:   make(map[voteKey]struct{}),
		reports: make(map[reportKey]struct{}),
	}
}

// EnsureUser returns the user with the given name, creating it if needed.
func (s *Store) EnsureUser(_ context.Context, name string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Name == name {
			u := u
			return &u, nil
		}
	}
	s.nextUserID++
	u := model.User{ID: s.nextUserID, Name: name, CreatedAt: s.now().UTC()}
	s.users = append(s.users, u)
	return &u, nil
}

// CreatePost stores p and fills its ID and CreatedAt.
func (s *Store) CreatePost(_ context.Context, p *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPostID++
	p.ID = s.nextPostID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	cp := *p
	s.posts[p.ID] = &cp
	return nil
}

// GetPost returns model.ErrNotFound for unknown ids.
func (s *Store) GetPost(_ context.Context, id int64) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// ListPostStats returns every post with its reply aggregates. The filter is
// applied by the query engine.
func (s *Store) ListPostStats(_ context.Context, _ model.PostFilter) ([]model.PostStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.PostStats, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, s.statsLocked(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// PostStatsSince returns posts created after since, oldest first.
func (s *Store) PostStatsSince(_ context.Context, since time.Time, limit int) ([]model.PostStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.PostStats
	for _, p := range s.posts {
		if p.CreatedAt.After(since) {
			out = append(out, s.statsLocked(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) statsLocked(p *model.Post) model.PostStats {
	st := model.PostStats{Post: *p}
	for _, r := range s.replies {
		if r.PostID == p.ID {
			st.ReplyCount++
			st.ScoreSum += r.Clear + r.Correct + r.Concise
		}
	}
	return st
}

// CreateReply stores r with zeroed counters. The post must exist.
func (s *Store) CreateReply(_ context.Context, r *model.Reply) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[r.PostID]; !ok {
		return model.ErrNotFound
	}
	s.nextReplyID++
	r.ID = s.nextReplyID
	r.Upvotes, r.Flags, r.Clear, r.Correct, r.Concise = 0, 0, 0, 0, 0
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}
	cp := *r
	s.replies[r.ID] = &cp
	return nil
}

// GetReply returns model.ErrNotFound for unknown ids.
func (s *Store) GetReply(_ context.Context, id int64) (*model.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.replies[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// RepliesForPost returns the replies of a post, newest first.
func (s *Store) RepliesForPost(_ context.Context, postID int64) ([]model.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Reply{}
	for _, r := range s.replies {
		if r.PostID == postID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// GetStats returns board-wide counts.
func (s *Store) GetStats(_ context.Context) (*model.StatsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &model.StatsResponse{
		TotalPosts:       len(s.posts),
		TotalReplies:     len(s.replies),
		TotalVotes:       len(s.votes),
		TotalReports:     len(s.reports),
		TotalUsers:       len(s.users),
		VotesByDimension: make(map[string]int),
	}
	for _, d := range model.Dimensions {
		stats.VotesByDimension[string(d)] = 0
	}
	for k := range s.votes {
		stats.VotesByDimension[string(k.dim)]++
	}
	return stats, nil
}
