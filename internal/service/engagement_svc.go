package service

import (
	"context"
	"fmt"

	"github.com/Medard30/StudyLoop/internal/metrics"
	"github.com/Medard30/StudyLoop/internal/model"
	"github.com/Medard30/StudyLoop/pkg/hash"
)

// EngagementService applies vote and report toggles for a visitor session.
type EngagementService struct {
	ledger Ledger
	cache  *CacheService
}

func NewEngagementService(ledger Ledger, cache *CacheService) *EngagementService {
	return &EngagementService{ledger: ledger, cache: cache}
}

// ToggleVote flips the session's vote on one dimension of a reply. An unknown
// dimension is rejected with model.ErrInvalidInput before any storage access.
func (s *EngagementService) ToggleVote(ctx context.Context, replyID int64, sessionID, dimension string) (model.ToggleResult, error) {
	dim, ok := model.ParseDimension(dimension)
	if !ok {
		return "", fmt.Errorf("dimension %q: %w", dimension, model.ErrInvalidInput)
	}

	res, err := s.ledger.ToggleVote(ctx, replyID, hash.SessionKey(sessionID), dim)
	if err != nil {
		return "", err
	}

	metrics.RecordToggle("vote", string(dim), string(res))
	// Vote counters feed the qscore ranking.
	s.cache.invalidate(ctx)
	return res, nil
}

// ToggleReport flips the session's report on a reply.
func (s *EngagementService) ToggleReport(ctx context.Context, replyID int64, sessionID string) (model.ToggleResult, error) {
	res, err := s.ledger.ToggleReport(ctx, replyID, hash.SessionKey(sessionID))
	if err != nil {
		return "", err
	}
	metrics.RecordToggle("report", "", string(res))
	return res, nil
}

// SessionState is the requesting visitor's own votes and reports.
type SessionState struct {
	Votes   map[int64][]model.Dimension
	Reports map[int64]bool
}

// StateFor loads the visitor's active votes and reports.
func (s *EngagementService) StateFor(ctx context.Context, sessionID string) (SessionState, error) {
	key := hash.SessionKey(sessionID)

	votes, err := s.ledger.VotesFor(ctx, key)
	if err != nil {
		return SessionState{}, fmt.Errorf("load votes: %w", err)
	}
	reports, err := s.ledger.ReportsFor(ctx, key)
	if err != nil {
		return SessionState{}, fmt.Errorf("load reports: %w", err)
	}

	state := SessionState{
		Votes:   make(map[int64][]model.Dimension, len(votes)),
		Reports: make(map[int64]bool, len(reports)),
	}
	for _, v := range votes {
		state.Votes[v.ReplyID] = append(state.Votes[v.ReplyID], v.Dimension)
	}
	for _, id := range reports {
		state.Reports[id] = true
	}
	return state, nil
}
