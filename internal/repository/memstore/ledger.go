package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/Medard30/StudyLoop/internal/model"
)

// ToggleVote adds or removes the session's vote and adjusts the reply
// counters under the store lock.
func (s *Store) ToggleVote(_ context.Context, replyID int64, sessionKey string, dim model.Dimension) (model.ToggleResult, error) {
	if _, ok := model.ParseDimension(string(dim)); !ok {
		return "", fmt.Errorf("dimension %q: %w", dim, model.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.replies[replyID]
	if !ok {
		return "", model.ErrNotFound
	}

	key := voteKey{replyID: replyID, sessionKey: sessionKey, dim: dim}
	delta := 1
	result := model.ToggleAdded
	if _, active := s.votes[key]; active {
		delete(s.votes, key)
		delta = -1
		result = model.ToggleRemoved
	} else {
		s.votes[key] = struct{}{}
	}

	switch dim {
	case model.DimensionClear:
		r.Clear += delta
	case model.DimensionCorrect:
		r.Correct += delta
	case model.DimensionConcise:
		r.Concise += delta
	}
	r.Upvotes += delta
	return result, nil
}

// ToggleReport adds or removes the session's report on a reply.
func (s *Store) ToggleReport(_ context.Context, replyID int64, sessionKey string) (model.ToggleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.replies[replyID]
	if !ok {
		return "", model.ErrNotFound
	}

	key := reportKey{replyID: replyID, sessionKey: sessionKey}
	if _, active := s.reports[key]; active {
		delete(s.reports, key)
		r.Flags--
		return model.ToggleRemoved, nil
	}
	s.reports[key] = struct{}{}
	r.Flags++
	return model.ToggleAdded, nil
}

// VotesFor lists the active votes of one session.
func (s *Store) VotesFor(_ context.Context, sessionKey string) ([]model.VoteKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.VoteKey{}
	for k := range s.votes {
		if k.sessionKey == sessionKey {
			out = append(out, model.VoteKey{ReplyID: k.replyID, Dimension: k.dim})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReplyID != out[j].ReplyID {
			return out[i].ReplyID < out[j].ReplyID
		}
		return out[i].Dimension < out[j].Dimension
	})
	return out, nil
}

// ReportsFor lists the replies one session has reported.
func (s *Store) ReportsFor(_ context.Context, sessionKey string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []int64{}
	for k := range s.reports {
		if k.sessionKey == sessionKey {
			out = append(out, k.replyID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
