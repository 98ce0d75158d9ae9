package service

import (
	"context"
	"sort"
	"strings"

	"github.com/Medard30/StudyLoop/internal/model"
	"github.com/Medard30/StudyLoop/internal/tags"
)

// ParseSort maps a query value to a sort mode. Unknown values sort newest first.
func ParseSort(s string) model.SortMode {
	switch model.SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case model.SortReplies:
		return model.SortReplies
	case model.SortQScore:
		return model.SortQScore
	}
	return model.SortNewest
}

// NormalizeFilter trims the raw query values and canonicalizes the tag term.
func NormalizeFilter(f model.PostFilter) model.PostFilter {
	return model.PostFilter{
		Search: strings.TrimSpace(f.Search),
		Course: strings.TrimSpace(f.Course),
		Tag:    tags.Normalize(f.Tag),
		Sort:   ParseSort(string(f.Sort)),
	}
}

// Matches reports whether a post satisfies a normalized filter.
func Matches(p model.Post, f model.PostFilter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Prompt), needle) {
			return false
		}
	}
	if f.Course != "" && !strings.EqualFold(p.Course, f.Course) {
		return false
	}
	if f.Tag != "" && !tags.HasAll(strings.ToLower(p.Tags), tags.Split(f.Tag)) {
		return false
	}
	return true
}

// Summarize turns ranking aggregates into a feed entry.
func Summarize(s model.PostStats) model.PostSummary {
	return model.PostSummary{
		Post:       s.Post,
		TagList:    tags.Split(s.Tags),
		ReplyCount: s.ReplyCount,
		QAvg:       AverageFromTotals(s.ScoreSum, s.ReplyCount),
	}
}

// Rank orders summaries in place. Every mode falls back to creation time
// descending and then id descending so the order is total.
func Rank(posts []model.PostSummary, mode model.SortMode) {
	newer := func(a, b model.PostSummary) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	}

	var less func(a, b model.PostSummary) bool
	switch mode {
	case model.SortReplies:
		less = func(a, b model.PostSummary) bool {
			if a.ReplyCount != b.ReplyCount {
				return a.ReplyCount > b.ReplyCount
			}
			return newer(a, b)
		}
	case model.SortQScore:
		less = func(a, b model.PostSummary) bool {
			switch {
			case a.QAvg != nil && b.QAvg == nil:
				return true
			case a.QAvg == nil && b.QAvg != nil:
				return false
			case a.QAvg != nil && b.QAvg != nil && *a.QAvg != *b.QAvg:
				return *a.QAvg > *b.QAvg
			}
			return newer(a, b)
		}
	default:
		less = newer
	}

	sort.SliceStable(posts, func(i, j int) bool { return less(posts[i], posts[j]) })
}

// QueryEngine filters and ranks the post collection.
type QueryEngine struct {
	posts PostStore
}

func NewQueryEngine(posts PostStore) *QueryEngine {
	return &QueryEngine{posts: posts}
}

// List returns the posts matching f in the order f.Sort asks for.
func (e *QueryEngine) List(ctx context.Context, f model.PostFilter) ([]model.PostSummary, error) {
	f = NormalizeFilter(f)

	stats, err := e.posts.ListPostStats(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]model.PostSummary, 0, len(stats))
	for _, s := range stats {
		if !Matches(s.Post, f) {
			continue
		}
		out = append(out, Summarize(s))
	}
	Rank(out, f.Sort)
	return out, nil
}
