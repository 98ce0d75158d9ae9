package service

import (
	"math"

	"github.com/Medard30/StudyLoop/internal/model"
)

// ReplyScore is the quality score of a reply: one point per active
// endorsement on each dimension.
func ReplyScore(r model.Reply) int {
	return r.Clear + r.Correct + r.Concise
}

// PostAverage is the mean reply score of a post rounded to one decimal place,
// or nil when the post has no replies.
func PostAverage(replies []model.Reply) *float64 {
	sum := 0
	for _, r := range replies {
		sum += ReplyScore(r)
	}
	return AverageFromTotals(sum, len(replies))
}

// AverageFromTotals computes the same value as PostAverage from precomputed
// aggregates. Halves round away from zero.
func AverageFromTotals(scoreSum, replyCount int) *float64 {
	if replyCount <= 0 {
		return nil
	}
	avg := math.Round(float64(scoreSum)/float64(replyCount)*10) / 10
	return &avg
}
