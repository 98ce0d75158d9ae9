package service

import (
	"time"

	"github.com/Medard30/StudyLoop/internal/model"
)

// MinutesToFirstReply returns the whole minutes between a post's creation and
// its earliest reply, or nil when there are no replies. Partial minutes are
// truncated toward zero. A reply older than its post (clock skew) yields a
// negative value rather than an error.
func MinutesToFirstReply(post model.Post, replies []model.Reply) *int {
	if len(replies) == 0 {
		return nil
	}
	first := replies[0].CreatedAt
	for _, r := range replies[1:] {
		if r.CreatedAt.Before(first) {
			first = r.CreatedAt
		}
	}
	minutes := int(first.Sub(post.CreatedAt) / time.Minute)
	return &minutes
}
