package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Medard30/StudyLoop/internal/model"
	"github.com/Medard30/StudyLoop/internal/repository/memstore"
	"github.com/Medard30/StudyLoop/internal/tags"
)

// stepClock advances by one minute on every call so creation order is
// visible in timestamps.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newMemStore() (*memstore.Store, *stepClock) {
	clock := newStepClock()
	return memstore.NewWithClock(clock.Now), clock
}

func mustPost(t *testing.T, store PostStore, title, course, rawTags string) *model.Post {
	t.Helper()
	p := &model.Post{Title: title, Course: course, Tags: tags.Normalize(rawTags), Prompt: "prompt: " + title, AuthorID: 1}
	require.NoError(t, store.CreatePost(t.Context(), p))
	return p
}

func mustReply(t *testing.T, store ReplyStore, postID int64) *model.Reply {
	t.Helper()
	r := &model.Reply{PostID: postID, VideoURL: "https://youtu.be/x", Transcript: "t", AuthorID: 1}
	require.NoError(t, store.CreateReply(t.Context(), r))
	return r
}
