package service

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Medard30/StudyLoop/internal/model"
)

func newPostService(t *testing.T) (*PostService, *EngagementService) {
	t.Helper()
	store, _ := newMemStore()
	engage := NewEngagementService(store, nil)
	return NewPostService(store, store, engage, nil, zerolog.Nop()), engage
}

func validPost() PostInput {
	return PostInput{
		Title:  "  Chain rule ",
		Course: "MATH 2413",
		Tags:   "#Calc, derivatives, CALC",
		Prompt: "Differentiate sin(x^2).",
		Honor:  true,
	}
}

func TestPostService_Create(t *testing.T) {
	svc, _ := newPostService(t)

	p, in, err := svc.Create(t.Context(), 7, validPost())
	require.NoError(t, err)
	require.NotZero(t, p.ID)
	require.Equal(t, "Chain rule", p.Title)
	require.Equal(t, "calc,derivatives", p.Tags)
	require.Equal(t, int64(7), p.AuthorID)
	require.Equal(t, "calc,derivatives", in.Tags)
}

func TestPostService_CreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*PostInput)
		wantField string
	}{
		{"missing title", func(in *PostInput) { in.Title = "   " }, "title"},
		{"missing course", func(in *PostInput) { in.Course = "" }, "course"},
		{"tags normalize to nothing", func(in *PostInput) { in.Tags = " #, ," }, "tags"},
		{"missing prompt", func(in *PostInput) { in.Prompt = "" }, "prompt"},
		{"honor not accepted", func(in *PostInput) { in.Honor = false }, "honor"},
		{"title too long", func(in *PostInput) { in.Title = string(make([]byte, MaxTitleLen+1)) + "x" }, "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newPostService(t)
			in := validPost()
			tt.mutate(&in)

			_, echoed, err := svc.Create(t.Context(), 1, in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
			require.Equal(t, tt.wantField, verr.Field)
			require.Equal(t, in.Normalized(), echoed, "form is preserved")

			posts, err := svc.List(t.Context(), model.PostFilter{})
			require.NoError(t, err)
			require.Empty(t, posts)
		})
	}
}

func TestPostService_Detail(t *testing.T) {
	store, _ := newMemStore()
	engage := NewEngagementService(store, nil)
	svc := NewPostService(store, store, engage, nil, zerolog.Nop())

	p := mustPost(t, store, "Limits", "MATH 2413", "calc")
	older := mustReply(t, store, p.ID)
	newer := &model.Reply{PostID: p.ID, VideoPath: "20240101000300_clip.webm", Transcript: "t", AuthorID: 1}
	require.NoError(t, store.CreateReply(t.Context(), newer))

	_, err := engage.ToggleVote(t.Context(), older.ID, "me", "correct")
	require.NoError(t, err)
	_, err = engage.ToggleVote(t.Context(), older.ID, "me", "clear")
	require.NoError(t, err)

	d, err := svc.Detail(t.Context(), p.ID, "me")
	require.NoError(t, err)
	require.Equal(t, []string{"calc"}, d.TagList)
	require.Len(t, d.Replies, 2)

	require.Equal(t, newer.ID, d.Replies[0].ID, "newest reply first")
	require.Equal(t, model.VideoHTML5, d.Replies[0].Video.Kind)
	require.Equal(t, "/uploads/20240101000300_clip.webm", d.Replies[0].Video.PlayableRef)

	require.Equal(t, 2, d.Replies[1].QScore)
	require.Equal(t, []model.Dimension{model.DimensionClear, model.DimensionCorrect}, d.Replies[1].MyVotes)
	require.Equal(t, model.VideoYouTube, d.Replies[1].Video.Kind)

	require.NotNil(t, d.QAvg)
	require.Equal(t, 1.0, *d.QAvg)
	// The step clock puts the first reply one minute after the post.
	require.NotNil(t, d.MinutesToFirstReply)
	require.Equal(t, 1, *d.MinutesToFirstReply)

	other, err := svc.Detail(t.Context(), p.ID, "someone-else")
	require.NoError(t, err)
	require.Empty(t, other.Replies[1].MyVotes)
}

func TestPostService_DetailNotFound(t *testing.T) {
	svc, _ := newPostService(t)
	_, err := svc.Detail(t.Context(), 99, "me")
	require.ErrorIs(t, err, model.ErrNotFound)
}
