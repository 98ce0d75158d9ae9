package service

import (
	"testing"

	"github.com/Medard30/StudyLoop/internal/model"
)

func TestReplyScore(t *testing.T) {
	r := model.Reply{Clear: 2, Correct: 3, Concise: 1, Flags: 9}
	if got := ReplyScore(r); got != 6 {
		t.Errorf("ReplyScore = %d, want 6", got)
	}
}

func TestPostAverage(t *testing.T) {
	tests := []struct {
		name    string
		replies []model.Reply
		want    *float64
	}{
		{"no replies", nil, nil},
		{"single", []model.Reply{{Clear: 1, Correct: 1}}, ptr(2.0)},
		{"rounds to one decimal", []model.Reply{{Clear: 1}, {Clear: 1}, {}}, ptr(0.7)},
		{"half rounds up", []model.Reply{{Clear: 1}, {Correct: 2}, {}, {}}, ptr(0.8)},
		{"exact", []model.Reply{{Clear: 3, Correct: 3, Concise: 3}, {Clear: 1}}, ptr(5.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PostAverage(tt.replies)
			switch {
			case tt.want == nil && got != nil:
				t.Fatalf("PostAverage = %v, want nil", *got)
			case tt.want != nil && got == nil:
				t.Fatalf("PostAverage = nil, want %v", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("PostAverage = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestAverageFromTotals_MatchesPostAverage(t *testing.T) {
	replies := []model.Reply{{Clear: 4}, {Correct: 1, Concise: 2}, {Clear: 1}}
	sum := 0
	for _, r := range replies {
		sum += ReplyScore(r)
	}
	a, b := PostAverage(replies), AverageFromTotals(sum, len(replies))
	if a == nil || b == nil || *a != *b {
		t.Fatalf("PostAverage = %v, AverageFromTotals = %v", a, b)
	}
	if AverageFromTotals(5, 0) != nil {
		t.Error("AverageFromTotals with zero replies should be nil")
	}
}

func ptr[T any](v T) *T { return &v }
