package service

import (
	"testing"

	"github.com/Medard30/StudyLoop/internal/model"
)

func TestClassifyVideo(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		wantKind model.VideoKind
		wantRef  string
	}{
		{"short youtube", "https://youtu.be/dQw4w9WgXcQ", model.VideoYouTube, "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"short youtube with query", "https://youtu.be/dQw4w9WgXcQ?t=42", model.VideoYouTube, "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"long youtube", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=1", model.VideoYouTube, "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"mixed case host", "https://YouTube.com/watch?v=abc123", model.VideoYouTube, "https://www.youtube.com/embed/abc123"},
		{"youtube without id", "https://www.youtube.com/feed/trending", model.VideoLink, "https://www.youtube.com/feed/trending"},
		{"mp4", "https://example.com/clip.mp4", model.VideoHTML5, "https://example.com/clip.mp4"},
		{"uppercase webm", "https://example.com/CLIP.WEBM", model.VideoHTML5, "https://example.com/CLIP.WEBM"},
		{"ogv", "/uploads/20250101000000_a.ogv", model.VideoHTML5, "/uploads/20250101000000_a.ogv"},
		{"mov", "https://example.com/a.mov", model.VideoHTML5, "https://example.com/a.mov"},
		{"extension before query is a link", "https://example.com/clip.mp4?dl=1", model.VideoLink, "https://example.com/clip.mp4?dl=1"},
		{"plain page", "https://vimeo.com/12345", model.VideoLink, "https://vimeo.com/12345"},
		{"not a url", "not a url at all", model.VideoLink, "not a url at all"},
		{"broken youtube url", "http://youtube.com/%zz", model.VideoLink, "http://youtube.com/%zz"},
		{"blank", "   ", model.VideoLink, ""},
		{"empty", "", model.VideoLink, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyVideo(tt.ref)
			if got.Kind != tt.wantKind {
				t.Errorf("ClassifyVideo(%q).Kind = %q, want %q", tt.ref, got.Kind, tt.wantKind)
			}
			if got.PlayableRef != tt.wantRef {
				t.Errorf("ClassifyVideo(%q).PlayableRef = %q, want %q", tt.ref, got.PlayableRef, tt.wantRef)
			}
		})
	}
}
