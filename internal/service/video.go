package service

import (
	"net/url"
	"strings"

	"github.com/Medard30/StudyLoop/internal/model"
)

const youtubeEmbedBase = "https://www.youtube.com/embed/"

// html5Extensions are the suffixes a browser <video> element can play
// directly. They match the upload allow-list.
var html5Extensions = []string{".mp4", ".webm", ".ogg", ".ogv", ".m4v", ".mov"}

// ClassifyVideo decides how a reply video is played back. YouTube links become
// embed URLs, direct video files play in an HTML5 player and everything else
// (including malformed input) degrades to a plain link.
func ClassifyVideo(ref string) model.Video {
	u := strings.TrimSpace(ref)
	if u == "" {
		return model.Video{Kind: model.VideoLink, PlayableRef: ""}
	}

	lower := strings.ToLower(u)
	if strings.Contains(lower, "youtube.com") || strings.Contains(lower, "youtu.be") {
		if id := youtubeID(u, lower); id != "" {
			return model.Video{Kind: model.VideoYouTube, PlayableRef: youtubeEmbedBase + id}
		}
		return model.Video{Kind: model.VideoLink, PlayableRef: u}
	}

	for _, ext := range html5Extensions {
		if strings.HasSuffix(lower, ext) {
			return model.Video{Kind: model.VideoHTML5, PlayableRef: u}
		}
	}
	return model.Video{Kind: model.VideoLink, PlayableRef: u}
}

// youtubeID extracts the video id from a short youtu.be link or the v query
// parameter of a long link. It returns "" when no id can be found.
func youtubeID(u, lower string) string {
	if i := strings.Index(lower, "youtu.be/"); i >= 0 {
		id := u[i+len("youtu.be/"):]
		if q := strings.IndexByte(id, '?'); q >= 0 {
			id = id[:q]
		}
		return id
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("v")
}
