package model

import "time"

// Reply is a video explanation attached to a post. Exactly one of VideoURL
// and VideoPath is set; VideoPath is a file name inside the upload directory.
type Reply struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"postId"`
	VideoURL   string    `json:"videoUrl,omitempty"`
	VideoPath  string    `json:"videoPath,omitempty"`
	Transcript string    `json:"transcript"`
	Upvotes    int       `json:"upvotes"`
	Flags      int       `json:"flags"`
	Clear      int       `json:"clear"`
	Correct    int       `json:"correct"`
	Concise    int       `json:"concise"`
	AuthorID   int64     `json:"authorId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// VideoKind is the playback strategy for a reply video.
type VideoKind string

const (
	VideoYouTube VideoKind = "youtube"
	VideoHTML5   VideoKind = "html5"
	VideoLink    VideoKind = "link"
)

// Video is the classified playback information for a video reference.
type Video struct {
	Kind        VideoKind `json:"kind"`
	PlayableRef string    `json:"playableRef"`
}

// ReplyView is a reply annotated for the requesting visitor.
type ReplyView struct {
	Reply
	QScore   int         `json:"qscore"`
	Video    Video       `json:"video"`
	MyVotes  []Dimension `json:"myVotes"`
	Reported bool        `json:"reported"`
}

// PostDetail is the API response for a single post.
type PostDetail struct {
	Post
	TagList             []string    `json:"tagList"`
	Replies             []ReplyView `json:"replies"`
	QAvg                *float64    `json:"qAvg"`
	MinutesToFirstReply *int        `json:"minutesToFirstReply"`
}
