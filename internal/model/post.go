package model

import "time"

// Post is a problem prompt posted to the board. Tags hold the canonical
// comma-joined tag list.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Course    string    `json:"course"`
	Tags      string    `json:"tags"`
	Prompt    string    `json:"prompt"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostStats is a post with the reply aggregates needed for ranking.
type PostStats struct {
	Post
	ReplyCount int
	ScoreSum   int // sum of clear+correct+concise over all replies
}

// SortMode selects the feed ordering.
type SortMode string

const (
	SortNewest  SortMode = "newest"
	SortReplies SortMode = "replies"
	SortQScore  SortMode = "qscore"
)

// PostFilter holds the feed query parameters.
type PostFilter struct {
	Search string   `json:"q"`
	Course string   `json:"course"`
	Tag    string   `json:"tag"`
	Sort   SortMode `json:"sort"`
}

// PostSummary is one ranked entry of the feed.
type PostSummary struct {
	Post
	TagList    []string `json:"tagList"`
	ReplyCount int      `json:"replyCount"`
	QAvg       *float64 `json:"qAvg"`
}

// FeedResponse is the API response for the feed listing.
type FeedResponse struct {
	Posts []PostSummary `json:"posts"`
	State PostFilter    `json:"state"`
}

// FeedDeltaResponse is the API response for polling new posts.
type FeedDeltaResponse struct {
	Posts         []PostSummary `json:"posts"`
	SyncTimestamp string        `json:"syncTimestamp"`
}
