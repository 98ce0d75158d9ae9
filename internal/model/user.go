package model

import "time"

// User is a board member. Posts and replies reference their author explicitly.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
