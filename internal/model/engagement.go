package model

// Dimension is one of the three quality axes a reply can be endorsed on.
type Dimension string

const (
	DimensionClear   Dimension = "clear"
	DimensionCorrect Dimension = "correct"
	DimensionConcise Dimension = "concise"
)

// Dimensions lists the valid rating dimensions in display order.
var Dimensions = []Dimension{DimensionClear, DimensionCorrect, DimensionConcise}

// ParseDimension validates s against the fixed dimension whitelist.
func ParseDimension(s string) (Dimension, bool) {
	switch Dimension(s) {
	case DimensionClear, DimensionCorrect, DimensionConcise:
		return Dimension(s), true
	}
	return "", false
}

// ToggleResult reports which transition a toggle applied.
type ToggleResult string

const (
	ToggleAdded   ToggleResult = "added"
	ToggleRemoved ToggleResult = "removed"
)

// VoteKey identifies one active vote of a session.
type VoteKey struct {
	ReplyID   int64     `json:"replyId"`
	Dimension Dimension `json:"dimension"`
}
