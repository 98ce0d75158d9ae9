package model

// StatsResponse is the API response for board-wide counts.
type StatsResponse struct {
	TotalPosts       int            `json:"totalPosts"`
	TotalReplies     int            `json:"totalReplies"`
	TotalVotes       int            `json:"totalVotes"`
	TotalReports     int            `json:"totalReports"`
	TotalUsers       int            `json:"totalUsers"`
	VotesByDimension map[string]int `json:"votesByDimension"`
}
