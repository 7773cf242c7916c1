package entity

// LeaderboardEntry is one ranked wallet from the leaderboard API. Only
// rank and wallet are guaranteed; the rest depends on the response
// generation.
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	Wallet     string  `json:"wallet"`
	Username   string  `json:"username,omitempty"`
	TotalSpent float64 `json:"totalSpent,omitempty"`
	TotalPacks int     `json:"totalPacks,omitempty"`
}

// Leaderboard types accepted by the leaderboard API.
const (
	LeaderboardTotal  = "total"
	LeaderboardWeekly = "weekly"
)
