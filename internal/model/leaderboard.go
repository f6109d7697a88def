package model

// LeaderboardEntry is a derived, ranked view of a student's balance
type LeaderboardEntry struct {
	Rank      int // 1-based
	AccountID AccountID
	Name      string
	Balance   int
	IsSelf    bool
}
