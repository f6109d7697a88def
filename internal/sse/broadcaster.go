package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/classgold/internal/model"
)

// EventLeaderboard tells clients a class leaderboard has changed and should be refetched
const EventLeaderboard = "leaderboard"

// LeaderboardChange is the payload of a leaderboard event
type LeaderboardChange struct {
	ClassName string             `json:"class"`
	AccountID model.AccountID    `json:"account_id"`
	Balance   int                `json:"balance"`
	Reason    model.ActivityKind `json:"reason"`
}

// Broadcaster publishes domain changes to class hubs
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// BalanceChanged notifies watchers of the account's class.
// Classes nobody is watching are skipped.
func (b *Broadcaster) BalanceChanged(account *model.Account, reason model.ActivityKind) {
	if b == nil || !account.IsStudent() {
		return
	}
	hub := b.hubManager.GetHub(account.ClassName)
	if hub == nil {
		return
	}

	data, err := json.Marshal(LeaderboardChange{
		ClassName: account.ClassName,
		AccountID: account.ID,
		Balance:   account.Balance,
		Reason:    reason,
	})
	if err != nil {
		b.logger.Error("sse failed to encode leaderboard change", slog.String("error", err.Error()))
		return
	}
	hub.BroadcastEvent(EventLeaderboard, string(data))
}
