package leaderboard

import (
	"context"
	"log/slog"

	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/storage"
)

// StudentActivity is a student's history as shown to their teacher
type StudentActivity struct {
	AccountID model.AccountID
	Name      string
	Balance   int
	Inventory []model.InventoryEntry
	Activity  []model.ActivityEntry
}

// Service builds class views from the stored roster
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new leaderboard Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "leaderboard")),
	}
}

// Leaderboard returns the ranked students of a class with self flagged
func (s *Service) Leaderboard(ctx context.Context, className string, self model.AccountID) ([]model.LeaderboardEntry, error) {
	roster, err := s.storage.ListAccounts(ctx)
	if err != nil {
		s.logger.Error("failed to load roster", slog.String("error", err.Error()))
		return nil, err
	}
	return Project(roster, className, self), nil
}

// Activity returns every student of a class in roster order with their history
func (s *Service) Activity(ctx context.Context, className string) ([]StudentActivity, error) {
	roster, err := s.storage.ListAccounts(ctx)
	if err != nil {
		s.logger.Error("failed to load roster", slog.String("error", err.Error()))
		return nil, err
	}

	result := make([]StudentActivity, 0)
	for _, a := range roster {
		if !a.IsStudent() || a.ClassName != className {
			continue
		}
		result = append(result, StudentActivity{
			AccountID: a.ID,
			Name:      a.Name,
			Balance:   a.Balance,
			Inventory: a.Inventory,
			Activity:  a.Activity,
		})
	}
	return result, nil
}
