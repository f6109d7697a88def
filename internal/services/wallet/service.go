package wallet

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/classgold/internal/dependencies/clock"
	"github.com/mcoot/classgold/internal/metrics"
	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/storage"
)

// errNoGrant aborts the update when the account is not owed a welcome grant
var errNoGrant = errors.New("no welcome grant due")

// Service credits gold to student accounts
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new wallet Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "wallet")),
	}
}

// ClaimWelcomeGrant credits model.WelcomeGrant to a student the first time it is called.
// The returned bool reports whether the grant was applied by this call.
// Teachers and students already granted are returned unchanged.
func (s *Service) ClaimWelcomeGrant(ctx context.Context, accountID model.AccountID) (*model.Account, bool, error) {
	now := s.clock.Now()
	account, err := s.storage.UpdateAccount(ctx, accountID, func(a *model.Account) error {
		if !a.IsStudent() || a.WelcomeGranted {
			return errNoGrant
		}
		a.Balance += model.WelcomeGrant
		a.WelcomeGranted = true
		a.Activity = append(a.Activity, model.ActivityEntry{
			Kind:   model.ActivityWelcomeGrant,
			Amount: model.WelcomeGrant,
			At:     now,
		})
		a.UpdatedAt = now
		return nil
	})
	if errors.Is(err, errNoGrant) {
		account, err = s.storage.GetAccount(ctx, accountID)
		if err != nil {
			return nil, false, err
		}
		return account, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	metrics.RecordGold(string(model.ActivityWelcomeGrant), model.WelcomeGrant)
	s.logger.Info("welcome grant applied",
		slog.String("account_id", string(accountID)),
		slog.Int("balance", account.Balance),
	)
	return account, true, nil
}

// Credit adds a game reward to a student's balance
func (s *Service) Credit(ctx context.Context, accountID model.AccountID, amount int) (*model.Account, error) {
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}

	now := s.clock.Now()
	account, err := s.storage.UpdateAccount(ctx, accountID, func(a *model.Account) error {
		if !a.IsStudent() {
			return model.ErrNotStudent
		}
		a.Balance += amount
		a.Activity = append(a.Activity, model.ActivityEntry{
			Kind:   model.ActivityGameReward,
			Amount: amount,
			At:     now,
		})
		a.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordGold(string(model.ActivityGameReward), amount)
	s.logger.Info("gold credited",
		slog.String("account_id", string(accountID)),
		slog.Int("amount", amount),
		slog.Int("balance", account.Balance),
	)
	return account, nil
}
