package gamebridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/classgold/internal/dependencies/clock"
	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/services/wallet"
)

// Session is a running game bound to the account that started it
type Session struct {
	ID        string
	AccountID model.AccountID
	StartedAt time.Time
	ExpiresAt time.Time
}

// Result is the effect of a handled message
type Result struct {
	Message Message
	Account *model.Account // Updated account after a credit, nil otherwise
	Closed  bool
}

// Config holds configuration for the game bridge
type Config struct {
	MaxCreditPerMessage int
	SessionTTL          time.Duration
}

// DefaultConfig returns default bridge configuration
func DefaultConfig() Config {
	return Config{
		MaxCreditPerMessage: 1000,
		SessionTTL:          2 * time.Hour,
	}
}

// Bridge accepts game messages for sessions it has started
type Bridge struct {
	wallet *wallet.Service
	clock  clock.Clock
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// New creates a new game Bridge
func New(wallet *wallet.Service, clock clock.Clock, cfg Config, logger *slog.Logger) *Bridge {
	defaults := DefaultConfig()
	if cfg.MaxCreditPerMessage == 0 {
		cfg.MaxCreditPerMessage = defaults.MaxCreditPerMessage
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = defaults.SessionTTL
	}
	return &Bridge{
		wallet:   wallet,
		clock:    clock,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "gamebridge")),
		sessions: make(map[string]*Session),
	}
}

// Start opens a game session for the account
func (b *Bridge) Start(ctx context.Context, accountID model.AccountID) *Session {
	now := b.clock.Now()
	session := &Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		StartedAt: now,
		ExpiresAt: now.Add(b.cfg.SessionTTL),
	}

	b.mu.Lock()
	b.sessions[session.ID] = session
	b.mu.Unlock()

	b.logger.Info("game session started",
		slog.String("session_id", session.ID),
		slog.String("account_id", string(accountID)),
	)
	s := *session
	return &s
}

// Handle applies a raw game message sent by accountID within sessionID
func (b *Bridge) Handle(ctx context.Context, accountID model.AccountID, sessionID, raw string) (*Result, error) {
	if _, err := b.session(accountID, sessionID); err != nil {
		return nil, err
	}

	msg, err := ParseMessage(raw)
	if err != nil {
		b.logger.Warn("rejected game message",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	switch msg.Kind {
	case MessageCloseGame:
		b.mu.Lock()
		delete(b.sessions, sessionID)
		b.mu.Unlock()
		b.logger.Info("game session closed", slog.String("session_id", sessionID))
		return &Result{Message: msg, Closed: true}, nil

	default:
		if msg.Amount > b.cfg.MaxCreditPerMessage {
			b.logger.Warn("game credit over limit",
				slog.String("session_id", sessionID),
				slog.String("message", msg.String()),
				slog.Int("limit", b.cfg.MaxCreditPerMessage),
			)
			return nil, ErrCreditLimit
		}
		account, err := b.wallet.Credit(ctx, accountID, msg.Amount)
		if err != nil {
			return nil, err
		}
		b.logger.Debug("game message applied",
			slog.String("session_id", sessionID),
			slog.String("message", msg.String()),
		)
		return &Result{Message: msg, Account: account}, nil
	}
}

// session returns the live session, checking that accountID owns it
func (b *Bridge) session(accountID model.AccountID, sessionID string) (*Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	session, ok := b.sessions[sessionID]
	if !ok {
		return nil, ErrUnknownGameSession
	}
	if b.clock.Now().After(session.ExpiresAt) {
		delete(b.sessions, sessionID)
		return nil, ErrUnknownGameSession
	}
	if session.AccountID != accountID {
		return nil, ErrSessionMismatch
	}
	return session, nil
}

// CleanExpiredSessions removes expired game sessions (call periodically)
func (b *Bridge) CleanExpiredSessions() {
	now := b.clock.Now()
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, session := range b.sessions {
		if now.After(session.ExpiresAt) {
			delete(b.sessions, id)
		}
	}
}
