package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/classgold/internal/dependencies/clock"
	"github.com/mcoot/classgold/internal/dependencies/random"
	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidRole        = errors.New("role must be student or teacher")
)

const tokenLength = 32

// Session is the authenticated identity passed to request handlers.
// Sessions are immutable snapshots; Update and Refresh replace the stored session.
type Session struct {
	Token     string
	AccountID model.AccountID
	Account   model.Account
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewAccount holds registration details
type NewAccount struct {
	Username  string
	Password  string
	Name      string
	Role      model.Role
	ClassName string
}

// Service handles authentication and session management
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new AuthService
func New(storage storage.Storage, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		random:          random,
		logger:          logger.With(slog.String("component", "auth")),
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// Register creates an account with credentials and logs it in
func (s *Service) Register(ctx context.Context, req NewAccount) (*Session, error) {
	if !model.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	// Check if username exists
	_, err := s.storage.GetCredentialsByUsername(ctx, req.Username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	accountID := model.AccountID(uuid.NewString())
	now := s.clock.Now()

	account := &model.Account{
		ID:        accountID,
		Username:  req.Username,
		Name:      req.Name,
		Role:      req.Role,
		ClassName: req.ClassName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	creds := &model.Credentials{
		AccountID:    accountID,
		Username:     req.Username,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}

	// Claim the username before the account joins the roster
	if err := s.storage.SaveCredentials(ctx, creds); err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account registered",
		slog.String("account_id", string(accountID)),
		slog.String("role", string(req.Role)),
		slog.String("class", req.ClassName),
	)
	return s.createSession(account), nil
}

// Login authenticates an account and creates a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	creds, err := s.storage.GetCredentialsByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	account, err := s.storage.GetAccount(ctx, creds.AccountID)
	if err != nil {
		return nil, err
	}

	return s.createSession(account), nil
}

// Logout removes a session
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// Refresh reloads the session's account from storage after a mutation
func (s *Service) Refresh(ctx context.Context, token string) (*Session, error) {
	current, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}

	account, err := s.storage.GetAccount(ctx, current.AccountID)
	if err != nil {
		return nil, err
	}

	return s.replace(current, account)
}

// Update stores an already-loaded account snapshot in the session
func (s *Service) Update(token string, account *model.Account) (*Session, error) {
	current, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}
	if current.AccountID != account.ID {
		return nil, ErrInvalidSession
	}
	return s.replace(current, account)
}

func (s *Service) replace(current *Session, account *model.Account) (*Session, error) {
	next := *current
	next.Account = *account.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[current.Token]; !ok {
		return nil, ErrInvalidSession
	}
	s.sessions[current.Token] = &next
	return &next, nil
}

// createSession creates a new session for an account
func (s *Service) createSession(account *model.Account) *Session {
	token := "sess_" + s.random.String(tokenLength, random.TokenAlphabet)
	now := s.clock.Now()

	session := &Session{
		Token:     token,
		AccountID: account.ID,
		Account:   *account.Clone(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
