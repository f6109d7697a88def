package memory

import (
	"context"
	"sync"

	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied on the way in and out so callers never share state with the store.
type Storage struct {
	mu sync.RWMutex

	catalogs      map[model.OwnerRef]*model.Catalog
	accounts      map[model.AccountID]*model.Account
	roster        []model.AccountID // registration order
	credentials   map[model.AccountID]*model.Credentials
	usernameIndex map[string]model.AccountID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		catalogs:      make(map[model.OwnerRef]*model.Catalog),
		accounts:      make(map[model.AccountID]*model.Account),
		credentials:   make(map[model.AccountID]*model.Credentials),
		usernameIndex: make(map[string]model.AccountID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Catalog operations

func (s *Storage) GetCatalog(ctx context.Context, owner model.OwnerRef) (*model.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	catalog, ok := s.catalogs[owner]
	if !ok {
		return nil, model.ErrCatalogNotFound
	}
	return catalog.Clone(), nil
}

func (s *Storage) SaveCatalog(ctx context.Context, owner model.OwnerRef, catalog *model.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogs[owner] = catalog.Clone()
	return nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.ID]; !exists {
		s.roster = append(s.roster, account.ID)
	}
	s.accounts[account.ID] = account.Clone()
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return account.Clone(), nil
}

func (s *Storage) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]*model.Account, 0, len(s.roster))
	for _, id := range s.roster {
		accounts = append(accounts, s.accounts[id].Clone())
	}
	return accounts, nil
}

func (s *Storage) UpdateAccount(ctx context.Context, id model.AccountID, fn storage.AccountMutator) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}

	s.accounts[id] = working.Clone()
	return working, nil
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner, ok := s.usernameIndex[creds.Username]; ok && owner != creds.AccountID {
		return model.ErrUsernameTaken
	}
	c := *creds
	s.credentials[creds.AccountID] = &c
	s.usernameIndex[creds.Username] = creds.AccountID
	return nil
}

func (s *Storage) GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	creds, ok := s.credentials[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	c := *creds
	return &c, nil
}
