package storage

import (
	"context"

	"github.com/mcoot/classgold/internal/model"
)

// AccountMutator modifies an account inside an atomic update.
// Returning an error aborts the update without writing.
type AccountMutator func(account *model.Account) error

// Storage defines the interface for data persistence
type Storage interface {
	// Catalog operations
	GetCatalog(ctx context.Context, owner model.OwnerRef) (*model.Catalog, error)
	SaveCatalog(ctx context.Context, owner model.OwnerRef, catalog *model.Catalog) error

	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]*model.Account, error)
	UpdateAccount(ctx context.Context, id model.AccountID, fn AccountMutator) (*model.Account, error)

	// Credential operations
	// SaveCredentials claims creds.Username for creds.AccountID atomically.
	// Returns model.ErrUsernameTaken if another account holds the username.
	SaveCredentials(ctx context.Context, creds *model.Credentials) error
	GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error)
}
