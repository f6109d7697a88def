package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/classgold/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func testCatalog() *model.Catalog {
	return &model.Catalog{Tiers: map[model.Tier][]model.Item{
		model.TierMicro:  {{ID: "s1", Name: "Sticker", Price: 10}},
		model.TierMedium: {{ID: "m1", Name: "Homework pass", Price: 200}},
		model.TierLarge:  {{ID: "l1", Name: "Class party", Price: 900}},
	}}
}

// Catalog tests

func (s *StorageSuite) TestSaveAndGetCatalog() {
	err := s.storage.SaveCatalog(s.ctx, "teacher-1", testCatalog())
	s.Require().NoError(err)

	retrieved, err := s.storage.GetCatalog(s.ctx, "teacher-1")
	s.Require().NoError(err)
	s.Equal(200, retrieved.FindItem("m1").Price)
}

func (s *StorageSuite) TestGetCatalogNotFound() {
	_, err := s.storage.GetCatalog(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrCatalogNotFound)
}

func (s *StorageSuite) TestCatalogsAreScopedByOwner() {
	_ = s.storage.SaveCatalog(s.ctx, "teacher-1", testCatalog())

	_, err := s.storage.GetCatalog(s.ctx, model.GlobalOwner)
	s.ErrorIs(err, model.ErrCatalogNotFound)
}

func (s *StorageSuite) TestGetCatalogReturnsCopy() {
	_ = s.storage.SaveCatalog(s.ctx, "teacher-1", testCatalog())

	first, _ := s.storage.GetCatalog(s.ctx, "teacher-1")
	first.FindItem("m1").Price = 1

	second, err := s.storage.GetCatalog(s.ctx, "teacher-1")
	s.Require().NoError(err)
	s.Equal(200, second.FindItem("m1").Price)
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{ID: "a1", Name: "Alice", Role: model.RoleStudent, Balance: 50}

	err := s.storage.SaveAccount(s.ctx, account)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAccount(s.ctx, "a1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.Name)
	s.Equal(50, retrieved.Balance)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "missing")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestListAccountsPreservesRegistrationOrder() {
	for _, id := range []model.AccountID{"c", "a", "b"} {
		_ = s.storage.SaveAccount(s.ctx, &model.Account{ID: id})
	}
	// Re-saving must not move the account
	_ = s.storage.SaveAccount(s.ctx, &model.Account{ID: "c", Balance: 5})

	accounts, err := s.storage.ListAccounts(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(accounts, 3)
	s.Equal(model.AccountID("c"), accounts[0].ID)
	s.Equal(5, accounts[0].Balance)
	s.Equal(model.AccountID("a"), accounts[1].ID)
	s.Equal(model.AccountID("b"), accounts[2].ID)
}

func (s *StorageSuite) TestUpdateAccountAppliesMutation() {
	_ = s.storage.SaveAccount(s.ctx, &model.Account{ID: "a1", Balance: 100})

	updated, err := s.storage.UpdateAccount(s.ctx, "a1", func(a *model.Account) error {
		a.Balance -= 40
		return nil
	})
	s.Require().NoError(err)
	s.Equal(60, updated.Balance)

	stored, _ := s.storage.GetAccount(s.ctx, "a1")
	s.Equal(60, stored.Balance)
}

func (s *StorageSuite) TestUpdateAccountAbortsOnError() {
	_ = s.storage.SaveAccount(s.ctx, &model.Account{ID: "a1", Balance: 100})
	errAbort := errors.New("abort")

	_, err := s.storage.UpdateAccount(s.ctx, "a1", func(a *model.Account) error {
		a.Balance = 0
		return errAbort
	})
	s.ErrorIs(err, errAbort)

	stored, _ := s.storage.GetAccount(s.ctx, "a1")
	s.Equal(100, stored.Balance)
}

func (s *StorageSuite) TestUpdateAccountNotFound() {
	_, err := s.storage.UpdateAccount(s.ctx, "missing", func(a *model.Account) error { return nil })
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestUpdateAccountSerializesConcurrentWriters() {
	_ = s.storage.SaveAccount(s.ctx, &model.Account{ID: "a1", Balance: 0})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.storage.UpdateAccount(s.ctx, "a1", func(a *model.Account) error {
				a.Balance++
				return nil
			})
		}()
	}
	wg.Wait()

	stored, _ := s.storage.GetAccount(s.ctx, "a1")
	s.Equal(50, stored.Balance)
}

// Credential tests

func (s *StorageSuite) TestSaveAndGetCredentialsByUsername() {
	err := s.storage.SaveCredentials(s.ctx, &model.Credentials{
		AccountID:    "a1",
		Username:     "alice",
		PasswordHash: "hash",
	})
	s.Require().NoError(err)

	creds, err := s.storage.GetCredentialsByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.AccountID("a1"), creds.AccountID)
}

func (s *StorageSuite) TestGetCredentialsByUsernameNotFound() {
	_, err := s.storage.GetCredentialsByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestSaveCredentialsRejectsClaimedUsername() {
	s.Require().NoError(s.storage.SaveCredentials(s.ctx, &model.Credentials{
		AccountID: "a1", Username: "alice", PasswordHash: "first",
	}))

	err := s.storage.SaveCredentials(s.ctx, &model.Credentials{
		AccountID: "a2", Username: "alice", PasswordHash: "second",
	})
	s.ErrorIs(err, model.ErrUsernameTaken)

	creds, err := s.storage.GetCredentialsByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.AccountID("a1"), creds.AccountID)
	s.Equal("first", creds.PasswordHash)
}

func (s *StorageSuite) TestSaveCredentialsAllowsOwnerToResave() {
	s.Require().NoError(s.storage.SaveCredentials(s.ctx, &model.Credentials{
		AccountID: "a1", Username: "alice", PasswordHash: "old",
	}))
	s.Require().NoError(s.storage.SaveCredentials(s.ctx, &model.Credentials{
		AccountID: "a1", Username: "alice", PasswordHash: "new",
	}))

	creds, err := s.storage.GetCredentialsByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("new", creds.PasswordHash)
}

func (s *StorageSuite) TestConcurrentUsernameClaimsHaveOneWinner() {
	const claimants = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := range claimants {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.storage.SaveCredentials(s.ctx, &model.Credentials{
				AccountID: model.AccountID(fmt.Sprintf("a%d", i)), Username: "alice",
			})
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
				return
			}
			s.ErrorIs(err, model.ErrUsernameTaken)
		}()
	}
	wg.Wait()

	s.Equal(1, winners)
}
