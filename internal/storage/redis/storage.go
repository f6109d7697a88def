package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Catalog operations

func (s *Storage) GetCatalog(ctx context.Context, owner model.OwnerRef) (*model.Catalog, error) {
	data, err := s.client.Get(ctx, catalogKey(owner)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCatalogNotFound
		}
		return nil, err
	}

	var catalog model.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCatalogCorrupt, err)
	}
	return &catalog, nil
}

func (s *Storage) SaveCatalog(ctx context.Context, owner model.OwnerRef, catalog *model.Catalog) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, catalogKey(owner), data, 0).Err()
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	seq, err := s.client.Incr(ctx, rosterSeqKey()).Result()
	if err != nil {
		return err
	}

	// NX keeps the original registration position on re-save
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, accountKey(account.ID), data, 0)
	pipe.ZAddNX(ctx, rosterIndexKey(), redis.Z{Score: float64(seq), Member: string(account.ID)})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	ids, err := s.client.ZRange(ctx, rosterIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Account{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = accountKey(model.AccountID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	accounts := make([]*model.Account, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var account model.Account
		if err := json.Unmarshal([]byte(val.(string)), &account); err != nil {
			continue // Skip invalid data
		}
		accounts = append(accounts, &account)
	}

	return accounts, nil
}

// UpdateAccount runs fn against the stored account inside WATCH/MULTI.
// fn may run more than once when another writer wins the race.
func (s *Storage) UpdateAccount(ctx context.Context, id model.AccountID, fn storage.AccountMutator) (*model.Account, error) {
	key := accountKey(id)

	for attempt := 0; attempt < s.cfg.MaxTxRetries; attempt++ {
		var updated *model.Account

		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return model.ErrAccountNotFound
				}
				return err
			}

			var account model.Account
			if err := json.Unmarshal(data, &account); err != nil {
				return err
			}

			if err := fn(&account); err != nil {
				return err
			}

			out, err := json.Marshal(&account)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, out, 0)
				return nil
			})
			if err == nil {
				updated = &account
			}
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	return nil, model.ErrConcurrentUpdate
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	// The username index is the claim; SETNX makes it first-writer-wins
	claimed, err := s.client.SetNX(ctx, usernameIndexKey(creds.Username), string(creds.AccountID), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		owner, err := s.client.Get(ctx, usernameIndexKey(creds.Username)).Result()
		if err != nil {
			return err
		}
		if owner != string(creds.AccountID) {
			return model.ErrUsernameTaken
		}
	}

	return s.client.Set(ctx, credentialsKey(creds.AccountID), data, 0).Err()
}

func (s *Storage) GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error) {
	// Look up account ID from username index
	accountID, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	data, err := s.client.Get(ctx, credentialsKey(model.AccountID(accountID))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var creds model.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}
