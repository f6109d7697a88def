package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mcoot/classgold/internal/metrics"
	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/storage"
)

// Store owns the shop catalog for each owner
type Store struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new catalog Store
func New(storage storage.Storage, logger *slog.Logger) *Store {
	return &Store{
		storage: storage,
		logger:  logger.With(slog.String("component", "catalog")),
	}
}

// GetCatalog returns the owner's current catalog.
// A missing or malformed record is replaced by the default seed, which is persisted before returning.
func (s *Store) GetCatalog(ctx context.Context, owner model.OwnerRef) (*model.Catalog, error) {
	catalog, err := s.storage.GetCatalog(ctx, owner)
	switch {
	case err == nil && catalog.Valid():
		return catalog, nil
	case err == nil:
		return s.reseed(ctx, owner, "invalid")
	case errors.Is(err, model.ErrCatalogNotFound):
		return s.reseed(ctx, owner, "absent")
	case errors.Is(err, model.ErrCatalogCorrupt):
		return s.reseed(ctx, owner, "corrupt")
	default:
		return nil, err
	}
}

func (s *Store) reseed(ctx context.Context, owner model.OwnerRef, reason string) (*model.Catalog, error) {
	seed := DefaultCatalog()
	if err := s.storage.SaveCatalog(ctx, owner, seed); err != nil {
		s.logger.Error("failed to seed catalog",
			slog.String("owner", string(owner)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	level := slog.LevelInfo
	if reason != "absent" {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "catalog seeded",
		slog.String("owner", string(owner)),
		slog.String("reason", reason),
	)
	metrics.RecordReseed(reason)

	return seed, nil
}

// FindItem searches every tier of the owner's current catalog
func (s *Store) FindItem(ctx context.Context, owner model.OwnerRef, itemID string) (*model.Item, error) {
	catalog, err := s.GetCatalog(ctx, owner)
	if err != nil {
		return nil, err
	}

	item := catalog.FindItem(itemID)
	if item == nil {
		return nil, model.ErrItemNotFound
	}
	found := *item
	return &found, nil
}

// UpdatePrice sets the price of an item and persists the whole catalog
func (s *Store) UpdatePrice(ctx context.Context, owner model.OwnerRef, itemID string, price int) (*model.Item, error) {
	if price < 0 {
		return nil, model.ErrInvalidPrice
	}

	catalog, err := s.GetCatalog(ctx, owner)
	if err != nil {
		return nil, err
	}

	item := catalog.FindItem(itemID)
	if item == nil {
		return nil, model.ErrItemNotFound
	}

	old := item.Price
	item.Price = price
	if err := s.storage.SaveCatalog(ctx, owner, catalog); err != nil {
		return nil, err
	}

	s.logger.Info("item price updated",
		slog.String("owner", string(owner)),
		slog.String("item_id", itemID),
		slog.Int("old_price", old),
		slog.Int("new_price", price),
	)
	metrics.RecordPriceUpdate()

	updated := *item
	return &updated, nil
}

// ParsePrice converts user input into a price, rejecting anything that is not a non-negative integer
func ParsePrice(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	price, err := strconv.Atoi(raw)
	if err != nil || price < 0 {
		return 0, model.ErrInvalidPrice
	}
	return price, nil
}

// ResolveOwner decides whose catalog an account shops from.
// Teachers own their catalog; students use the first teacher registered for their class,
// falling back to the global catalog.
func (s *Store) ResolveOwner(ctx context.Context, account *model.Account) (model.OwnerRef, error) {
	if account.IsTeacher() {
		return model.OwnerRef(account.ID), nil
	}

	roster, err := s.storage.ListAccounts(ctx)
	if err != nil {
		return "", err
	}
	for _, a := range roster {
		if a.IsTeacher() && a.ClassName == account.ClassName {
			return model.OwnerRef(a.ID), nil
		}
	}
	return model.GlobalOwner, nil
}
