package shop

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/classgold/internal/dependencies/clock"
	"github.com/mcoot/classgold/internal/metrics"
	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/services/catalog"
	"github.com/mcoot/classgold/internal/storage"
)

// OutcomeKind is the result of a purchase attempt
type OutcomeKind string

const (
	OutcomePurchased         OutcomeKind = "purchased"
	OutcomeItemRemoved       OutcomeKind = "item_removed"
	OutcomePriceChanged      OutcomeKind = "price_changed"
	OutcomeInsufficientFunds OutcomeKind = "insufficient_funds"
)

// ItemClaim is the item as the client last saw it.
// The price is a claim to be re-verified, never trusted.
type ItemClaim struct {
	ID    string
	Price int
}

// Outcome describes what happened to a purchase attempt
type Outcome struct {
	Kind OutcomeKind

	// Account is the updated account, set only when Kind is OutcomePurchased
	Account *model.Account

	// Item is the authoritative item, nil when it was removed
	Item *model.Item
}

// Err returns the sentinel error for a blocked purchase, or nil
func (o *Outcome) Err() error {
	switch o.Kind {
	case OutcomeItemRemoved:
		return model.ErrItemRemoved
	case OutcomePriceChanged:
		return model.ErrPriceChanged
	case OutcomeInsufficientFunds:
		return model.ErrInsufficientFunds
	default:
		return nil
	}
}

// Reconciler validates purchases against the authoritative catalog
type Reconciler struct {
	storage storage.Storage
	catalog *catalog.Store
	clock   clock.Clock
	logger  *slog.Logger
}

// NewReconciler creates a new purchase Reconciler
func NewReconciler(storage storage.Storage, catalog *catalog.Store, clock clock.Clock, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		storage: storage,
		catalog: catalog,
		clock:   clock,
		logger:  logger.With(slog.String("component", "shop")),
	}
}

// Purchase buys claim.ID for the account if the claimed price still matches the
// owner's catalog and the balance covers it. The debit and inventory append are
// applied in a single atomic account update.
// A non-nil error means the store failed; blocked purchases are reported through the Outcome.
func (r *Reconciler) Purchase(ctx context.Context, accountID model.AccountID, owner model.OwnerRef, claim ItemClaim) (*Outcome, error) {
	item, err := r.catalog.FindItem(ctx, owner, claim.ID)
	if errors.Is(err, model.ErrItemNotFound) {
		return r.finish(accountID, &Outcome{Kind: OutcomeItemRemoved}), nil
	}
	if err != nil {
		return nil, err
	}

	if item.Price != claim.Price {
		return r.finish(accountID, &Outcome{Kind: OutcomePriceChanged, Item: item}), nil
	}

	now := r.clock.Now()
	account, err := r.storage.UpdateAccount(ctx, accountID, func(a *model.Account) error {
		if !a.IsStudent() {
			return model.ErrNotStudent
		}
		if a.Balance < item.Price {
			return model.ErrInsufficientFunds
		}
		a.Balance -= item.Price
		a.Inventory = append(a.Inventory, model.InventoryEntry{
			ItemID:      item.ID,
			Name:        item.Name,
			PurchasedAt: now,
		})
		a.Activity = append(a.Activity, model.ActivityEntry{
			Kind:   model.ActivityPurchase,
			Amount: -item.Price,
			ItemID: item.ID,
			At:     now,
		})
		a.UpdatedAt = now
		return nil
	})
	if errors.Is(err, model.ErrInsufficientFunds) {
		return r.finish(accountID, &Outcome{Kind: OutcomeInsufficientFunds, Item: item}), nil
	}
	if err != nil {
		r.logger.Error("purchase failed",
			slog.String("account_id", string(accountID)),
			slog.String("item_id", claim.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	metrics.RecordGold(string(model.ActivityPurchase), item.Price)
	return r.finish(accountID, &Outcome{Kind: OutcomePurchased, Account: account, Item: item}), nil
}

func (r *Reconciler) finish(accountID model.AccountID, outcome *Outcome) *Outcome {
	metrics.RecordPurchase(string(outcome.Kind))

	attrs := []any{
		slog.String("account_id", string(accountID)),
		slog.String("outcome", string(outcome.Kind)),
	}
	if outcome.Item != nil {
		attrs = append(attrs, slog.String("item_id", outcome.Item.ID), slog.Int("price", outcome.Item.Price))
	}
	r.logger.Info("purchase attempted", attrs...)

	return outcome
}
