package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/classgold/internal/api/apierr"
	"github.com/mcoot/classgold/internal/api/middleware"
	"github.com/mcoot/classgold/internal/api/request"
	"github.com/mcoot/classgold/internal/api/response"
	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/services/auth"
	"github.com/mcoot/classgold/internal/services/catalog"
	"github.com/mcoot/classgold/internal/services/shop"
	"github.com/mcoot/classgold/internal/sse"
)

// ShopHandler handles catalog and purchase endpoints
type ShopHandler struct {
	authService *auth.Service
	catalog     *catalog.Store
	reconciler  *shop.Reconciler
	broadcaster *sse.Broadcaster
	logger      *slog.Logger
}

// NewShopHandler creates a new shop handler
func NewShopHandler(authService *auth.Service, catalog *catalog.Store, reconciler *shop.Reconciler, broadcaster *sse.Broadcaster, logger *slog.Logger) *ShopHandler {
	return &ShopHandler{
		authService: authService,
		catalog:     catalog,
		reconciler:  reconciler,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Catalog handles GET /api/v1/shop/catalog
func (h *ShopHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	owner, err := h.catalog.ResolveOwner(r.Context(), &session.Account)
	if err != nil {
		WriteError(w, err)
		return
	}

	c, err := h.catalog.GetCatalog(r.Context(), owner)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CatalogFromModel(owner, c))
}

// Purchase handles POST /api/v1/shop/purchase.
// Blocked purchases return the fresh catalog so the client can reload its view.
func (h *ShopHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.PurchaseRequest
	if err := decodeRequest(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	owner, err := h.catalog.ResolveOwner(r.Context(), &session.Account)
	if err != nil {
		WriteError(w, err)
		return
	}

	outcome, err := h.reconciler.Purchase(r.Context(), session.AccountID, owner, shop.ItemClaim{
		ID:    req.ItemID,
		Price: *req.Price,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	if outcome.Kind != shop.OutcomePurchased {
		// The client acted on stale data; reload the session's view of the account too
		if _, err := h.authService.Refresh(r.Context(), session.Token); err != nil {
			h.logger.Warn("failed to refresh session after rejected purchase", slog.String("error", err.Error()))
		}

		fresh, err := h.catalog.GetCatalog(r.Context(), owner)
		if err != nil {
			WriteError(w, outcome.Err())
			return
		}
		WriteError(w, apierr.WithDetails(outcome.Err(), response.PurchaseRejectionFromOutcome(outcome, owner, fresh)))
		return
	}

	if _, err := h.authService.Update(session.Token, outcome.Account); err != nil {
		h.logger.Warn("failed to refresh session after purchase", slog.String("error", err.Error()))
	}
	h.broadcaster.BalanceChanged(outcome.Account, model.ActivityPurchase)

	response.JSON(w, http.StatusOK, response.PurchaseResponse{
		Outcome: string(outcome.Kind),
		Account: response.AccountFromModel(outcome.Account),
		Item:    response.ItemFromModel(outcome.Item),
	})
}

// UpdatePrice handles PATCH /api/v1/shop/items/{id}/price.
// Teachers edit their own catalog only.
func (h *ShopHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	itemID := mux.Vars(r)["id"]

	var req request.UpdatePriceRequest
	if err := decodeRequest(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	price, err := catalog.ParsePrice(rawPrice(req.Price))
	if err != nil {
		WriteError(w, err)
		return
	}

	item, err := h.catalog.UpdatePrice(r.Context(), model.OwnerRef(session.AccountID), itemID, price)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ItemFromModel(item))
}

// rawPrice returns the text of a JSON string, or the literal of any other JSON value
func rawPrice(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
