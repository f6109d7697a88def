package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/classgold/internal/api/middleware"
	"github.com/mcoot/classgold/internal/api/request"
	"github.com/mcoot/classgold/internal/api/response"
	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/services/auth"
	"github.com/mcoot/classgold/internal/services/wallet"
	"github.com/mcoot/classgold/internal/sse"
)

// AccountHandler handles account and session endpoints
type AccountHandler struct {
	authService *auth.Service
	wallet      *wallet.Service
	broadcaster *sse.Broadcaster
	logger      *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(authService *auth.Service, wallet *wallet.Service, broadcaster *sse.Broadcaster, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		authService: authService,
		wallet:      wallet,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Register handles POST /api/v1/accounts/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeRequest(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.authService.Register(r.Context(), auth.NewAccount{
		Username:  req.Username,
		Password:  req.Password,
		Name:      req.Name,
		Role:      model.Role(req.Role),
		ClassName: req.ClassName,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/accounts/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeRequest(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/v1/accounts/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	h.authService.Logout(session.Token)
	response.NoContent(w)
}

// Me handles GET /api/v1/accounts/me.
// Loading the panel applies a student's welcome grant the first time.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	account, granted, err := h.wallet.ClaimWelcomeGrant(r.Context(), session.AccountID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if _, err := h.authService.Update(session.Token, account); err != nil {
		WriteError(w, err)
		return
	}
	if granted {
		h.broadcaster.BalanceChanged(account, model.ActivityWelcomeGrant)
	}

	response.JSON(w, http.StatusOK, response.MeResponse{
		Account:             response.AccountFromModel(account),
		WelcomeGrantApplied: granted,
	})
}
