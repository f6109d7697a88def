package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/classgold/internal/api/middleware"
	"github.com/mcoot/classgold/internal/api/request"
	"github.com/mcoot/classgold/internal/api/response"
	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/services/auth"
	"github.com/mcoot/classgold/internal/services/gamebridge"
	"github.com/mcoot/classgold/internal/sse"
)

// GameHandler relays messages from the embedded game
type GameHandler struct {
	authService *auth.Service
	bridge      *gamebridge.Bridge
	broadcaster *sse.Broadcaster
	logger      *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(authService *auth.Service, bridge *gamebridge.Bridge, broadcaster *sse.Broadcaster, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		authService: authService,
		bridge:      bridge,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Start handles POST /api/v1/games
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	game := h.bridge.Start(r.Context(), session.AccountID)
	response.Created(w, response.GameSessionFromModel(game))
}

// Message handles POST /api/v1/games/{id}/messages
func (h *GameHandler) Message(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	gameID := mux.Vars(r)["id"]

	var req request.GameMessageRequest
	if err := decodeRequest(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.bridge.Handle(r.Context(), session.AccountID, gameID, req.Message)
	if err != nil {
		WriteError(w, err)
		return
	}

	if result.Account != nil {
		if _, err := h.authService.Update(session.Token, result.Account); err != nil {
			h.logger.Warn("failed to refresh session after credit", slog.String("error", err.Error()))
		}
		h.broadcaster.BalanceChanged(result.Account, model.ActivityGameReward)
	}

	response.JSON(w, http.StatusOK, response.GameMessageResponseFromResult(result))
}
