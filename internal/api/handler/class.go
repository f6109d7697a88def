package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/classgold/internal/api/apierr"
	"github.com/mcoot/classgold/internal/api/middleware"
	"github.com/mcoot/classgold/internal/api/response"
	"github.com/mcoot/classgold/internal/services/auth"
	"github.com/mcoot/classgold/internal/services/leaderboard"
	"github.com/mcoot/classgold/internal/sse"
)

// ClassHandler handles per-class views
type ClassHandler struct {
	leaderboard *leaderboard.Service
	hubManager  *sse.HubManager
}

// NewClassHandler creates a new class handler
func NewClassHandler(leaderboard *leaderboard.Service, hubManager *sse.HubManager) *ClassHandler {
	return &ClassHandler{
		leaderboard: leaderboard,
		hubManager:  hubManager,
	}
}

// classFor returns the class in the path if the session belongs to it
func classFor(r *http.Request, session *auth.Session) (string, error) {
	className := mux.Vars(r)["class"]
	if session.Account.ClassName != className {
		return "", apierr.NewForbiddenError("Not a member of this class")
	}
	return className, nil
}

// Leaderboard handles GET /api/v1/classes/{class}/leaderboard
func (h *ClassHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	className, err := classFor(r, session)
	if err != nil {
		WriteError(w, err)
		return
	}

	entries, err := h.leaderboard.Leaderboard(r.Context(), className, session.AccountID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(className, entries))
}

// Activity handles GET /api/v1/classes/{class}/activity
func (h *ClassHandler) Activity(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	className, err := classFor(r, session)
	if err != nil {
		WriteError(w, err)
		return
	}

	students, err := h.leaderboard.Activity(r.Context(), className)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ClassActivityFromModel(className, students))
}

// Events handles GET /api/v1/classes/{class}/events (SSE)
func (h *ClassHandler) Events(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	className, err := classFor(r, session)
	if err != nil {
		WriteError(w, err)
		return
	}

	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(className), session.AccountID)
}
