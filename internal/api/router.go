package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/classgold/internal/api/handler"
	"github.com/mcoot/classgold/internal/api/middleware"
	"github.com/mcoot/classgold/internal/metrics"
	httpmw "github.com/mcoot/classgold/internal/middleware"
	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/services/auth"
	"github.com/mcoot/classgold/internal/services/catalog"
	"github.com/mcoot/classgold/internal/services/gamebridge"
	"github.com/mcoot/classgold/internal/services/leaderboard"
	"github.com/mcoot/classgold/internal/services/shop"
	"github.com/mcoot/classgold/internal/services/wallet"
	"github.com/mcoot/classgold/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	AuthService        *auth.Service
	CatalogStore       *catalog.Store
	Reconciler         *shop.Reconciler
	LeaderboardService *leaderboard.Service
	WalletService      *wallet.Service
	GameBridge         *gamebridge.Bridge
	HubManager         *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	broadcaster := sse.NewBroadcaster(cfg.HubManager, cfg.Logger)

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AuthService, cfg.WalletService, broadcaster, cfg.Logger)
	shopHandler := handler.NewShopHandler(cfg.AuthService, cfg.CatalogStore, cfg.Reconciler, broadcaster, cfg.Logger)
	classHandler := handler.NewClassHandler(cfg.LeaderboardService, cfg.HubManager)
	gameHandler := handler.NewGameHandler(cfg.AuthService, cfg.GameBridge, broadcaster, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	studentOnly := middleware.RequireRole(model.RoleStudent)
	teacherOnly := middleware.RequireRole(model.RoleTeacher)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(httpmw.Logging(cfg.Logger))
	api.Use(metrics.Instrument)

	// Account routes (no auth required for registering/logging in)
	api.HandleFunc("/accounts/register", accountHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/accounts/login", accountHandler.Login).Methods(http.MethodPost)

	accounts := api.PathPrefix("/accounts").Subrouter()
	accounts.Use(authMiddleware)
	accounts.HandleFunc("/logout", accountHandler.Logout).Methods(http.MethodPost)
	accounts.HandleFunc("/me", accountHandler.Me).Methods(http.MethodGet)

	// Shop routes
	shopRoutes := api.PathPrefix("/shop").Subrouter()
	shopRoutes.Use(authMiddleware)
	shopRoutes.HandleFunc("/catalog", shopHandler.Catalog).Methods(http.MethodGet)
	shopRoutes.Handle("/purchase", studentOnly(http.HandlerFunc(shopHandler.Purchase))).Methods(http.MethodPost)
	shopRoutes.Handle("/items/{id}/price", teacherOnly(http.HandlerFunc(shopHandler.UpdatePrice))).Methods(http.MethodPatch)

	// Class routes
	classes := api.PathPrefix("/classes/{class}").Subrouter()
	classes.Use(authMiddleware)
	classes.HandleFunc("/leaderboard", classHandler.Leaderboard).Methods(http.MethodGet)
	classes.Handle("/activity", teacherOnly(http.HandlerFunc(classHandler.Activity))).Methods(http.MethodGet)
	classes.HandleFunc("/events", classHandler.Events).Methods(http.MethodGet)

	// Game routes (students only)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware, studentOnly)
	games.HandleFunc("", gameHandler.Start).Methods(http.MethodPost)
	games.HandleFunc("/{id}/messages", gameHandler.Message).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
