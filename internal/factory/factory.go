package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/classgold/internal/config"
	"github.com/mcoot/classgold/internal/dependencies/clock"
	"github.com/mcoot/classgold/internal/dependencies/random"
	"github.com/mcoot/classgold/internal/services/auth"
	"github.com/mcoot/classgold/internal/services/catalog"
	"github.com/mcoot/classgold/internal/services/gamebridge"
	"github.com/mcoot/classgold/internal/services/leaderboard"
	"github.com/mcoot/classgold/internal/services/shop"
	"github.com/mcoot/classgold/internal/services/wallet"
	"github.com/mcoot/classgold/internal/sse"
	"github.com/mcoot/classgold/internal/storage"
	"github.com/mcoot/classgold/internal/storage/memory"
	redisstorage "github.com/mcoot/classgold/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageMemory
	StorageTypeRedis  = config.StorageRedis
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService        *auth.Service
	CatalogStore       *catalog.Store
	Reconciler         *shop.Reconciler
	LeaderboardService *leaderboard.Service
	WalletService      *wallet.Service
	GameBridge         *gamebridge.Bridge
	HubManager         *sse.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// BridgeConfig holds configuration for the game bridge (optional)
	// Zero fields default to gamebridge.DefaultConfig()
	BridgeConfig gamebridge.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// ConfigFromEnv builds a factory Config from the parsed environment
func ConfigFromEnv(c config.Config, logger *slog.Logger) Config {
	cfg := Config{
		AuthConfig: auth.Config{SessionDuration: c.SessionDuration},
		BridgeConfig: gamebridge.Config{
			MaxCreditPerMessage: c.MaxCreditPerMessage,
			SessionTTL:          c.GameSessionTTL,
		},
		Logger:      logger,
		StorageType: c.StorageType,
	}
	if c.StorageType == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		redisCfg.PoolSize = c.RedisPoolSize
		redisCfg.MaxTxRetries = c.RedisMaxTxRetries
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, authCfg, cfg.BridgeConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, bridgeCfg gamebridge.Config, logger *slog.Logger) *App {
	// Create services
	catalogStore := catalog.New(store, logger)
	reconciler := shop.NewReconciler(store, catalogStore, clk, logger)
	leaderboardService := leaderboard.New(store, logger)
	walletService := wallet.New(store, clk, logger)
	gameBridge := gamebridge.New(walletService, clk, bridgeCfg, logger)
	authService := auth.New(store, clk, rnd, authCfg, logger)
	hubManager := sse.NewHubManager(logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		AuthService:        authService,
		CatalogStore:       catalogStore,
		Reconciler:         reconciler,
		LeaderboardService: leaderboardService,
		WalletService:      walletService,
		GameBridge:         gameBridge,
		HubManager:         hubManager,
	}
}

// CleanExpiredSessions drops expired login and game sessions and idle SSE hubs
func (a *App) CleanExpiredSessions() {
	a.AuthService.CleanExpiredSessions()
	a.GameBridge.CleanExpiredSessions()
	a.HubManager.CleanupEmptyHubs()
}

// Close releases the storage backend and stops SSE hubs
func (a *App) Close() error {
	a.HubManager.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
