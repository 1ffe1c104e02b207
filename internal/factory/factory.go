package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gridmatch/gridmatch/internal/dependencies/clock"
	"github.com/gridmatch/gridmatch/internal/dependencies/random"
	"github.com/gridmatch/gridmatch/internal/services/manager"
	"github.com/gridmatch/gridmatch/internal/services/match"
	"github.com/gridmatch/gridmatch/internal/services/matchmaking"
	"github.com/gridmatch/gridmatch/internal/services/registry"
	"github.com/gridmatch/gridmatch/internal/storage"
	"github.com/gridmatch/gridmatch/internal/storage/memory"
	redisstorage "github.com/gridmatch/gridmatch/internal/storage/redis"
	"github.com/gridmatch/gridmatch/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Registry    *registry.Service
	Queue       *matchmaking.Queue
	Matches     *match.Controller
	Hub         *ws.Hub
	Broadcaster *ws.Broadcaster
	Manager     *manager.Manager
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// GracePeriod is how long finished matches linger before cleanup
	// If zero, defaults to ws.DefaultGracePeriod
	GracePeriod time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

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

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.GracePeriod, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, grace time.Duration, logger *slog.Logger) *App {
	reg := registry.New(store, clk, logger)
	queue := matchmaking.New(logger)
	matches := match.NewController(store, reg, clk, rnd, logger)
	hub := ws.NewHub(logger)
	broadcaster := ws.NewBroadcaster(hub, matches, grace, logger)
	mgr := manager.New(reg, queue, matches, broadcaster, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Registry:    reg,
		Queue:       queue,
		Matches:     matches,
		Hub:         hub,
		Broadcaster: broadcaster,
		Manager:     mgr,
	}
}
