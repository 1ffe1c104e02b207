package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gridmatch/gridmatch/internal/api/handler"
	"github.com/gridmatch/gridmatch/internal/api/middleware"
	innermw "github.com/gridmatch/gridmatch/internal/middleware"
	"github.com/gridmatch/gridmatch/internal/services/manager"
	"github.com/gridmatch/gridmatch/internal/services/match"
	"github.com/gridmatch/gridmatch/internal/services/registry"
	"github.com/gridmatch/gridmatch/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	Registry *registry.Service
	Matches  *match.Controller
	Manager  *manager.Manager
	Hub      *ws.Hub
}

// NewRouter creates a new router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.Registry)
	queueHandler := handler.NewQueueHandler(cfg.Manager)
	channelHandler := handler.NewChannelHandler(cfg.Registry, cfg.Matches, cfg.Hub, cfg.Manager, cfg.Logger)

	loggingMiddleware := innermw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/queue/join", queueHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// the websocket route skips the logging middleware: its wrapped writer
	// does not expose http.Hijacker, and a log line per long-lived
	// connection is noise anyway
	r.HandleFunc("/ws/{player_id}", channelHandler.Serve).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
