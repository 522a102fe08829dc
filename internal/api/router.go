package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quizparty/quizparty/internal/api/handler"
	"github.com/quizparty/quizparty/internal/api/middleware"
	"github.com/quizparty/quizparty/internal/ws"
)

// RouterConfig holds configuration for the HTTP router
type RouterConfig struct {
	Logger *slog.Logger
	Router *ws.Router
}

// NewRouter creates the HTTP router: the websocket endpoint plus a
// small read-only JSON API
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.Router)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// The game protocol itself runs over this single endpoint
	r.HandleFunc("/ws", ws.Handler(cfg.Router, cfg.Logger))

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
