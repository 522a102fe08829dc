package factory

import (
	"io"
	"log/slog"

	"github.com/quizparty/quizparty/internal/dependencies/clock"
	"github.com/quizparty/quizparty/internal/dependencies/random"
	"github.com/quizparty/quizparty/internal/services/session"
	"github.com/quizparty/quizparty/internal/storage"
	"github.com/quizparty/quizparty/internal/storage/memory"
	"github.com/quizparty/quizparty/internal/ws"
)

// App contains all wired application components
type App struct {
	Storage storage.Storage

	Clock  clock.Clock
	Random random.Random

	SessionController *session.Controller
	Hub               *ws.Hub
	Router            *ws.Router
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store := memory.New()
	clk := clock.New()
	rnd := random.New()

	return NewWithDependencies(store, clk, rnd, logger)
}

// NewWithDependencies creates an App with the given dependencies
// (useful for testing with mocks)
func NewWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	controller := session.NewController(store, clk, rnd, logger)
	hub := ws.NewHub(logger)
	router := ws.NewRouter(controller, hub, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		SessionController: controller,
		Hub:               hub,
		Router:            router,
	}
}
