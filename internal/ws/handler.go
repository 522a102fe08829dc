package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/quizparty/quizparty/internal/model"
)

// Handler upgrades HTTP requests to websocket connections and wires
// them into the router.
func Handler(router *Router, logger *slog.Logger) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// The game is joined by short code, not by origin-bound
		// credentials; any origin may connect.
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}

		client := NewClient(model.ConnectionID(uuid.NewString()), conn, router, logger)
		router.Connected(client)

		go client.WritePump()
		client.ReadPump()
	}
}
