package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quizparty/quizparty/internal/api/response"
	"github.com/quizparty/quizparty/internal/model"
	"github.com/quizparty/quizparty/internal/ws"
)

// RoomHandler serves read-only session snapshots. Reads go through
// the router so they never race a transition in flight.
type RoomHandler struct {
	router *ws.Router
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(router *ws.Router) *RoomHandler {
	return &RoomHandler{router: router}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	codes, err := h.router.ListRooms(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomIndexFromCodes(codes))
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	snap, err := h.router.Snapshot(r.Context(), code)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(snap))
}
