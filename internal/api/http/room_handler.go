package http

import (
	"net/http"

	"innsync-backend/internal/service"
)

// RoomHandler exposes the out-of-order toggle for individual rooms.
type RoomHandler struct {
	rooms service.RoomStateService
}

func NewRoomHandler(rooms service.RoomStateService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

func (h *RoomHandler) MarkOutOfOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid room id")
		return
	}

	room, err := h.rooms.MarkOutOfOrder(r.Context(), id, actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, room)
}

func (h *RoomHandler) ReturnToService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid room id")
		return
	}

	room, err := h.rooms.ReturnToService(r.Context(), id, actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, room)
}
