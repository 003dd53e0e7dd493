package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/service"
)

var validate = validator.New()

// ReservationHandler exposes the reservation lifecycle transitions.
type ReservationHandler struct {
	reservations service.ReservationService
}

func NewReservationHandler(reservations service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

type transitionRequest struct {
	Action   string `json:"action" validate:"required,oneof=confirm check_in check_out cancel no_show"`
	RoomID   *int32 `json:"room_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Override bool   `json:"override,omitempty"`
}

type roomChangeRequest struct {
	NewRoomID int32 `json:"new_room_id" validate:"required,gt=0"`
	// NewRate switches the nightly rate from the pivot date on; omitted keeps
	// the current rate.
	NewRate *string `json:"new_rate,omitempty"`
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid reservation id")
		return
	}

	res, err := h.reservations.GetReservation(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid reservation id")
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	res, err := h.reservations.Transition(r.Context(), service.TransitionRequest{
		ReservationID: id,
		Action:        domain.TransitionAction(req.Action),
		RoomID:        req.RoomID,
		Reason:        req.Reason,
		Override:      req.Override,
	}, actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) ChangeRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid reservation id")
		return
	}

	var req roomChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	var newRate *decimal.Decimal
	if req.NewRate != nil {
		rate, err := decimal.NewFromString(*req.NewRate)
		if err != nil {
			respondBadRequest(w, "invalid new_rate")
			return
		}
		newRate = &rate
	}

	res, err := h.reservations.ChangeRoom(r.Context(), id, req.NewRoomID, newRate, actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return int32(id), nil
}
