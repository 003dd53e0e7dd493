package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/repository"
	"innsync-backend/internal/service"
)

// HotelHandler exposes hotel-scoped operations: business date resolution,
// night-audit close/reopen, availability checks and conflict reports.
type HotelHandler struct {
	registry     repository.Registry
	businessDay  service.BusinessDayService
	nightAudit   service.NightAuditService
	availability service.AvailabilityService
	conflicts    service.ConflictService
}

func NewHotelHandler(
	registry repository.Registry,
	businessDay service.BusinessDayService,
	nightAudit service.NightAuditService,
	availability service.AvailabilityService,
	conflicts service.ConflictService,
) *HotelHandler {
	return &HotelHandler{
		registry:     registry,
		businessDay:  businessDay,
		nightAudit:   nightAudit,
		availability: availability,
		conflicts:    conflicts,
	}
}

type businessDateResponse struct {
	HotelID      int32  `json:"hotel_id"`
	BusinessDate string `json:"business_date"`
	WindowStart  string `json:"window_start"`
	WindowEnd    string `json:"window_end"`
}

type closureRequest struct {
	BusinessDate string `json:"business_date" validate:"required,datetime=2006-01-02"`
}

type availabilityRequest struct {
	RoomID       *int32 `json:"room_id,omitempty"`
	RoomTypeID   int32  `json:"room_type_id" validate:"required,gt=0"`
	CheckInDate  string `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOutDate string `json:"check_out_date" validate:"required,datetime=2006-01-02"`
}

type availabilityResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

func (h *HotelHandler) BusinessDate(w http.ResponseWriter, r *http.Request) {
	hotelID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid hotel id")
		return
	}

	hotel, err := h.registry.Hotels.GetByID(r.Context(), hotelID)
	if err != nil {
		respondError(w, err)
		return
	}

	date, err := h.businessDay.CurrentBusinessDate(r.Context(), hotel)
	if err != nil {
		respondError(w, err)
		return
	}
	start, end, err := h.businessDay.BusinessWindow(r.Context(), hotel, date)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, businessDateResponse{
		HotelID:      hotelID,
		BusinessDate: date.Format("2006-01-02"),
		WindowStart:  start.Format(time.RFC3339),
		WindowEnd:    end.Format(time.RFC3339),
	})
}

func (h *HotelHandler) CloseDay(w http.ResponseWriter, r *http.Request) {
	h.closureOp(w, r, h.nightAudit.CloseDay)
}

func (h *HotelHandler) ReopenDay(w http.ResponseWriter, r *http.Request) {
	h.closureOp(w, r, h.nightAudit.ReopenDay)
}

func (h *HotelHandler) closureOp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, hotelID int32, date time.Time, actor *domain.Actor) (*domain.HotelDayClosure, error)) {
	hotelID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid hotel id")
		return
	}

	var req closureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	date, _ := time.Parse("2006-01-02", req.BusinessDate)

	closure, err := op(r.Context(), hotelID, date, actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, closure)
}

func (h *HotelHandler) ClosureStatus(w http.ResponseWriter, r *http.Request) {
	hotelID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid hotel id")
		return
	}
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		respondBadRequest(w, "invalid or missing date")
		return
	}

	closure, err := h.nightAudit.Status(r.Context(), hotelID, date)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, closure)
}

func (h *HotelHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	hotelID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid hotel id")
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	checkIn, _ := time.Parse("2006-01-02", req.CheckInDate)
	checkOut, _ := time.Parse("2006-01-02", req.CheckOutDate)

	err = h.availability.Check(r.Context(), h.registry, service.AvailabilityRequest{
		HotelID:      hotelID,
		RoomID:       req.RoomID,
		RoomTypeID:   req.RoomTypeID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		TargetStatus: domain.ReservationStatusConfirmed,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			respondJSON(w, http.StatusOK, availabilityResponse{Available: false, Reason: err.Error()})
			return
		}
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, availabilityResponse{Available: true})
}

func (h *HotelHandler) RoomConflicts(w http.ResponseWriter, r *http.Request) {
	hotelID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid hotel id")
		return
	}
	roomID, err := strconv.ParseInt(r.URL.Query().Get("room_id"), 10, 32)
	if err != nil || roomID <= 0 {
		respondBadRequest(w, "invalid or missing room_id")
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	conflicts, err := h.conflicts.FindRoomConflicts(r.Context(), hotelID, int32(roomID), from, to, nil)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, conflicts)
}

func (h *HotelHandler) Overbooking(w http.ResponseWriter, r *http.Request) {
	hotelID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid hotel id")
		return
	}
	roomTypeID, err := strconv.ParseInt(r.URL.Query().Get("room_type_id"), 10, 32)
	if err != nil || roomTypeID <= 0 {
		respondBadRequest(w, "invalid or missing room_type_id")
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	report, err := h.conflicts.CheckOverbooking(r.Context(), hotelID, int32(roomTypeID), from, to, nil)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"overbooked": report != nil, "report": report})
}

var errInvalidRange = errors.New("invalid or missing from/to date range")

func dateRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidRange
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil || !from.Before(to) {
		return time.Time{}, time.Time{}, errInvalidRange
	}
	return from, to, nil
}
