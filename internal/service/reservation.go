package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/logger"
	"innsync-backend/internal/repository"
	"innsync-backend/internal/stay"
)

type reservationService struct {
	store        repository.Atomic
	resRepo      repository.ReservationRepository
	availability AvailabilityService
	roomState    RoomStateService
	folios       FolioService
	businessDay  BusinessDayService
	nightAudit   NightAuditService
	notifier     Notifier
}

func NewReservationService(
	store repository.Atomic,
	resRepo repository.ReservationRepository,
	availability AvailabilityService,
	roomState RoomStateService,
	folios FolioService,
	businessDay BusinessDayService,
	nightAudit NightAuditService,
	notifier Notifier,
) ReservationService {
	return &reservationService{
		store:        store,
		resRepo:      resRepo,
		availability: availability,
		roomState:    roomState,
		folios:       folios,
		businessDay:  businessDay,
		nightAudit:   nightAudit,
		notifier:     notifier,
	}
}

// Transition applies one reservation status change. The whole transition is a
// single transaction: the legality check, the availability re-check, the room
// claim or release, the folio sync and the status write all commit together
// or not at all.
func (s *reservationService) Transition(ctx context.Context, req TransitionRequest, actor *domain.Actor) (*domain.Reservation, error) {
	logger.EnterMethod("ReservationService.Transition", "reservationID", req.ReservationID, "action", req.Action)

	target, ok := domain.TargetStatusFor(req.Action)
	if !ok {
		return nil, fmt.Errorf("unknown transition action %q", req.Action)
	}

	var result *domain.Reservation
	err := s.store.WithinTx(ctx, func(r repository.Registry) error {
		res, err := r.Reservations.GetByID(ctx, req.ReservationID)
		if err != nil {
			return err
		}

		if !domain.CanTransition(res.Status, target) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, res.Status, target)
		}

		hotel, err := r.Hotels.GetByID(ctx, res.HotelID)
		if err != nil {
			return err
		}
		businessDate, err := s.businessDay.CurrentBusinessDate(ctx, hotel)
		if err != nil {
			return err
		}
		if err := s.nightAudit.AssertOpen(ctx, r, res.HotelID, businessDate, actor, req.Override); err != nil {
			return err
		}

		switch req.Action {
		case domain.ActionConfirm:
			// Time may have passed since booking; the room or room type can
			// have been taken in the meantime, so the gate runs again here.
			if err := s.availability.Check(ctx, r, AvailabilityRequest{
				HotelID:              res.HotelID,
				RoomID:               res.RoomID,
				RoomTypeID:           res.RoomTypeID,
				CheckInDate:          res.CheckInDate,
				CheckOutDate:         res.CheckOutDate,
				TargetStatus:         domain.ReservationStatusConfirmed,
				ExcludeReservationID: &res.ID,
			}); err != nil {
				return err
			}
			if err := s.folios.SyncStayCharge(ctx, r, res); err != nil {
				return err
			}
		case domain.ActionCheckIn:
			if err := s.applyCheckIn(ctx, r, res, req.RoomID); err != nil {
				return err
			}
		case domain.ActionCheckOut:
			if err := s.applyCheckOut(ctx, r, res); err != nil {
				return err
			}
		case domain.ActionCancel:
			if err := s.releaseRoom(ctx, r, res); err != nil {
				return err
			}
			if req.Reason != "" {
				res.Notes = appendNote(res.Notes, "Cancelled: "+req.Reason)
			}
		case domain.ActionMarkNoShow:
			if businessDate.Before(res.CheckInDate) {
				return fmt.Errorf("%w: cannot mark no-show before the arrival date", domain.ErrIllegalTransition)
			}
			if err := s.releaseRoom(ctx, r, res); err != nil {
				return err
			}
		}

		res.Status = target
		if err := r.Reservations.Update(ctx, res); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("ReservationService.Transition", err, "reservationID", req.ReservationID)
		return nil, err
	}

	s.notifier.Notify(ctx, result.HotelID, "reservation."+string(req.Action),
		"Reservation "+string(req.Action),
		fmt.Sprintf("Reservation %s is now %s.", result.Code, result.Status),
		map[string]string{
			"reservation_id":   fmt.Sprintf("%d", result.ID),
			"reservation_code": result.Code,
			"status":           string(result.Status),
		})

	logger.ExitMethod("ReservationService.Transition", "reservationID", result.ID, "status", result.Status)
	return result, nil
}

func (s *reservationService) applyCheckIn(ctx context.Context, r repository.Registry, res *domain.Reservation, roomID *int32) error {
	if roomID != nil {
		res.RoomID = roomID
	}
	if res.RoomID == nil {
		return domain.ErrMissingRoom
	}

	// Lock the room row first so a concurrent check-in for the same room
	// serializes behind this one and sees the claim.
	room, err := r.Rooms.GetByIDForUpdate(ctx, *res.RoomID)
	if err != nil {
		return err
	}

	if err := s.availability.Check(ctx, r, AvailabilityRequest{
		HotelID:              res.HotelID,
		RoomID:               res.RoomID,
		RoomTypeID:           res.RoomTypeID,
		CheckInDate:          res.CheckInDate,
		CheckOutDate:         res.CheckOutDate,
		TargetStatus:         domain.ReservationStatusInHouse,
		ExcludeReservationID: &res.ID,
	}); err != nil {
		return err
	}

	if err := s.roomState.MarkOccupied(ctx, r, room, res); err != nil {
		return err
	}

	now := time.Now()
	res.ActualCheckInAt = &now
	return s.folios.SyncStayCharge(ctx, r, res)
}

func (s *reservationService) applyCheckOut(ctx context.Context, r repository.Registry, res *domain.Reservation) error {
	if res.RoomID == nil {
		return domain.ErrMissingRoom
	}
	room, err := r.Rooms.GetByIDForUpdate(ctx, *res.RoomID)
	if err != nil {
		return err
	}

	room.HousekeepingStatus = domain.HousekeepingStatusDirty
	if err := s.roomState.MarkAvailable(ctx, r, room); err != nil {
		return err
	}

	now := time.Now()
	res.ActualCheckOutAt = &now
	return s.folios.SyncStayCharge(ctx, r, res)
}

// releaseRoom frees a pre-assigned room when a reservation leaves the active
// set without ever checking in. Usually a no-op: the room was never occupied.
func (s *reservationService) releaseRoom(ctx context.Context, r repository.Registry, res *domain.Reservation) error {
	if res.RoomID == nil {
		return nil
	}
	room, err := r.Rooms.GetByID(ctx, *res.RoomID)
	if err != nil {
		return err
	}
	return s.roomState.MarkAvailable(ctx, r, room)
}

func (s *reservationService) Confirm(ctx context.Context, reservationID int32, actor *domain.Actor) (*domain.Reservation, error) {
	return s.Transition(ctx, TransitionRequest{ReservationID: reservationID, Action: domain.ActionConfirm}, actor)
}

func (s *reservationService) CheckIn(ctx context.Context, reservationID int32, roomID *int32, actor *domain.Actor) (*domain.Reservation, error) {
	return s.Transition(ctx, TransitionRequest{ReservationID: reservationID, Action: domain.ActionCheckIn, RoomID: roomID}, actor)
}

func (s *reservationService) CheckOut(ctx context.Context, reservationID int32, actor *domain.Actor) (*domain.Reservation, error) {
	return s.Transition(ctx, TransitionRequest{ReservationID: reservationID, Action: domain.ActionCheckOut}, actor)
}

func (s *reservationService) Cancel(ctx context.Context, reservationID int32, reason string, actor *domain.Actor) (*domain.Reservation, error) {
	return s.Transition(ctx, TransitionRequest{ReservationID: reservationID, Action: domain.ActionCancel, Reason: reason}, actor)
}

func (s *reservationService) MarkNoShow(ctx context.Context, reservationID int32, actor *domain.Actor) (*domain.Reservation, error) {
	return s.Transition(ctx, TransitionRequest{ReservationID: reservationID, Action: domain.ActionMarkNoShow}, actor)
}

func (s *reservationService) ChangeRoom(ctx context.Context, reservationID, newRoomID int32, newRate *decimal.Decimal, actor *domain.Actor) (*domain.Reservation, error) {
	logger.EnterMethod("ReservationService.ChangeRoom", "reservationID", reservationID, "newRoomID", newRoomID)

	var result *domain.Reservation
	err := s.store.WithinTx(ctx, func(r repository.Registry) error {
		res, err := r.Reservations.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if res.Status != domain.ReservationStatusInHouse {
			return fmt.Errorf("%w: room change requires an in-house reservation", domain.ErrIllegalTransition)
		}
		if res.RoomID == nil {
			return domain.ErrMissingRoom
		}
		if *res.RoomID == newRoomID {
			result = res
			return nil
		}

		hotel, err := r.Hotels.GetByID(ctx, res.HotelID)
		if err != nil {
			return err
		}
		businessDate, err := s.businessDay.CurrentBusinessDate(ctx, hotel)
		if err != nil {
			return err
		}
		if err := s.nightAudit.AssertOpen(ctx, r, res.HotelID, businessDate, actor, false); err != nil {
			return err
		}

		newRoom, err := r.Rooms.GetByIDForUpdate(ctx, newRoomID)
		if err != nil {
			return err
		}

		pivot := stay.ClampDate(businessDate, res.CheckInDate, res.CheckOutDate)

		roomIDCopy := newRoomID
		if err := s.availability.Check(ctx, r, AvailabilityRequest{
			HotelID:              res.HotelID,
			RoomID:               &roomIDCopy,
			RoomTypeID:           res.RoomTypeID,
			CheckInDate:          pivot,
			CheckOutDate:         res.CheckOutDate,
			TargetStatus:         domain.ReservationStatusInHouse,
			ExcludeReservationID: &res.ID,
		}); err != nil {
			return err
		}

		oldRoom, err := r.Rooms.GetByID(ctx, *res.RoomID)
		if err != nil {
			return err
		}
		oldRoom.HousekeepingStatus = domain.HousekeepingStatusDirty
		if err := s.roomState.MarkAvailable(ctx, r, oldRoom); err != nil {
			return err
		}

		res.RoomID = &newRoom.ID
		if err := s.roomState.MarkOccupied(ctx, r, newRoom, res); err != nil {
			return err
		}

		oldRate := res.UnitPrice
		rate := oldRate
		if newRate != nil {
			rate = *newRate
		}
		if err := s.folios.ResegmentForRoomChange(ctx, r, res, oldRoom, newRoom, pivot, oldRate, rate); err != nil {
			return err
		}
		// The go-forward rate; the pre-pivot segment keeps the old one.
		res.UnitPrice = rate

		if err := r.Reservations.Update(ctx, res); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("ReservationService.ChangeRoom", err, "reservationID", reservationID)
		return nil, err
	}

	s.notifier.Notify(ctx, result.HotelID, "reservation.room_changed",
		"Room changed",
		fmt.Sprintf("Reservation %s moved to a new room.", result.Code),
		map[string]string{
			"reservation_id": fmt.Sprintf("%d", result.ID),
			"new_room_id":    fmt.Sprintf("%d", newRoomID),
		})

	logger.ExitMethod("ReservationService.ChangeRoom", "reservationID", reservationID)
	return result, nil
}

func (s *reservationService) GetReservation(ctx context.Context, reservationID int32) (*domain.Reservation, error) {
	return s.resRepo.GetByID(ctx, reservationID)
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
