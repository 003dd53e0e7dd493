package service

import (
	"context"
	"fmt"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/repository"
	"innsync-backend/internal/stay"
)

type availabilityService struct{}

func NewAvailabilityService() AvailabilityService {
	return &availabilityService{}
}

// Check runs the pre-write availability gate:
//  1. a target status that does not occupy inventory always passes,
//  2. a concrete room must be in service, not maintenance-blocked, and free
//     of overlapping active reservations,
//  3. without a concrete room, active demand for the room type over the
//     range must stay below sellable supply.
//
// All three checks are read-only short circuits; the first failure wins.
func (s *availabilityService) Check(ctx context.Context, r repository.Registry, req AvailabilityRequest) error {
	if !domain.IsActiveStatus(req.TargetStatus) {
		return nil
	}
	if !req.CheckInDate.Before(req.CheckOutDate) {
		return fmt.Errorf("%w: check-out must be after check-in", domain.ErrUnavailable)
	}

	if req.RoomID != nil {
		return s.checkRoom(ctx, r, req)
	}
	return s.checkRoomType(ctx, r, req)
}

func (s *availabilityService) checkRoom(ctx context.Context, r repository.Registry, req AvailabilityRequest) error {
	room, err := r.Rooms.GetByID(ctx, *req.RoomID)
	if err != nil {
		return err
	}
	if room.Status == domain.RoomStatusOutOfOrder {
		return fmt.Errorf("%w: room %s is out of order", domain.ErrUnavailable, room.Number)
	}

	blocked, err := r.Maintenance.HasBlockingTicket(ctx, room.ID)
	if err != nil {
		return err
	}
	if blocked {
		return fmt.Errorf("%w: room %s is blocked by maintenance", domain.ErrUnavailable, room.Number)
	}

	overlapping, err := r.Reservations.ListOverlapping(ctx, req.HotelID, req.RoomID, 0, req.CheckInDate, req.CheckOutDate, domain.ActiveStatuses, req.ExcludeReservationID)
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		return fmt.Errorf("%w: room %s has %d overlapping reservation(s)", domain.ErrUnavailable, room.Number, len(overlapping))
	}
	return nil
}

func (s *availabilityService) checkRoomType(ctx context.Context, r repository.Registry, req AvailabilityRequest) error {
	supply, err := r.Rooms.CountSellableByType(ctx, req.HotelID, req.RoomTypeID)
	if err != nil {
		return err
	}
	if supply == 0 {
		return fmt.Errorf("%w: no sellable rooms of this type", domain.ErrUnavailable)
	}

	// Peak demand over the range is checked date by date; a single count over
	// the whole range would overstate demand for non-overlapping stays.
	for _, date := range stay.DatesInRange(req.CheckInDate, req.CheckOutDate) {
		demand, err := r.Reservations.CountOverlappingByType(ctx, req.HotelID, req.RoomTypeID, date, date.AddDate(0, 0, 1), domain.ActiveStatuses, req.ExcludeReservationID)
		if err != nil {
			return err
		}
		if demand >= supply {
			return fmt.Errorf("%w: room type is fully booked on %s", domain.ErrUnavailable, date.Format("2006-01-02"))
		}
	}
	return nil
}
