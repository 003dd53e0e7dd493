package service

import (
	"context"
	"fmt"
	"time"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/repository"
	"innsync-backend/internal/stay"
)

type conflictService struct {
	resRepo  repository.ReservationRepository
	roomRepo repository.RoomRepository
	notifier Notifier
}

func NewConflictService(resRepo repository.ReservationRepository, roomRepo repository.RoomRepository, notifier Notifier) ConflictService {
	return &conflictService{resRepo: resRepo, roomRepo: roomRepo, notifier: notifier}
}

func (s *conflictService) FindRoomConflicts(ctx context.Context, hotelID, roomID int32, checkIn, checkOut time.Time, excludeID *int32) ([]domain.Conflict, error) {
	overlapping, err := s.resRepo.ListOverlapping(ctx, hotelID, &roomID, 0, checkIn, checkOut, domain.ActiveStatuses, excludeID)
	if err != nil {
		return nil, err
	}

	var roomNumber string
	if room, err := s.roomRepo.GetByID(ctx, roomID); err == nil {
		roomNumber = room.Number
	}

	conflicts := make([]domain.Conflict, 0, len(overlapping))
	for _, res := range overlapping {
		overlapStart := stay.ClampDate(res.CheckInDate, checkIn, checkOut)
		overlapEnd := stay.ClampDate(res.CheckOutDate, checkIn, checkOut)
		conflicts = append(conflicts, domain.Conflict{
			ReservationID:   res.ID,
			ReservationCode: res.Code,
			GuestName:       res.GuestName,
			RoomNumber:      roomNumber,
			OverlapStart:    overlapStart.Format("2006-01-02"),
			OverlapEnd:      overlapEnd.Format("2006-01-02"),
		})
	}

	if len(conflicts) > 0 {
		s.notifier.Notify(ctx, hotelID, "conflict.room_overlap",
			"Room booking conflict",
			fmt.Sprintf("Room %s has %d overlapping reservation(s) in %s to %s.",
				roomNumber, len(conflicts), checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02")),
			map[string]string{
				"room_id":          fmt.Sprintf("%d", roomID),
				"conflicts":        fmt.Sprintf("%d", len(conflicts)),
				"first_conflict":   conflicts[0].ReservationCode,
				"requested_period": checkIn.Format("2006-01-02") + "/" + checkOut.Format("2006-01-02"),
			})
	}
	return conflicts, nil
}

func (s *conflictService) CheckOverbooking(ctx context.Context, hotelID, roomTypeID int32, checkIn, checkOut time.Time, excludeID *int32) (*domain.OverbookReport, error) {
	supply, err := s.roomRepo.CountSellableByType(ctx, hotelID, roomTypeID)
	if err != nil {
		return nil, err
	}

	for _, date := range stay.DatesInRange(checkIn, checkOut) {
		demand, err := s.resRepo.CountOverlappingByType(ctx, hotelID, roomTypeID, date, date.AddDate(0, 0, 1), domain.ActiveStatuses, excludeID)
		if err != nil {
			return nil, err
		}
		if demand >= supply {
			report := &domain.OverbookReport{
				Date:   date.Format("2006-01-02"),
				Demand: demand,
				Supply: supply,
			}
			s.notifier.Notify(ctx, hotelID, "conflict.overbooking",
				"Room type oversold",
				fmt.Sprintf("Demand %d meets supply %d on %s.", demand, supply, report.Date),
				map[string]string{
					"room_type_id": fmt.Sprintf("%d", roomTypeID),
					"date":         report.Date,
					"demand":       fmt.Sprintf("%d", demand),
					"supply":       fmt.Sprintf("%d", supply),
				})
			return report, nil
		}
	}
	return nil, nil
}
