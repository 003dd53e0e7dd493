package service

import (
	"context"
	"fmt"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/logger"
	"innsync-backend/internal/repository"
)

type roomStateService struct {
	roomRepo repository.RoomRepository
	resRepo  repository.ReservationRepository
}

func NewRoomStateService(roomRepo repository.RoomRepository, resRepo repository.ReservationRepository) RoomStateService {
	return &roomStateService{roomRepo: roomRepo, resRepo: resRepo}
}

// MarkOccupied claims a room for a checked-in reservation. The room row must
// already be locked by the caller's transaction.
func (s *roomStateService) MarkOccupied(ctx context.Context, r repository.Registry, room *domain.Room, res *domain.Reservation) error {
	if res.RoomID == nil || *res.RoomID != room.ID {
		return fmt.Errorf("%w: reservation %d is not assigned to room %d", domain.ErrInconsistentState, res.ID, room.ID)
	}

	switch room.Status {
	case domain.RoomStatusAvailable:
		// ok
	case domain.RoomStatusOccupied:
		return fmt.Errorf("%w: room %s is occupied", domain.ErrUnavailable, room.Number)
	case domain.RoomStatusOutOfOrder:
		return fmt.Errorf("%w: room %s is out of order", domain.ErrUnavailable, room.Number)
	default:
		return fmt.Errorf("%w: room %s has unknown status %s", domain.ErrInconsistentState, room.Number, room.Status)
	}

	room.Status = domain.RoomStatusOccupied
	return r.Rooms.Update(ctx, room)
}

// MarkAvailable returns a room to the sellable pool, whether it was occupied
// or out of order. Releasing an already available room is a no-op.
func (s *roomStateService) MarkAvailable(ctx context.Context, r repository.Registry, room *domain.Room) error {
	if room.Status != domain.RoomStatusOccupied && room.Status != domain.RoomStatusOutOfOrder {
		return nil
	}
	room.Status = domain.RoomStatusAvailable
	return r.Rooms.Update(ctx, room)
}

func (s *roomStateService) MarkOutOfOrder(ctx context.Context, roomID int32, actor *domain.Actor) (*domain.Room, error) {
	logger.EnterMethod("RoomStateService.MarkOutOfOrder", "roomID", roomID, "actorID", actor.ID)

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status == domain.RoomStatusOccupied {
		return nil, fmt.Errorf("%w: room %s is occupied", domain.ErrUnavailable, room.Number)
	}
	if room.Status == domain.RoomStatusOutOfOrder {
		return room, nil
	}

	room.Status = domain.RoomStatusOutOfOrder
	if err := s.roomRepo.Update(ctx, room); err != nil {
		logger.ExitMethodWithError("RoomStateService.MarkOutOfOrder", err)
		return nil, err
	}
	logger.ExitMethod("RoomStateService.MarkOutOfOrder", "roomID", roomID)
	return room, nil
}

func (s *roomStateService) ReturnToService(ctx context.Context, roomID int32, actor *domain.Actor) (*domain.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != domain.RoomStatusOutOfOrder {
		return room, nil
	}
	room.Status = domain.RoomStatusAvailable
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}
