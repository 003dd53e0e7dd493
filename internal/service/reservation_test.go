package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"innsync-backend/internal/domain"
)

func newReservationSvc(reg *mockRegistry, notifier *mockNotifier) ReservationService {
	businessDay := NewBusinessDayService("08:00", "UTC")
	nightAudit := NewNightAuditService(reg.closures, notifier)
	folios := NewFolioService(&mockAtomic{reg: reg}, reg.folios, &mockTimeRule{}, businessDay, nightAudit, 10.0)
	return NewReservationService(
		&mockAtomic{reg: reg},
		reg.reservations,
		NewAvailabilityService(),
		NewRoomStateService(reg.rooms, reg.reservations),
		folios,
		businessDay,
		nightAudit,
		notifier,
	)
}

func expectOpenDay(reg *mockRegistry, ctx context.Context, hotelID int32) {
	reg.hotels.On("GetByID", ctx, hotelID).Return(&domain.Hotel{ID: hotelID, Timezone: "UTC"}, nil)
	reg.closures.On("Get", ctx, hotelID, mock.AnythingOfType("time.Time")).Return(nil, domain.ErrNotFound)
}

func expectFolioSync(reg *mockRegistry, ctx context.Context) {
	folio := openFolio()
	reg.folios.On("GetMainByReservation", ctx, mock.Anything).Return(folio, nil)
	reg.folios.On("ListStayItems", ctx, folio.ID).Return([]domain.FolioItem{}, nil)
	reg.folios.On("CreateItem", ctx, mock.AnythingOfType("*domain.FolioItem")).Return(nil)
	reg.folios.On("ListItems", ctx, folio.ID).Return([]domain.FolioItem{}, nil)
	reg.folios.On("ListPayments", ctx, folio.ID).Return([]domain.FolioPayment{}, nil)
	reg.folios.On("Update", ctx, folio).Return(nil)
}

func TestReservationService_Confirm(t *testing.T) {
	ctx := context.Background()

	t.Run("RechecksAvailabilityAndConfirms", func(t *testing.T) {
		reg := newMockRegistry()
		notifier := &mockNotifier{}
		svc := newReservationSvc(reg, notifier)

		res := testReservation()
		res.Status = domain.ReservationStatusPending
		room := &domain.Room{ID: 10, Number: "204", Status: domain.RoomStatusAvailable}
		reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
		expectOpenDay(reg, ctx, res.HotelID)
		reg.rooms.On("GetByID", ctx, int32(10)).Return(room, nil)
		reg.maintenance.On("HasBlockingTicket", ctx, int32(10)).Return(false, nil)
		reg.reservations.On("ListOverlapping", ctx, res.HotelID, res.RoomID, int32(0), res.CheckInDate, res.CheckOutDate, domain.ActiveStatuses, &res.ID).
			Return([]domain.Reservation{}, nil)
		expectFolioSync(reg, ctx)
		reg.reservations.On("Update", ctx, res).Return(nil)

		out, err := svc.Confirm(ctx, res.ID, &domain.Actor{ID: 7})
		assert.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusConfirmed, out.Status)
		reg.reservations.AssertCalled(t, "ListOverlapping", ctx, res.HotelID, res.RoomID, int32(0), res.CheckInDate, res.CheckOutDate, domain.ActiveStatuses, &res.ID)
		assert.Contains(t, notifier.events, "reservation.confirm")
	})

	t.Run("RoomTakenSinceBookingRejected", func(t *testing.T) {
		reg := newMockRegistry()
		notifier := &mockNotifier{}
		svc := newReservationSvc(reg, notifier)

		res := testReservation()
		res.Status = domain.ReservationStatusPending
		room := &domain.Room{ID: 10, Number: "204", Status: domain.RoomStatusAvailable}
		reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
		expectOpenDay(reg, ctx, res.HotelID)
		reg.rooms.On("GetByID", ctx, int32(10)).Return(room, nil)
		reg.maintenance.On("HasBlockingTicket", ctx, int32(10)).Return(false, nil)
		reg.reservations.On("ListOverlapping", ctx, res.HotelID, res.RoomID, int32(0), res.CheckInDate, res.CheckOutDate, domain.ActiveStatuses, &res.ID).
			Return([]domain.Reservation{{ID: 99, Code: "R-99", Status: domain.ReservationStatusConfirmed}}, nil)

		_, err := svc.Confirm(ctx, res.ID, &domain.Actor{ID: 7})
		assert.ErrorIs(t, err, domain.ErrUnavailable)
		reg.reservations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		reg.folios.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything)
		assert.Empty(t, notifier.events)
	})

	t.Run("RoomTypeCapacityCheckedWhenUnassigned", func(t *testing.T) {
		reg := newMockRegistry()
		svc := newReservationSvc(reg, &mockNotifier{})

		res := testReservation()
		res.Status = domain.ReservationStatusPending
		res.RoomID = nil
		reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
		expectOpenDay(reg, ctx, res.HotelID)
		reg.rooms.On("CountSellableByType", ctx, res.HotelID, res.RoomTypeID).Return(int32(2), nil)
		reg.reservations.On("CountOverlappingByType", ctx, res.HotelID, res.RoomTypeID, mock.Anything, mock.Anything, domain.ActiveStatuses, &res.ID).
			Return(int32(2), nil)

		_, err := svc.Confirm(ctx, res.ID, &domain.Actor{ID: 7})
		assert.ErrorIs(t, err, domain.ErrUnavailable)
	})
}

func TestReservationService_CheckIn(t *testing.T) {
	ctx := context.Background()
	actor := &domain.Actor{ID: 7, Roles: []string{domain.RoleFrontDesk}}

	t.Run("ClaimsRoomAndStampsArrival", func(t *testing.T) {
		reg := newMockRegistry()
		notifier := &mockNotifier{}
		svc := newReservationSvc(reg, notifier)

		res := testReservation()
		room := &domain.Room{ID: 10, HotelID: res.HotelID, Number: "204", Status: domain.RoomStatusAvailable}

		reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
		expectOpenDay(reg, ctx, res.HotelID)
		reg.rooms.On("GetByIDForUpdate", ctx, int32(10)).Return(room, nil)
		reg.rooms.On("GetByID", ctx, int32(10)).Return(room, nil)
		reg.maintenance.On("HasBlockingTicket", ctx, int32(10)).Return(false, nil)
		reg.reservations.On("ListOverlapping", ctx, res.HotelID, res.RoomID, int32(0), res.CheckInDate, res.CheckOutDate, domain.ActiveStatuses, &res.ID).
			Return([]domain.Reservation{}, nil)
		reg.rooms.On("Update", ctx, room).Return(nil)
		expectFolioSync(reg, ctx)
		reg.reservations.On("Update", ctx, res).Return(nil)

		out, err := svc.CheckIn(ctx, res.ID, nil, actor)
		assert.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusInHouse, out.Status)
		assert.NotNil(t, out.ActualCheckInAt)
		assert.Equal(t, domain.RoomStatusOccupied, room.Status)
		assert.Contains(t, notifier.events, "reservation.check_in")
	})

	t.Run("MissingRoomRejected", func(t *testing.T) {
		reg := newMockRegistry()
		svc := newReservationSvc(reg, &mockNotifier{})

		res := testReservation()
		res.RoomID = nil
		reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
		expectOpenDay(reg, ctx, res.HotelID)

		_, err := svc.CheckIn(ctx, res.ID, nil, actor)
		assert.ErrorIs(t, err, domain.ErrMissingRoom)
	})

	t.Run("OccupiedRoomRejected", func(t *testing.T) {
		reg := newMockRegistry()
		svc := newReservationSvc(reg, &mockNotifier{})

		res := testReservation()
		room := &domain.Room{ID: 10, Number: "204", Status: domain.RoomStatusOccupied}
		reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
		expectOpenDay(reg, ctx, res.HotelID)
		reg.rooms.On("GetByIDForUpdate", ctx, int32(10)).Return(room, nil)
		reg.rooms.On("GetByID", ctx, int32(10)).Return(room, nil)

		_, err := svc.CheckIn(ctx, res.ID, nil, actor)
		assert.ErrorIs(t, err, domain.ErrUnavailable)
		reg.reservations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("RoomAssignmentAtCheckIn", func(t *testing.T) {
		reg := newMockRegistry()
		svc := newReservationSvc(reg, &mockNotifier{})

		res := testReservation()
		res.RoomID = nil
		newRoomID := int32(11)
		room := &domain.Room{ID: 11, Number: "305", Status: domain.RoomStatusAvailable}

		reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
		expectOpenDay(reg, ctx, res.HotelID)
		reg.rooms.On("GetByIDForUpdate", ctx, newRoomID).Return(room, nil)
		reg.rooms.On("GetByID", ctx, newRoomID).Return(room, nil)
		reg.maintenance.On("HasBlockingTicket", ctx, newRoomID).Return(false, nil)
		reg.reservations.On("ListOverlapping", ctx, res.HotelID, &newRoomID, int32(0), res.CheckInDate, res.CheckOutDate, domain.ActiveStatuses, &res.ID).
			Return([]domain.Reservation{}, nil)
		reg.rooms.On("Update", ctx, room).Return(nil)
		expectFolioSync(reg, ctx)
		reg.reservations.On("Update", ctx, res).Return(nil)

		out, err := svc.CheckIn(ctx, res.ID, &newRoomID, actor)
		assert.NoError(t, err)
		assert.Equal(t, newRoomID, *out.RoomID)
	})
}

func TestReservationService_CheckOut(t *testing.T) {
	ctx := context.Background()
	actor := &domain.Actor{ID: 7}

	reg := newMockRegistry()
	notifier := &mockNotifier{}
	svc := newReservationSvc(reg, notifier)

	res := testReservation()
	res.Status = domain.ReservationStatusInHouse
	room := &domain.Room{ID: 10, Number: "204", Status: domain.RoomStatusOccupied, HousekeepingStatus: domain.HousekeepingStatusClean}

	reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
	expectOpenDay(reg, ctx, res.HotelID)
	reg.rooms.On("GetByIDForUpdate", ctx, int32(10)).Return(room, nil)
	reg.rooms.On("Update", ctx, room).Return(nil)
	expectFolioSync(reg, ctx)
	reg.reservations.On("Update", ctx, res).Return(nil)

	out, err := svc.CheckOut(ctx, res.ID, actor)
	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCheckedOut, out.Status)
	assert.NotNil(t, out.ActualCheckOutAt)
	assert.Equal(t, domain.RoomStatusAvailable, room.Status)
	assert.Equal(t, domain.HousekeepingStatusDirty, room.HousekeepingStatus)
	assert.Contains(t, notifier.events, "reservation.check_out")
}

func TestReservationService_IllegalTransitions(t *testing.T) {
	ctx := context.Background()
	actor := &domain.Actor{ID: 7}

	t.Run("CancelAfterCheckOut", func(t *testing.T) {
		reg := newMockRegistry()
		svc := newReservationSvc(reg, &mockNotifier{})
		res := testReservation()
		res.Status = domain.ReservationStatusCheckedOut
		reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)

		_, err := svc.Cancel(ctx, res.ID, "changed plans", actor)
		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
		reg.reservations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("CheckOutWithoutCheckIn", func(t *testing.T) {
		reg := newMockRegistry()
		svc := newReservationSvc(reg, &mockNotifier{})
		res := testReservation()
		res.Status = domain.ReservationStatusConfirmed
		reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)

		_, err := svc.CheckOut(ctx, res.ID, actor)
		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})

	t.Run("UnknownAction", func(t *testing.T) {
		reg := newMockRegistry()
		svc := newReservationSvc(reg, &mockNotifier{})

		_, err := svc.Transition(ctx, TransitionRequest{ReservationID: 1, Action: "teleport"}, actor)
		assert.Error(t, err)
	})
}

func TestReservationService_Cancel(t *testing.T) {
	ctx := context.Background()
	actor := &domain.Actor{ID: 7}

	reg := newMockRegistry()
	notifier := &mockNotifier{}
	svc := newReservationSvc(reg, notifier)

	res := testReservation()
	room := &domain.Room{ID: 10, Number: "204", Status: domain.RoomStatusAvailable}
	reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
	expectOpenDay(reg, ctx, res.HotelID)
	reg.rooms.On("GetByID", ctx, int32(10)).Return(room, nil)
	reg.reservations.On("Update", ctx, res).Return(nil)

	out, err := svc.Cancel(ctx, res.ID, "guest request", actor)
	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, out.Status)
	assert.Contains(t, out.Notes, "guest request")
	// A never-occupied room needs no release write.
	reg.rooms.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReservationService_MarkNoShow(t *testing.T) {
	ctx := context.Background()
	actor := &domain.Actor{ID: 7}

	t.Run("BeforeArrivalDateRejected", func(t *testing.T) {
		reg := newMockRegistry()
		svc := newReservationSvc(reg, &mockNotifier{})

		res := testReservation()
		res.CheckInDate = time.Now().AddDate(0, 0, 3)
		res.CheckOutDate = time.Now().AddDate(0, 0, 6)
		reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
		expectOpenDay(reg, ctx, res.HotelID)

		_, err := svc.MarkNoShow(ctx, res.ID, actor)
		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})

	t.Run("OnArrivalDateSucceeds", func(t *testing.T) {
		reg := newMockRegistry()
		notifier := &mockNotifier{}
		svc := newReservationSvc(reg, notifier)

		res := testReservation()
		res.RoomID = nil
		res.CheckInDate = time.Now().AddDate(0, 0, -2)
		reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
		expectOpenDay(reg, ctx, res.HotelID)
		reg.reservations.On("Update", ctx, res).Return(nil)

		out, err := svc.MarkNoShow(ctx, res.ID, actor)
		assert.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusNoShow, out.Status)
		assert.Contains(t, notifier.events, "reservation.no_show")
	})
}

func TestReservationService_ClosedDay(t *testing.T) {
	ctx := context.Background()

	reg := newMockRegistry()
	svc := newReservationSvc(reg, &mockNotifier{})

	res := testReservation()
	res.Status = domain.ReservationStatusPending
	reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
	reg.hotels.On("GetByID", ctx, res.HotelID).Return(&domain.Hotel{ID: res.HotelID, Timezone: "UTC"}, nil)
	reg.closures.On("Get", ctx, res.HotelID, mock.AnythingOfType("time.Time")).
		Return(&domain.HotelDayClosure{Status: domain.ClosureStatusClosed}, nil)

	_, err := svc.Confirm(ctx, res.ID, &domain.Actor{ID: 7, Roles: []string{domain.RoleFrontDesk}})
	assert.ErrorIs(t, err, domain.ErrLockedPeriod)

	// A manager passing the override flag gets through.
	reg.rooms.On("GetByID", ctx, int32(10)).Return(&domain.Room{ID: 10, Number: "204", Status: domain.RoomStatusAvailable}, nil)
	reg.maintenance.On("HasBlockingTicket", ctx, int32(10)).Return(false, nil)
	reg.reservations.On("ListOverlapping", ctx, res.HotelID, res.RoomID, int32(0), res.CheckInDate, res.CheckOutDate, domain.ActiveStatuses, &res.ID).
		Return([]domain.Reservation{}, nil)
	expectFolioSync(reg, ctx)
	reg.reservations.On("Update", ctx, res).Return(nil)
	out, err := svc.Transition(ctx, TransitionRequest{
		ReservationID: res.ID,
		Action:        domain.ActionConfirm,
		Override:      true,
	}, &domain.Actor{ID: 8, Roles: []string{domain.RoleManager}})
	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusConfirmed, out.Status)
}

func TestReservationService_ChangeRoom(t *testing.T) {
	ctx := context.Background()
	actor := &domain.Actor{ID: 7}

	reg := newMockRegistry()
	notifier := &mockNotifier{}
	svc := newReservationSvc(reg, notifier)

	res := testReservation()
	res.Status = domain.ReservationStatusInHouse
	// A stay that is mid-flight right now, so the pivot lands strictly inside.
	res.CheckInDate = time.Now().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	res.CheckOutDate = time.Now().AddDate(0, 0, 2).Truncate(24 * time.Hour)

	oldRoom := &domain.Room{ID: 10, Number: "204", Status: domain.RoomStatusOccupied}
	newRoom := &domain.Room{ID: 11, Number: "305", Status: domain.RoomStatusAvailable}

	reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
	expectOpenDay(reg, ctx, res.HotelID)
	reg.rooms.On("GetByIDForUpdate", ctx, int32(11)).Return(newRoom, nil)
	reg.rooms.On("GetByID", ctx, int32(11)).Return(newRoom, nil)
	reg.rooms.On("GetByID", ctx, int32(10)).Return(oldRoom, nil)
	reg.maintenance.On("HasBlockingTicket", ctx, int32(11)).Return(false, nil)
	reg.reservations.On("ListOverlapping", ctx, res.HotelID, mock.Anything, int32(0), mock.Anything, mock.Anything, domain.ActiveStatuses, &res.ID).
		Return([]domain.Reservation{}, nil)
	reg.rooms.On("Update", ctx, mock.AnythingOfType("*domain.Room")).Return(nil)

	folio := openFolio()
	reg.folios.On("GetMainByReservation", ctx, res.ID).Return(folio, nil)
	reg.folios.On("ListStayItems", ctx, folio.ID).Return([]domain.FolioItem{
		{ID: 77, FolioID: folio.ID, IsStayItem: true, Quantity: 3, Meta: map[string]string{
			"from":    res.CheckInDate.Format("2006-01-02"),
			"to":      res.CheckOutDate.Format("2006-01-02"),
			"room_id": "10",
		}},
	}, nil)
	reg.folios.On("UpdateItem", ctx, mock.AnythingOfType("*domain.FolioItem")).Return(nil)
	reg.folios.On("DeleteItem", ctx, int32(77)).Return(nil)
	var tail *domain.FolioItem
	reg.folios.On("CreateItem", ctx, mock.AnythingOfType("*domain.FolioItem")).
		Run(func(args mock.Arguments) { tail = args.Get(1).(*domain.FolioItem) }).
		Return(nil)
	reg.folios.On("ListItems", ctx, folio.ID).Return([]domain.FolioItem{}, nil)
	reg.folios.On("ListPayments", ctx, folio.ID).Return([]domain.FolioPayment{}, nil)
	reg.folios.On("Update", ctx, folio).Return(nil)
	reg.reservations.On("Update", ctx, res).Return(nil)

	newRate := decimal.NewFromInt(120)
	out, err := svc.ChangeRoom(ctx, res.ID, int32(11), &newRate, actor)
	assert.NoError(t, err)
	assert.Equal(t, int32(11), *out.RoomID)
	assert.Equal(t, domain.RoomStatusAvailable, oldRoom.Status)
	assert.Equal(t, domain.HousekeepingStatusDirty, oldRoom.HousekeepingStatus)
	assert.Equal(t, domain.RoomStatusOccupied, newRoom.Status)
	assert.NotNil(t, tail)
	assert.Equal(t, "11", tail.Meta["room_id"])
	// The post-pivot segment bills at the new rate, and the reservation
	// carries it forward.
	assert.True(t, tail.UnitPrice.Equal(newRate))
	assert.True(t, out.UnitPrice.Equal(newRate))
	assert.Contains(t, notifier.events, "reservation.room_changed")
}

func TestReservationService_ChangeRoom_Guards(t *testing.T) {
	ctx := context.Background()
	actor := &domain.Actor{ID: 7}

	t.Run("RequiresInHouse", func(t *testing.T) {
		reg := newMockRegistry()
		svc := newReservationSvc(reg, &mockNotifier{})
		res := testReservation()
		res.Status = domain.ReservationStatusConfirmed
		reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)

		_, err := svc.ChangeRoom(ctx, res.ID, int32(11), nil, actor)
		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})

	t.Run("SameRoomIsNoOp", func(t *testing.T) {
		reg := newMockRegistry()
		svc := newReservationSvc(reg, &mockNotifier{})
		res := testReservation()
		res.Status = domain.ReservationStatusInHouse
		reg.reservations.On("GetByID", ctx, res.ID).Return(res, nil)

		out, err := svc.ChangeRoom(ctx, res.ID, int32(10), nil, actor)
		assert.NoError(t, err)
		assert.Equal(t, int32(10), *out.RoomID)
		reg.rooms.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
