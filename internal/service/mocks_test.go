package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/repository"
)

// MockHotelRepo
type MockHotelRepo struct {
	mock.Mock
}

func (m *MockHotelRepo) GetByID(ctx context.Context, id int32) (*domain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}
func (m *MockHotelRepo) List(ctx context.Context) ([]domain.Hotel, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

// MockRoomRepo
type MockRoomRepo struct {
	mock.Mock
}

func (m *MockRoomRepo) GetByID(ctx context.Context, id int32) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}
func (m *MockRoomRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}
func (m *MockRoomRepo) Update(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}
func (m *MockRoomRepo) CountSellableByType(ctx context.Context, hotelID, roomTypeID int32) (int32, error) {
	args := m.Called(ctx, hotelID, roomTypeID)
	return args.Get(0).(int32), args.Error(1)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) Update(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockReservationRepo) ListOverlapping(ctx context.Context, hotelID int32, roomID *int32, roomTypeID int32, checkIn, checkOut time.Time, statuses []domain.ReservationStatus, excludeID *int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, hotelID, roomID, roomTypeID, checkIn, checkOut, statuses, excludeID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) CountOverlappingByType(ctx context.Context, hotelID, roomTypeID int32, checkIn, checkOut time.Time, statuses []domain.ReservationStatus, excludeID *int32) (int32, error) {
	args := m.Called(ctx, hotelID, roomTypeID, checkIn, checkOut, statuses, excludeID)
	return args.Get(0).(int32), args.Error(1)
}

// MockOfferRepo
type MockOfferRepo struct {
	mock.Mock
}

func (m *MockOfferRepo) GetByID(ctx context.Context, id int32) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

// MockFolioRepo
type MockFolioRepo struct {
	mock.Mock
}

func (m *MockFolioRepo) Create(ctx context.Context, folio *domain.Folio) error {
	args := m.Called(ctx, folio)
	return args.Error(0)
}
func (m *MockFolioRepo) GetByID(ctx context.Context, id int32) (*domain.Folio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Folio), args.Error(1)
}
func (m *MockFolioRepo) GetMainByReservation(ctx context.Context, reservationID int32) (*domain.Folio, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Folio), args.Error(1)
}
func (m *MockFolioRepo) Update(ctx context.Context, folio *domain.Folio) error {
	args := m.Called(ctx, folio)
	return args.Error(0)
}
func (m *MockFolioRepo) CreateItem(ctx context.Context, item *domain.FolioItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockFolioRepo) UpdateItem(ctx context.Context, item *domain.FolioItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockFolioRepo) DeleteItem(ctx context.Context, itemID int32) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}
func (m *MockFolioRepo) ListItems(ctx context.Context, folioID int32) ([]domain.FolioItem, error) {
	args := m.Called(ctx, folioID)
	return args.Get(0).([]domain.FolioItem), args.Error(1)
}
func (m *MockFolioRepo) ListStayItems(ctx context.Context, folioID int32) ([]domain.FolioItem, error) {
	args := m.Called(ctx, folioID)
	return args.Get(0).([]domain.FolioItem), args.Error(1)
}
func (m *MockFolioRepo) CreatePayment(ctx context.Context, p *domain.FolioPayment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockFolioRepo) GetPayment(ctx context.Context, id int32) (*domain.FolioPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioPayment), args.Error(1)
}
func (m *MockFolioRepo) UpdatePayment(ctx context.Context, p *domain.FolioPayment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockFolioRepo) ListPayments(ctx context.Context, folioID int32) ([]domain.FolioPayment, error) {
	args := m.Called(ctx, folioID)
	return args.Get(0).([]domain.FolioPayment), args.Error(1)
}

// MockInvoiceRepo
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
func (m *MockInvoiceRepo) GetByID(ctx context.Context, id int32) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

// MockClosureRepo
type MockClosureRepo struct {
	mock.Mock
}

func (m *MockClosureRepo) Get(ctx context.Context, hotelID int32, businessDate time.Time) (*domain.HotelDayClosure, error) {
	args := m.Called(ctx, hotelID, businessDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HotelDayClosure), args.Error(1)
}
func (m *MockClosureRepo) Upsert(ctx context.Context, c *domain.HotelDayClosure) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockMaintenanceRepo
type MockMaintenanceRepo struct {
	mock.Mock
}

func (m *MockMaintenanceRepo) HasBlockingTicket(ctx context.Context, roomID int32) (bool, error) {
	args := m.Called(ctx, roomID)
	return args.Bool(0), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

// mockRegistry bundles all repository mocks into one Registry for tests.
type mockRegistry struct {
	hotels        *MockHotelRepo
	rooms         *MockRoomRepo
	reservations  *MockReservationRepo
	offers        *MockOfferRepo
	folios        *MockFolioRepo
	invoices      *MockInvoiceRepo
	closures      *MockClosureRepo
	maintenance   *MockMaintenanceRepo
	notifications *MockNotificationRepo
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{
		hotels:        new(MockHotelRepo),
		rooms:         new(MockRoomRepo),
		reservations:  new(MockReservationRepo),
		offers:        new(MockOfferRepo),
		folios:        new(MockFolioRepo),
		invoices:      new(MockInvoiceRepo),
		closures:      new(MockClosureRepo),
		maintenance:   new(MockMaintenanceRepo),
		notifications: new(MockNotificationRepo),
	}
}

func (m *mockRegistry) registry() repository.Registry {
	return repository.Registry{
		Hotels:        m.hotels,
		Rooms:         m.rooms,
		Reservations:  m.reservations,
		Offers:        m.offers,
		Folios:        m.folios,
		Invoices:      m.invoices,
		Closures:      m.closures,
		Maintenance:   m.maintenance,
		Notifications: m.notifications,
	}
}

// mockAtomic runs the transactional function directly against the mock
// registry, with no real transaction underneath.
type mockAtomic struct {
	reg *mockRegistry
}

func (m *mockAtomic) WithinTx(ctx context.Context, fn func(r repository.Registry) error) error {
	return fn(m.reg.registry())
}

// mockNotifier records events without side effects.
type mockNotifier struct {
	events []string
}

func (m *mockNotifier) Notify(ctx context.Context, hotelID int32, eventKey, title, message string, attrs map[string]string) {
	m.events = append(m.events, eventKey)
}

// mockTimeRule returns a fixed offer kind and name.
type mockTimeRule struct {
	kind domain.OfferKind
	name string
}

func (m *mockTimeRule) Resolve(ctx context.Context, offerID *int32) (domain.OfferKind, string, error) {
	if m.kind == "" {
		return domain.OfferKindFullDay, m.name, nil
	}
	return m.kind, m.name, nil
}
