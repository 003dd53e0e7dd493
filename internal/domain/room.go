package domain

import "time"

type RoomStatus string

const (
	RoomStatusAvailable  RoomStatus = "AVAILABLE"
	RoomStatusOccupied   RoomStatus = "OCCUPIED"
	RoomStatusOutOfOrder RoomStatus = "OUT_OF_ORDER"
)

// HousekeepingStatus is owned by the housekeeping subsystem. This core only
// ever writes the DIRTY signal on checkout and never branches on the value.
type HousekeepingStatus string

const (
	HousekeepingStatusClean     HousekeepingStatus = "CLEAN"
	HousekeepingStatusDirty     HousekeepingStatus = "DIRTY"
	HousekeepingStatusInspected HousekeepingStatus = "INSPECTED"
)

type Room struct {
	ID         int32  `json:"id"`
	TenantID   int32  `json:"tenant_id"`
	HotelID    int32  `json:"hotel_id"`
	RoomTypeID int32  `json:"room_type_id"`
	Number     string `json:"number"`

	Status             RoomStatus         `json:"status"`
	HousekeepingStatus HousekeepingStatus `json:"housekeeping_status"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// MaintenanceTicket blocks a room from sale while open and flagged blocks_sale.
type MaintenanceTicket struct {
	ID          int32      `json:"id"`
	HotelID     int32      `json:"hotel_id"`
	RoomID      int32      `json:"room_id"`
	Status      string     `json:"status"` // OPEN or RESOLVED
	BlocksSale  bool       `json:"blocks_sale"`
	Description string     `json:"description,omitempty"`
	CreatedOn   time.Time  `json:"created_on"`
	ResolvedOn  *time.Time `json:"resolved_on,omitempty"`
}
