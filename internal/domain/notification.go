package domain

import "time"

// Notification is a fire-and-forget event record. Failures to create one must
// never fail the underlying transition.
type Notification struct {
	ID         int32             `json:"id"`
	HotelID    int32             `json:"hotel_id"`
	EventKey   string            `json:"event_key"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedOn  time.Time         `json:"created_on"`
}
