package booking

import "courtside/internal/domain/shared/events"

const (
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"
)

type BookingCreated struct {
	events.BaseEvent
	Booking Snapshot `json:"booking"`
}

type BookingStatusChanged struct {
	events.BaseEvent
	OldStatus Status   `json:"old_status"`
	NewStatus Status   `json:"new_status"`
	Booking   Snapshot `json:"booking"`
}
