package queue

// BookingRequestedEvent is published when a user submits a booking
// request. It carries enough information for downstream consumers (the
// booking journal, notification tooling) without querying the primary
// database.
type BookingRequestedEvent struct {
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	Username    string `json:"username"`
	EventName   string `json:"event_name"`
	Location    string `json:"location"`
	BookingDate string `json:"booking_date"`
	RequestedAt string `json:"requested_at"`
}
