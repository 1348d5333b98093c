package model

import "time"

// Booking is a user's request for a new event on a given date. It
// deliberately has no foreign key to the event tables: the request
// describes an event that does not exist yet, so the event fields are
// duplicated on the row. BandResponse starts as "Pending" and is later
// filled in by an organizer.
//
// Fields:
//
//	ID           – primary key identifier.
//	EventName    – requested event title (optional).
//	UserID       – user who submitted the request.
//	Description  – optional notes for the organizer.
//	Location     – optional requested venue.
//	ImagePath    – optional stored image file path.
//	BookingDate  – requested calendar date.
//	BandResponse – organizer answer, default "Pending".
//	CreatedAt    – row creation timestamp.
type Booking struct {
	ID           uint64    // bookings.id
	EventName    *string   // bookings.event_name (nullable)
	UserID       uint64    // bookings.user_id
	Description  *string   // bookings.description (nullable)
	Location     *string   // bookings.location (nullable)
	ImagePath    *string   // bookings.image_path (nullable)
	BookingDate  time.Time // bookings.booking_date (DATE column)
	BandResponse string    // bookings.band_response
	CreatedAt    time.Time // bookings.created_at
}
