package model

import "time"

// EventInfo is the field set shared by past and upcoming events. The two
// event kinds are independent tables with identical columns rather than a
// single table with a status flag: an upcoming event is deleted when the
// lifecycle sweep promotes it, and the created past event owns the likes
// and comments from then on.
//
// Fields:
//
//	ID          – primary key identifier.
//	Name        – event title.
//	Description – optional longer description.
//	Date        – calendar date of the event (stored as DATE, UTC).
//	Location    – venue or place.
//	ImagePath   – optional stored image file path.
//	CreatedAt   – row creation timestamp.
type EventInfo struct {
	ID          uint64    // id
	Name        string    // name
	Description *string   // description (nullable)
	Date        time.Time // date (DATE column)
	Location    string    // location
	ImagePath   *string   // image_path (nullable)
	CreatedAt   time.Time // created_at
}

// PastEvent is an event whose date has already occurred. Rows come from
// the lifecycle sweep or from direct organizer creation.
type PastEvent struct {
	EventInfo
}

// UpcomingEvent is a scheduled future event. Its date is what booking
// requests are checked against, and the lifecycle sweep removes it once
// the date has elapsed.
type UpcomingEvent struct {
	EventInfo
}
