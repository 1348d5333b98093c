package model

// Like records that a user liked a past event. At most one row exists per
// (event, user) pair; liking again removes the row. Like counts are always
// derived by counting rows, there is no counter column.
type Like struct {
	ID      uint64 // likes.id
	EventID uint64 // likes.event_id -> past_events.id
	UserID  uint64 // likes.user_id -> users.id
}
