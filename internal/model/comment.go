package model

import "time"

// Comment is a review left by a user on a past event. The creation date
// and time are assigned by the server at insert; clients only supply the
// text and the rating. A user may comment on the same event any number
// of times.
//
// Fields:
//
//	ID         – primary key identifier.
//	UserID     – author of the comment.
//	EventID    – past event being reviewed.
//	ReviewText – review body, at most 1000 characters.
//	Rating     – integer rating between 1 and 5 inclusive.
//	Date       – creation date (DATE column).
//	Time       – creation time of day (TIME column).
type Comment struct {
	ID         uint64    // comments.id
	UserID     uint64    // comments.user_id
	EventID    uint64    // comments.event_id
	ReviewText string    // comments.review_text
	Rating     int       // comments.rating
	Date       time.Time // comments.date
	Time       string    // comments.time (HH:MM:SS)
}
