package model

import "time"

// User represents a registered account. Users can like and comment on
// past events and submit booking requests. Accounts with the ORGANIZER
// role additionally manage the event catalogue and answer bookings.
//
// Fields:
//
//	ID           – primary key identifier.
//	Username     – unique login name.
//	FirstName    – display name collected at registration.
//	PasswordHash – bcrypt hash of the password.
//	Role         – USER or ORGANIZER.
//	CreatedAt    – timestamp when the account was created.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	FirstName    string    // users.first_name
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}
