// Package repository implements data access over database/sql. This file
// defines sentinel error values reused across repositories so handlers can
// distinguish failure scenarios.
package repository

import "errors"

// ErrUsernameExists is returned when registration collides with an
// existing username. Handlers surface it as a field-level error.
var ErrUsernameExists = errors.New("username already exists")

// dateLayout is the wire and SQL literal format for DATE columns.
const dateLayout = "2006-01-02"
