package model

import "time"

// User owns accounts and transfers. Authentication is handled outside
// this core; here a user is just the ownership scope every operation is
// checked against.
type User struct {
	CreatedAt time.Time
	Name      string
	Email     string
	ID        int64
}
