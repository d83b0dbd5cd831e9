package models

import "time"

// User is the public identity of an account. The password hash lives only in
// Postgres and is never carried on this struct.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
