package models

import "time"

// User represents an authenticated account, created lazily on the first
// chat turn (or sign-in) from a previously unseen email.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      *string   `json:"name,omitempty" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
