package models

import "time"

// User is a journal account. PasswordHash is a bcrypt hash and never
// serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
