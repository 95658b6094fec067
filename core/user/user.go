// Package user provides the registered user model.
package user

import "time"

// User is a registered identity. Users are never deleted or renamed.
type User struct {
	// ID is the caller-assigned unique identifier.
	ID string `json:"user_id"`
	// Name is a display name only; it is not unique.
	Name string `json:"user_name"`
	// RegisteredAt is the registration time.
	RegisteredAt time.Time `json:"registered_at"`
}

// New creates a User registered at the given time.
func New(id, name string, registeredAt time.Time) *User {
	return &User{
		ID:           id,
		Name:         name,
		RegisteredAt: registeredAt,
	}
}
