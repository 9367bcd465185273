package model

import "time"

// User is a registered account. PasswordHash is cleared before the record
// leaves the service layer.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AuthIdentity is the client-side view of a signed-in user: the user record
// plus the bearer token that authorizes persistence calls.
type AuthIdentity struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
