package models

import "time"

// UserToken represents a persisted refresh token for a user.
// Deleting the row revokes the token before its signature expires.
type UserToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}
