package models

import "time"

// RefreshToken is a server-stored opaque token that can be exchanged once
// for a new access/refresh pair.
type RefreshToken struct {
	ID        string
	AccountID string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
