package models

import "time"

// Role is the account role. Permission flags are derived from it on every
// read and are never stored.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHost, RoleGuest:
		return true
	}
	return false
}

// Account is a user of the platform, identified by email.
type Account struct {
	ID           string
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	PhoneNumber  string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
}

// IsStaff is true for admins and hosts.
func (a *Account) IsStaff() bool {
	return a.Role == RoleAdmin || a.Role == RoleHost
}

// IsSuperuser is true for admins only.
func (a *Account) IsSuperuser() bool {
	return a.Role == RoleAdmin
}
