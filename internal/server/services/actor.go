// Package services contains server-side business logic: accounts and
// tokens, listings, bookings, payments and reviews. Services receive the
// authenticated caller as an Actor and enforce ownership rules themselves.
package services

import (
	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/server/models"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Role models.Role
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

// CanHost reports whether the actor may own listings.
func (a *Actor) CanHost() bool {
	return a != nil && (a.Role == models.RoleHost || a.Role == models.RoleAdmin)
}

// owns reports whether the actor is ownerID or an admin.
func (a *Actor) owns(ownerID string) bool {
	return a.IsAdmin() || (a != nil && a.ID == ownerID)
}

func requireActor(a *Actor) error {
	if a == nil || a.ID == "" {
		return common.ErrorUnauthorized
	}
	return nil
}

func requireAdmin(a *Actor) error {
	if err := requireActor(a); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return common.ErrorForbidden
	}
	return nil
}
