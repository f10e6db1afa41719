package services

import (
	"errors"

	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

// Sentinel errors for the failure taxonomy service operations resolve to.
// Handlers translate these to HTTP statuses; anything else is treated as a
// persistence failure and surfaces as a generic 500.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the actor lacks the required capability or ownership.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation means an enum or field constraint was violated.
	ErrValidation = errors.New("validation failed")
)

// Actor is the authorization context supplied to every mutating operation:
// the identity and role of the acting user. Services treat it as an opaque
// capability check (admin, or ownership of the record).
type Actor struct {
	UserID  utils.SixID
	IsAdmin bool
}

// Owns reports whether the actor owns a record with the given owner id.
// A nil owner (orphaned record) is owned by nobody.
func (a Actor) Owns(ownerID *utils.SixID) bool {
	return ownerID != nil && a.UserID == *ownerID && a.UserID != (utils.SixID{})
}
