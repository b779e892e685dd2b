package domain

import "github.com/google/uuid"

// Identity is the caller as resolved by the identity provider.
// The zero value is an anonymous caller.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// Anonymous returns an identity without a registered user
func Anonymous() Identity {
	return Identity{}
}

// IsAnonymous returns true if the caller is not a registered user
func (i Identity) IsAnonymous() bool {
	return i.UserID == uuid.Nil
}

// UserIDPtr returns the user id for persistence, nil when anonymous
func (i Identity) UserIDPtr() *uuid.UUID {
	if i.IsAnonymous() {
		return nil
	}
	id := i.UserID
	return &id
}
