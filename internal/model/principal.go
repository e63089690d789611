package model

import "github.com/google/uuid"

// Principal is the caller attached by the auth middleware. It is used for
// audit attribution only.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

func (p Principal) ActorID() *uuid.UUID {
	if p.UserID == uuid.Nil {
		return nil
	}
	id := p.UserID
	return &id
}
