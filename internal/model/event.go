package model

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventStatusChanged    EventKind = "STATUS_CHANGED"
	EventRenewalSubStatus EventKind = "RENEWAL_SUB_STATUS"
	EventRenewalCompleted EventKind = "RENEWAL_COMPLETED"
)

type StatusChangeEvent struct {
	Kind       EventKind
	ContractID uuid.UUID
	From       string
	To         string
	Comment    *string
	ActorID    *uuid.UUID
	At         time.Time
}
