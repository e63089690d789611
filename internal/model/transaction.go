package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ServiceType string

const (
	ServiceTypeVAS          ServiceType = "VAS"
	ServiceTypeBulk         ServiceType = "BULK"
	ServiceTypeHumanitarian ServiceType = "HUMANITARIAN"
	ServiceTypeParking      ServiceType = "PARKING"
)

// BulkTransaction is one batch record; a nil DatumNaplate means the batch
// has not been charged yet.
type BulkTransaction struct {
	ID           uuid.UUID
	ServiceID    uuid.UUID
	Requests     int64
	MessageParts int64
	DatumNaplate *time.Time
}

type ParkingTransaction struct {
	ID               uuid.UUID
	ServiceID        uuid.UUID
	ParkingServiceID uuid.UUID
	ServiceName      *string
	Amount           decimal.Decimal
	Date             time.Time
}
