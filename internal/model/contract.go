package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ContractType string

const (
	ContractTypeProvider     ContractType = "PROVIDER"
	ContractTypeHumanitarian ContractType = "HUMANITARIAN"
	ContractTypeParking      ContractType = "PARKING"
	ContractTypeBulk         ContractType = "BULK"
)

type Contract struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	ContractNumber    string          `json:"contract_number"`
	Type              ContractType    `json:"type"`
	Status            ContractStatus  `json:"status"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	RevenuePercentage decimal.Decimal `json:"revenue_percentage"`
	ProviderID        *uuid.UUID      `json:"provider_id"`
	HumanitarianOrgID *uuid.UUID      `json:"humanitarian_org_id"`
	ParkingServiceID  *uuid.UUID      `json:"parking_service_id"`
	LastModifiedByID  *uuid.UUID      `json:"last_modified_by_id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Services          []ServiceLink   `json:"services" gorm:"-"`
}

// ServiceLink is a contract_services row joined with its service.
type ServiceLink struct {
	ServiceID uuid.UUID   `json:"service_id"`
	Name      string      `json:"name"`
	Type      ServiceType `json:"type"`
}

// ServiceIDs returns the linked service ids in link order.
func (c Contract) ServiceIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Services))
	for _, link := range c.Services {
		ids = append(ids, link.ServiceID)
	}
	return ids
}

// IsExpired reports whether the contract is expired either by status or,
// for an ACTIVE contract, because its end date has passed.
func (c Contract) IsExpired(now time.Time) bool {
	if c.Status == ContractStatusExpired {
		return true
	}
	return c.Status == ContractStatusActive && c.EndDate.Before(now)
}

// DaysUntilExpiration counts calendar days in now's location and is
// negative once the end date has passed.
func (c Contract) DaysUntilExpiration(now time.Time) int {
	return int(calendarDay(c.EndDate.In(now.Location())).Sub(calendarDay(now)) / (24 * time.Hour))
}

// calendarDay pins t's local date to UTC midnight so day arithmetic is
// unaffected by daylight saving shifts.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (c Contract) IsExpiringSoon(now time.Time, days int) bool {
	left := c.DaysUntilExpiration(now)
	return left >= 0 && left <= days
}

// ContractUpdate is applied by the repository as a single UPDATE; nil
// fields keep the stored value.
type ContractUpdate struct {
	Status            *ContractStatus
	StartDate         *time.Time
	EndDate           *time.Time
	RevenuePercentage *decimal.Decimal
	LastModifiedByID  *uuid.UUID
	UpdatedAt         time.Time
}

// StartOfDay floors t to 00:00:00.000 in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay ceils t to 23:59:59.999 in its own location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
