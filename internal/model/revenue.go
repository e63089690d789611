package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period is an inclusive calculation window.
type Period struct {
	Start time.Time
	End   time.Time
}

type BulkDetails struct {
	Messages       int64           `json:"messages"`
	MessageRevenue decimal.Decimal `json:"message_revenue"`
	Records        int64           `json:"records"`
	RecordRevenue  decimal.Decimal `json:"record_revenue"`
}

type ServiceRevenue struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	RevenueAmount decimal.Decimal `json:"revenue_amount"`
	Percentage    decimal.Decimal `json:"percentage"`
	Details       *BulkDetails    `json:"details,omitempty"`
}

// CalculatedRevenueData is recomputed on every request and never stored.
// Degraded is set when a read failed and the figures may be understated.
type CalculatedRevenueData struct {
	TotalGrossRevenue decimal.Decimal  `json:"total_gross_revenue"`
	PlatformRevenue   decimal.Decimal  `json:"platform_revenue"`
	PartnerRevenue    decimal.Decimal  `json:"partner_revenue"`
	ServiceBreakdown  []ServiceRevenue `json:"service_breakdown"`
	Degraded          bool             `json:"degraded,omitempty"`
}

func EmptyRevenue() *CalculatedRevenueData {
	return &CalculatedRevenueData{
		TotalGrossRevenue: decimal.Zero,
		PlatformRevenue:   decimal.Zero,
		PartnerRevenue:    decimal.Zero,
		ServiceBreakdown:  []ServiceRevenue{},
	}
}
