package revenue

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/partner-contracts/internal/config"
)

// Pricing holds the bulk messaging tariff. The volume rate applies to a
// whole calendar month once that month reaches VolumeThreshold messages.
type Pricing struct {
	VolumeThreshold int64
	StandardRate    decimal.Decimal
	VolumeRate      decimal.Decimal
	RecordFee       decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		VolumeThreshold: 1000000,
		StandardRate:    decimal.RequireFromString("1.50"),
		VolumeRate:      decimal.RequireFromString("1.20"),
		RecordFee:       decimal.NewFromInt(1000),
	}
}

func PricingFromConfig(cfg config.RevenueConfig) Pricing {
	return Pricing{
		VolumeThreshold: cfg.BulkVolumeThreshold,
		StandardRate:    cfg.BulkRateStandard,
		VolumeRate:      cfg.BulkRateVolume,
		RecordFee:       cfg.BulkRecordFee,
	}
}

func (p Pricing) messageRate(monthMessages int64) decimal.Decimal {
	if monthMessages >= p.VolumeThreshold {
		return p.VolumeRate
	}
	return p.StandardRate
}
