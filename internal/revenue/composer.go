package revenue

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/partner-contracts/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Compose merges contributions per service, keeping the order of first
// contribution, and splits the total by the platform's revenue share.
// Services whose gross is zero are left out of the breakdown.
func Compose(contributions []contribution, revenuePercentage decimal.Decimal) *model.CalculatedRevenueData {
	result := model.EmptyRevenue()

	index := make(map[uuid.UUID]int)
	for _, c := range contributions {
		if c.Amount.IsZero() {
			continue
		}
		pos, ok := index[c.ServiceID]
		if !ok {
			result.ServiceBreakdown = append(result.ServiceBreakdown, model.ServiceRevenue{
				ID:            c.ServiceID,
				Name:          c.Name,
				RevenueAmount: decimal.Zero,
			})
			pos = len(result.ServiceBreakdown) - 1
			index[c.ServiceID] = pos
		}
		entry := &result.ServiceBreakdown[pos]
		entry.RevenueAmount = entry.RevenueAmount.Add(c.Amount)
		if c.Details != nil {
			entry.Details = mergeDetails(entry.Details, c.Details)
		}
		result.TotalGrossRevenue = result.TotalGrossRevenue.Add(c.Amount)
	}

	for i := range result.ServiceBreakdown {
		entry := &result.ServiceBreakdown[i]
		if result.TotalGrossRevenue.IsZero() {
			entry.Percentage = decimal.Zero
			continue
		}
		entry.Percentage = entry.RevenueAmount.Div(result.TotalGrossRevenue).Mul(hundred)
	}

	result.PlatformRevenue = result.TotalGrossRevenue.Mul(revenuePercentage).Div(hundred)
	result.PartnerRevenue = result.TotalGrossRevenue.Sub(result.PlatformRevenue)
	return result
}

func mergeDetails(into, from *model.BulkDetails) *model.BulkDetails {
	if into == nil {
		copied := *from
		return &copied
	}
	into.Messages += from.Messages
	into.MessageRevenue = into.MessageRevenue.Add(from.MessageRevenue)
	into.Records += from.Records
	into.RecordRevenue = into.RecordRevenue.Add(from.RecordRevenue)
	return into
}
