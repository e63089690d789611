package revenue

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/partner-contracts/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComposeSplitAndOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	contributions := []contribution{
		{ServiceID: b, Name: "B", Amount: dec("100")},
		{ServiceID: a, Name: "A", Amount: dec("0")},
		{ServiceID: c, Name: "C", Amount: dec("50")},
		{ServiceID: b, Name: "B", Amount: dec("50")},
	}

	result := Compose(contributions, dec("20"))

	assert.True(t, dec("200").Equal(result.TotalGrossRevenue))
	assert.True(t, dec("40").Equal(result.PlatformRevenue))
	assert.True(t, dec("160").Equal(result.PartnerRevenue))
	require.Len(t, result.ServiceBreakdown, 2)
	assert.Equal(t, b, result.ServiceBreakdown[0].ID)
	assert.True(t, dec("150").Equal(result.ServiceBreakdown[0].RevenueAmount))
	assert.True(t, dec("75").Equal(result.ServiceBreakdown[0].Percentage))
	assert.Equal(t, c, result.ServiceBreakdown[1].ID)
	assert.True(t, dec("25").Equal(result.ServiceBreakdown[1].Percentage))
}

func TestComposePercentagesSumToHundred(t *testing.T) {
	var contributions []contribution
	for _, amount := range []string{"1", "1", "1", "7.25", "0.01"} {
		contributions = append(contributions, contribution{ServiceID: uuid.New(), Amount: dec(amount)})
	}

	result := Compose(contributions, dec("33.3"))

	sum := decimal.Zero
	for _, entry := range result.ServiceBreakdown {
		sum = sum.Add(entry.Percentage)
	}
	f, _ := sum.Float64()
	assert.InDelta(t, 100, f, 1e-9)
	assert.True(t, result.TotalGrossRevenue.Equal(result.PlatformRevenue.Add(result.PartnerRevenue)))
}

func TestComposeEmpty(t *testing.T) {
	result := Compose(nil, dec("50"))

	assert.True(t, result.TotalGrossRevenue.IsZero())
	assert.True(t, result.PlatformRevenue.IsZero())
	assert.True(t, result.PartnerRevenue.IsZero())
	assert.NotNil(t, result.ServiceBreakdown)
	assert.Empty(t, result.ServiceBreakdown)
}

func TestComposeMergesBulkDetails(t *testing.T) {
	id := uuid.New()
	contributions := []contribution{
		{ServiceID: id, Amount: dec("1150"), Details: &model.BulkDetails{Messages: 100, MessageRevenue: dec("150"), Records: 1, RecordRevenue: dec("1000")}},
		{ServiceID: id, Amount: dec("1150"), Details: &model.BulkDetails{Messages: 100, MessageRevenue: dec("150"), Records: 1, RecordRevenue: dec("1000")}},
	}

	result := Compose(contributions, dec("10"))

	require.Len(t, result.ServiceBreakdown, 1)
	details := result.ServiceBreakdown[0].Details
	require.NotNil(t, details)
	assert.Equal(t, int64(200), details.Messages)
	assert.Equal(t, int64(2), details.Records)
	assert.True(t, dec("2000").Equal(details.RecordRevenue))
	// the caller's details are not mutated
	assert.Equal(t, int64(100), contributions[0].Details.Messages)
}
