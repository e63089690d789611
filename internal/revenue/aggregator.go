package revenue

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/partner-contracts/internal/model"
)

const unknownServiceName = "Unknown Service"

// TransactionSource is the read side of the usage tables.
type TransactionSource interface {
	SumVAS(ctx context.Context, serviceID, providerID uuid.UUID, period model.Period) (decimal.Decimal, error)
	ListBulk(ctx context.Context, serviceID uuid.UUID, period model.Period) ([]model.BulkTransaction, error)
	ListParking(ctx context.Context, parkingServiceID uuid.UUID, serviceIDs []uuid.UUID, period model.Period) ([]model.ParkingTransaction, error)
}

// contribution is one aggregator's gross amount for one service.
type contribution struct {
	ServiceID uuid.UUID
	Name      string
	Amount    decimal.Decimal
	Details   *model.BulkDetails
}

func aggregateVAS(
	ctx context.Context,
	source TransactionSource,
	contract model.Contract,
	link model.ServiceLink,
	period model.Period,
) (*contribution, error) {
	if contract.ProviderID == nil {
		return nil, nil
	}
	total, err := source.SumVAS(ctx, link.ServiceID, *contract.ProviderID, period)
	if err != nil {
		return nil, err
	}
	return &contribution{ServiceID: link.ServiceID, Name: link.Name, Amount: total}, nil
}

type monthTotals struct {
	messages int64
	records  int64
}

// BulkRevenue prices batch records month by month. Records without a charge
// date are not priced; their count is returned as skipped.
func BulkRevenue(records []model.BulkTransaction, pricing Pricing) (decimal.Decimal, model.BulkDetails, int) {
	months := make(map[string]*monthTotals)
	skipped := 0
	for _, record := range records {
		if record.DatumNaplate == nil {
			skipped++
			continue
		}
		key := record.DatumNaplate.UTC().Format("2006-01")
		totals, ok := months[key]
		if !ok {
			totals = &monthTotals{}
			months[key] = totals
		}
		totals.messages += record.MessageParts
		totals.records++
	}

	keys := make([]string, 0, len(months))
	for key := range months {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	details := model.BulkDetails{
		MessageRevenue: decimal.Zero,
		RecordRevenue:  decimal.Zero,
	}
	for _, key := range keys {
		totals := months[key]
		messages := decimal.NewFromInt(totals.messages)
		details.Messages += totals.messages
		details.MessageRevenue = details.MessageRevenue.Add(messages.Mul(pricing.messageRate(totals.messages)))
		details.Records += totals.records
		details.RecordRevenue = details.RecordRevenue.Add(decimal.NewFromInt(totals.records).Mul(pricing.RecordFee))
	}

	return details.MessageRevenue.Add(details.RecordRevenue), details, skipped
}

func aggregateBulk(
	ctx context.Context,
	source TransactionSource,
	pricing Pricing,
	link model.ServiceLink,
	period model.Period,
) (*contribution, int, error) {
	records, err := source.ListBulk(ctx, link.ServiceID, period)
	if err != nil {
		return nil, 0, err
	}
	total, details, skipped := BulkRevenue(records, pricing)
	return &contribution{
		ServiceID: link.ServiceID,
		Name:      link.Name,
		Amount:    total,
		Details:   &details,
	}, skipped, nil
}

// aggregateParking attributes parking revenue per service in the order the
// services first appear in the transaction scan.
func aggregateParking(
	ctx context.Context,
	source TransactionSource,
	contract model.Contract,
	period model.Period,
) ([]contribution, error) {
	if contract.ParkingServiceID == nil || len(contract.Services) == 0 {
		return nil, nil
	}
	txs, err := source.ListParking(ctx, *contract.ParkingServiceID, contract.ServiceIDs(), period)
	if err != nil {
		return nil, err
	}

	var result []contribution
	index := make(map[uuid.UUID]int)
	for _, tx := range txs {
		pos, ok := index[tx.ServiceID]
		if !ok {
			name := unknownServiceName
			if tx.ServiceName != nil && *tx.ServiceName != "" {
				name = *tx.ServiceName
			}
			result = append(result, contribution{ServiceID: tx.ServiceID, Name: name, Amount: decimal.Zero})
			pos = len(result) - 1
			index[tx.ServiceID] = pos
		}
		result[pos].Amount = result[pos].Amount.Add(tx.Amount)
	}
	return result, nil
}
