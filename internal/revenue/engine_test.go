package revenue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/partner-contracts/internal/model"
	"github.com/nurpe/partner-contracts/internal/repository"
	"github.com/nurpe/partner-contracts/internal/testutil"
)

type recordingObserver struct {
	outcomes []string
}

func (o *recordingObserver) ObserveRevenueCalculation(outcome string, _ time.Duration) {
	o.outcomes = append(o.outcomes, outcome)
}

type mockContracts struct {
	mock.Mock
}

func (m *mockContracts) GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	args := m.Called(ctx, id)
	contract, _ := args.Get(0).(*model.Contract)
	return contract, args.Error(1)
}

type mockTransactions struct {
	mock.Mock
}

func (m *mockTransactions) SumVAS(ctx context.Context, serviceID, providerID uuid.UUID, period model.Period) (decimal.Decimal, error) {
	args := m.Called(ctx, serviceID, providerID, period)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockTransactions) ListBulk(ctx context.Context, serviceID uuid.UUID, period model.Period) ([]model.BulkTransaction, error) {
	args := m.Called(ctx, serviceID, period)
	records, _ := args.Get(0).([]model.BulkTransaction)
	return records, args.Error(1)
}

func (m *mockTransactions) ListParking(ctx context.Context, parkingServiceID uuid.UUID, serviceIDs []uuid.UUID, period model.Period) ([]model.ParkingTransaction, error) {
	args := m.Called(ctx, parkingServiceID, serviceIDs, period)
	txs, _ := args.Get(0).([]model.ParkingTransaction)
	return txs, args.Error(1)
}

func newDBEngine(t *testing.T) (*gorm.DB, *Engine, *recordingObserver) {
	t.Helper()
	db := testutil.OpenDB(t)
	observer := &recordingObserver{}
	engine := NewEngine(
		repository.NewContractRepository(db),
		repository.NewTransactionRepository(db),
		DefaultPricing(),
		observer,
		zerolog.Nop(),
	)
	return db, engine, observer
}

func yearContract(contractType model.ContractType, pct int64) model.Contract {
	return model.Contract{
		Type:              contractType,
		Status:            model.ContractStatusActive,
		StartDate:         testutil.Date(2024, time.January, 1),
		EndDate:           testutil.Date(2024, time.December, 31),
		RevenuePercentage: decimal.NewFromInt(pct),
	}
}

func TestEngineVASRevenue(t *testing.T) {
	db, engine, observer := newDBEngine(t)

	provider := uuid.New()
	c := yearContract(model.ContractTypeProvider, 20)
	c.ProviderID = &provider
	c = testutil.InsertContract(t, db, c)
	serviceID := testutil.LinkService(t, db, c.ID, "Horoscope", model.ServiceTypeVAS)

	testutil.InsertVAS(t, db, serviceID, provider, "100", testutil.Noon(2024, time.March, 3))
	testutil.InsertVAS(t, db, serviceID, provider, "50", testutil.Noon(2024, time.March, 20))
	testutil.InsertVAS(t, db, serviceID, uuid.New(), "999", testutil.Noon(2024, time.March, 20))
	testutil.InsertVAS(t, db, serviceID, provider, "77", testutil.Noon(2024, time.April, 2))

	start := testutil.Date(2024, time.March, 1)
	end := testutil.Date(2024, time.March, 31)
	result := engine.CalculateContractRevenue(context.Background(), c.ID, &start, &end)

	require.NotNil(t, result)
	assert.False(t, result.Degraded)
	assert.True(t, decimal.NewFromInt(150).Equal(result.TotalGrossRevenue), result.TotalGrossRevenue.String())
	assert.True(t, decimal.NewFromInt(30).Equal(result.PlatformRevenue), result.PlatformRevenue.String())
	assert.True(t, decimal.NewFromInt(120).Equal(result.PartnerRevenue), result.PartnerRevenue.String())
	require.Len(t, result.ServiceBreakdown, 1)
	assert.Equal(t, serviceID, result.ServiceBreakdown[0].ID)
	assert.Equal(t, "Horoscope", result.ServiceBreakdown[0].Name)
	assert.True(t, decimal.NewFromInt(100).Equal(result.ServiceBreakdown[0].Percentage))
	assert.Equal(t, []string{OutcomeOK}, observer.outcomes)
}

func TestEngineBulkRevenue(t *testing.T) {
	db, engine, _ := newDBEngine(t)

	c := testutil.InsertContract(t, db, yearContract(model.ContractTypeBulk, 10))
	serviceID := testutil.LinkService(t, db, c.ID, "Mass SMS", model.ServiceTypeBulk)

	charged := testutil.Noon(2024, time.June, 10)
	testutil.InsertBulk(t, db, serviceID, 1, 400, &charged)
	testutil.InsertBulk(t, db, serviceID, 1, 600, &charged)
	testutil.InsertBulk(t, db, serviceID, 1, 5000, nil)

	result := engine.CalculateContractRevenue(context.Background(), c.ID, nil, nil)

	require.NotNil(t, result)
	// 1000 messages at 1.50 plus two records at 1000
	assert.True(t, decimal.NewFromInt(3500).Equal(result.TotalGrossRevenue), result.TotalGrossRevenue.String())
	require.Len(t, result.ServiceBreakdown, 1)
	details := result.ServiceBreakdown[0].Details
	require.NotNil(t, details)
	assert.Equal(t, int64(1000), details.Messages)
	assert.Equal(t, int64(2), details.Records)
}

func TestEngineParkingAttribution(t *testing.T) {
	db, engine, _ := newDBEngine(t)

	operator := uuid.New()
	c := yearContract(model.ContractTypeParking, 50)
	c.ParkingServiceID = &operator
	c = testutil.InsertContract(t, db, c)
	first := testutil.LinkService(t, db, c.ID, "City Center", model.ServiceTypeParking)
	unnamed := testutil.LinkService(t, db, c.ID, "", model.ServiceTypeParking)
	unlinked := uuid.New()

	testutil.InsertParking(t, db, unnamed, operator, "40", testutil.Noon(2024, time.February, 1))
	testutil.InsertParking(t, db, first, operator, "60", testutil.Noon(2024, time.February, 2))
	testutil.InsertParking(t, db, first, operator, "100", testutil.Noon(2024, time.February, 3))
	testutil.InsertParking(t, db, first, uuid.New(), "500", testutil.Noon(2024, time.February, 3))
	testutil.InsertParking(t, db, unlinked, operator, "500", testutil.Noon(2024, time.February, 3))

	result := engine.CalculateContractRevenue(context.Background(), c.ID, nil, nil)

	require.NotNil(t, result)
	assert.True(t, decimal.NewFromInt(200).Equal(result.TotalGrossRevenue), result.TotalGrossRevenue.String())
	assert.True(t, decimal.NewFromInt(100).Equal(result.PlatformRevenue))
	require.Len(t, result.ServiceBreakdown, 2)
	assert.Equal(t, unnamed, result.ServiceBreakdown[0].ID)
	assert.Equal(t, "Unknown Service", result.ServiceBreakdown[0].Name)
	assert.True(t, decimal.NewFromInt(20).Equal(result.ServiceBreakdown[0].Percentage))
	assert.Equal(t, first, result.ServiceBreakdown[1].ID)
	assert.Equal(t, "City Center", result.ServiceBreakdown[1].Name)
	assert.True(t, decimal.NewFromInt(80).Equal(result.ServiceBreakdown[1].Percentage))
}

func TestEngineEmptyWindow(t *testing.T) {
	db, engine, observer := newDBEngine(t)

	provider := uuid.New()
	c := yearContract(model.ContractTypeProvider, 20)
	c.ProviderID = &provider
	c = testutil.InsertContract(t, db, c)
	serviceID := testutil.LinkService(t, db, c.ID, "Horoscope", model.ServiceTypeVAS)
	testutil.InsertVAS(t, db, serviceID, provider, "100", testutil.Noon(2024, time.March, 3))

	start := testutil.Date(2025, time.March, 1)
	result := engine.CalculateContractRevenue(context.Background(), c.ID, &start, nil)

	require.NotNil(t, result)
	assert.False(t, result.Degraded)
	assert.True(t, result.TotalGrossRevenue.IsZero())
	assert.Empty(t, result.ServiceBreakdown)
	assert.Equal(t, []string{OutcomeEmptyWindow}, observer.outcomes)
}

func TestEngineContractNotFound(t *testing.T) {
	_, engine, observer := newDBEngine(t)

	result := engine.CalculateContractRevenue(context.Background(), uuid.New(), nil, nil)

	assert.Nil(t, result)
	assert.Equal(t, []string{OutcomeNotFound}, observer.outcomes)
}

func TestEngineDegradedOnReadFailure(t *testing.T) {
	provider := uuid.New()
	vasID, bulkID := uuid.New(), uuid.New()
	contract := yearContract(model.ContractTypeProvider, 25)
	contract.ID = uuid.New()
	contract.ProviderID = &provider
	contract.Services = []model.ServiceLink{
		{ServiceID: vasID, Name: "VAS", Type: model.ServiceTypeVAS},
		{ServiceID: bulkID, Name: "Bulk", Type: model.ServiceTypeBulk},
	}

	contracts := &mockContracts{}
	contracts.On("GetContract", mock.Anything, contract.ID).Return(&contract, nil)

	charged := testutil.Noon(2024, time.May, 5)
	transactions := &mockTransactions{}
	transactions.On("SumVAS", mock.Anything, vasID, provider, mock.Anything).
		Return(decimal.Zero, errors.New("connection reset"))
	transactions.On("ListBulk", mock.Anything, bulkID, mock.Anything).
		Return([]model.BulkTransaction{{ID: uuid.New(), ServiceID: bulkID, MessageParts: 100, DatumNaplate: &charged}}, nil)

	observer := &recordingObserver{}
	engine := NewEngine(contracts, transactions, DefaultPricing(), observer, zerolog.Nop())

	result := engine.CalculateContractRevenue(context.Background(), contract.ID, nil, nil)

	require.NotNil(t, result)
	assert.True(t, result.Degraded)
	assert.True(t, decimal.NewFromInt(1150).Equal(result.TotalGrossRevenue), result.TotalGrossRevenue.String())
	require.Len(t, result.ServiceBreakdown, 1)
	assert.Equal(t, bulkID, result.ServiceBreakdown[0].ID)
	assert.Equal(t, []string{OutcomeDegraded}, observer.outcomes)
	transactions.AssertExpectations(t)
}

func TestEngineContractReadFailure(t *testing.T) {
	id := uuid.New()
	contracts := &mockContracts{}
	contracts.On("GetContract", mock.Anything, id).Return(nil, errors.New("pool exhausted"))

	observer := &recordingObserver{}
	engine := NewEngine(contracts, &mockTransactions{}, DefaultPricing(), observer, zerolog.Nop())

	result := engine.CalculateContractRevenue(context.Background(), id, nil, nil)

	require.NotNil(t, result)
	assert.True(t, result.Degraded)
	assert.True(t, result.TotalGrossRevenue.IsZero())
	assert.Empty(t, result.ServiceBreakdown)
	assert.Equal(t, []string{OutcomeFailed}, observer.outcomes)
}
