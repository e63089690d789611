package revenue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/partner-contracts/internal/model"
)

const (
	OutcomeOK          = "ok"
	OutcomeEmptyWindow = "empty_window"
	OutcomeDegraded    = "degraded"
	OutcomeFailed      = "failed"
	OutcomeNotFound    = "not_found"
)

type ContractSource interface {
	GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error)
}

// Observer receives one call per calculation.
type Observer interface {
	ObserveRevenueCalculation(outcome string, elapsed time.Duration)
}

type Engine struct {
	contracts    ContractSource
	transactions TransactionSource
	pricing      Pricing
	observer     Observer
	log          zerolog.Logger
}

func NewEngine(contracts ContractSource, transactions TransactionSource, pricing Pricing, observer Observer, log zerolog.Logger) *Engine {
	return &Engine{
		contracts:    contracts,
		transactions: transactions,
		pricing:      pricing,
		observer:     observer,
		log:          log.With().Str("component", "revenue").Logger(),
	}
}

// CalculateContractRevenue returns nil only when the contract does not
// exist. Every other failure is logged and reported as zero revenue with
// Degraded set.
func (e *Engine) CalculateContractRevenue(ctx context.Context, contractID uuid.UUID, periodStart, periodEnd *time.Time) *model.CalculatedRevenueData {
	started := time.Now()
	result, outcome := e.calculate(ctx, contractID, periodStart, periodEnd)
	if e.observer != nil {
		e.observer.ObserveRevenueCalculation(outcome, time.Since(started))
	}
	return result
}

func (e *Engine) calculate(ctx context.Context, contractID uuid.UUID, periodStart, periodEnd *time.Time) (*model.CalculatedRevenueData, string) {
	log := e.log.With().Str("contract_id", contractID.String()).Logger()

	contract, err := e.contracts.GetContract(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Msg("contract not found for revenue calculation")
			return nil, OutcomeNotFound
		}
		log.Error().Err(err).Msg("revenue calculation failed")
		failed := model.EmptyRevenue()
		failed.Degraded = true
		return failed, OutcomeFailed
	}

	period, ok := ResolvePeriod(*contract, periodStart, periodEnd)
	if !ok {
		return model.EmptyRevenue(), OutcomeEmptyWindow
	}

	contributions, degraded := e.collect(ctx, log, *contract, period)
	result := Compose(contributions, contract.RevenuePercentage)
	if degraded {
		result.Degraded = true
		return result, OutcomeDegraded
	}
	return result, OutcomeOK
}

// collect runs the aggregator for each linked service. A failing read skips
// that service and marks the result degraded.
func (e *Engine) collect(ctx context.Context, log zerolog.Logger, contract model.Contract, period model.Period) ([]contribution, bool) {
	if contract.Type == model.ContractTypeParking {
		parking, err := aggregateParking(ctx, e.transactions, contract, period)
		if err != nil {
			log.Error().Err(err).Msg("parking revenue read failed")
			return nil, true
		}
		return parking, false
	}

	var (
		contributions []contribution
		degraded      bool
	)
	for _, link := range contract.Services {
		var (
			c   *contribution
			err error
		)
		switch link.Type {
		case model.ServiceTypeVAS:
			c, err = aggregateVAS(ctx, e.transactions, contract, link, period)
		case model.ServiceTypeBulk:
			var skipped int
			c, skipped, err = aggregateBulk(ctx, e.transactions, e.pricing, link, period)
			if skipped > 0 {
				log.Warn().
					Str("service_id", link.ServiceID.String()).
					Int("records", skipped).
					Msg("bulk records without charge date skipped")
			}
		default:
			continue
		}
		if err != nil {
			degraded = true
			log.Warn().Err(err).
				Str("service_id", link.ServiceID.String()).
				Str("service_type", string(link.Type)).
				Msg("service revenue read failed")
			continue
		}
		if c != nil {
			contributions = append(contributions, *c)
		}
	}
	return contributions, degraded
}
