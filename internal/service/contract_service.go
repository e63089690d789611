package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/partner-contracts/internal/clock"
	"github.com/nurpe/partner-contracts/internal/config"
	"github.com/nurpe/partner-contracts/internal/metrics"
	"github.com/nurpe/partner-contracts/internal/model"
	"github.com/nurpe/partner-contracts/internal/repository"
)

const (
	defaultRenewalComment   = "Renewal process started"
	defaultCompletedComment = "Renewal completed successfully"
)

// AuditSink is told about every applied change. It must not block the
// caller and its failures are its own concern.
type AuditSink interface {
	StatusChanged(ctx context.Context, event model.StatusChangeEvent)
}

type TransitionObserver interface {
	ObserveStatusTransition(from, to, result string)
}

type ContractService struct {
	store        repository.ContractStore
	audit        AuditSink
	observer     TransitionObserver
	clock        clock.Clock
	renewalTerm  time.Duration
	expiringDays int
	log          zerolog.Logger
}

func NewContractService(
	store repository.ContractStore,
	audit AuditSink,
	observer TransitionObserver,
	clk clock.Clock,
	cfg config.ContractsConfig,
	log zerolog.Logger,
) *ContractService {
	if clk == nil {
		clk = clock.System{}
	}
	termDays := cfg.RenewalTermDays
	if termDays <= 0 {
		termDays = 365
	}
	expiringDays := cfg.ExpiringDays
	if expiringDays <= 0 {
		expiringDays = 30
	}
	return &ContractService{
		store:        store,
		audit:        audit,
		observer:     observer,
		clock:        clk,
		renewalTerm:  time.Duration(termDays) * 24 * time.Hour,
		expiringDays: expiringDays,
		log:          log.With().Str("component", "contracts").Logger(),
	}
}

type ChangeStatusInput struct {
	ContractID uuid.UUID
	Status     model.ContractStatus
	Comment    *string
	Principal  model.Principal
}

// StatusChangeResult carries the applied status change. Entering
// RENEWAL_IN_PROGRESS also opens a renewal; when that second write fails the
// status change stands and RenewalWarning holds the failure.
type StatusChangeResult struct {
	Contract       *model.Contract
	Renewal        *model.ContractRenewal
	RenewalWarning error
	Message        string
}

func (s *ContractService) ChangeStatus(ctx context.Context, input ChangeStatusInput) (*StatusChangeResult, error) {
	if input.ContractID == uuid.Nil {
		return nil, fmt.Errorf("%w: contract id is required", ErrValidation)
	}
	if !input.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid contract status %q", ErrValidation, input.Status)
	}

	contract, err := s.store.GetContract(ctx, input.ContractID)
	if err != nil {
		return nil, lookupError(err, ErrNotFound, "contract not found")
	}

	from := contract.Status
	if !from.CanTransitionTo(input.Status) {
		s.observeTransition(from, input.Status, metrics.TransitionResultRejected)
		return nil, fmt.Errorf("%w: cannot change status from %s to %s", ErrInvalidTransition, from.Label(), input.Status.Label())
	}

	now := s.clock.Now()
	actor := input.Principal.ActorID()
	err = s.store.UpdateContract(ctx, contract.ID, model.ContractUpdate{
		Status:           &input.Status,
		LastModifiedByID: actor,
		UpdatedAt:        now,
	})
	if err != nil {
		s.observeTransition(from, input.Status, metrics.TransitionResultFailed)
		return nil, lookupError(err, ErrNotFound, "contract not found")
	}
	s.observeTransition(from, input.Status, metrics.TransitionResultApplied)

	contract.Status = input.Status
	contract.UpdatedAt = now
	if actor != nil {
		contract.LastModifiedByID = actor
	}

	result := &StatusChangeResult{
		Contract: contract,
		Message:  "Contract status updated to " + strings.ToLower(input.Status.Label()),
	}

	if input.Status == model.ContractStatusRenewalInProgress {
		renewal, err := s.openRenewal(ctx, *contract, input.Comment, actor, now)
		if err != nil {
			s.log.Error().Err(err).
				Str("contract_id", contract.ID.String()).
				Msg("failed to create renewal record")
			result.RenewalWarning = persistenceError(err)
		} else {
			result.Renewal = renewal
		}
	}

	s.notify(ctx, model.StatusChangeEvent{
		Kind:       model.EventStatusChanged,
		ContractID: contract.ID,
		From:       string(from),
		To:         string(input.Status),
		Comment:    nonEmpty(input.Comment),
		ActorID:    actor,
		At:         now,
	})
	return result, nil
}

// openRenewal seeds a renewal that proposes the contract's next term.
func (s *ContractService) openRenewal(
	ctx context.Context,
	contract model.Contract,
	comment *string,
	actor *uuid.UUID,
	now time.Time,
) (*model.ContractRenewal, error) {
	revenue := contract.RevenuePercentage
	comments := defaultRenewalComment
	if c := nonEmpty(comment); c != nil {
		comments = *c
	}

	renewal := model.ContractRenewal{
		ID:                uuid.New(),
		ContractID:        contract.ID,
		SubStatus:         model.RenewalDocumentCollection,
		ProposedStartDate: contract.EndDate,
		ProposedEndDate:   contract.EndDate.Add(s.renewalTerm),
		ProposedRevenue:   &revenue,
		Comments:          &comments,
		CreatedByID:       actor,
		LastModifiedByID:  actor,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.CreateRenewal(ctx, renewal); err != nil {
		return nil, err
	}
	return &renewal, nil
}

type SetSubStatusInput struct {
	ContractID uuid.UUID
	SubStatus  model.RenewalSubStatus
	Comment    *string
	Principal  model.Principal
}

type RenewalResult struct {
	Renewal *model.ContractRenewal
	Message string
}

// SetRenewalSubStatus moves the latest renewal of a contract to any
// sub-status. Order is not enforced.
func (s *ContractService) SetRenewalSubStatus(ctx context.Context, input SetSubStatusInput) (*RenewalResult, error) {
	if input.ContractID == uuid.Nil {
		return nil, fmt.Errorf("%w: contract id is required", ErrValidation)
	}
	if !input.SubStatus.IsValid() {
		return nil, fmt.Errorf("%w: invalid renewal sub-status %q", ErrValidation, input.SubStatus)
	}

	renewal, err := s.store.LatestRenewal(ctx, input.ContractID)
	if err != nil {
		return nil, lookupError(err, ErrNoActiveRenewal, "no active renewal found for this contract")
	}

	now := s.clock.Now()
	actor := input.Principal.ActorID()
	update := model.EnterSubStatus(input.SubStatus)
	update.Comments = nonEmpty(input.Comment)
	update.LastModifiedByID = actor
	update.UpdatedAt = now

	if err := s.store.UpdateRenewal(ctx, renewal.ID, update); err != nil {
		return nil, lookupError(err, ErrNoActiveRenewal, "no active renewal found for this contract")
	}

	from := renewal.SubStatus
	applyRenewalUpdate(renewal, update)

	s.notify(ctx, model.StatusChangeEvent{
		Kind:       model.EventRenewalSubStatus,
		ContractID: input.ContractID,
		From:       string(from),
		To:         string(input.SubStatus),
		Comment:    update.Comments,
		ActorID:    actor,
		At:         now,
	})

	return &RenewalResult{
		Renewal: renewal,
		Message: "Renewal status updated to " + strings.ToLower(input.SubStatus.Label()),
	}, nil
}

// RenewalOverrides replace the renewal's proposed terms when set. A zero
// revenue percentage is a valid override.
type RenewalOverrides struct {
	StartDate         *time.Time
	EndDate           *time.Time
	RevenuePercentage *decimal.Decimal
}

type CompleteRenewalInput struct {
	ContractID uuid.UUID
	Overrides  RenewalOverrides
	Comment    *string
	Principal  model.Principal
}

type CompleteRenewalResult struct {
	Contract *model.Contract
	Renewal  *model.ContractRenewal
	Message  string
}

// CompleteRenewal reactivates the contract on its renewed terms and closes
// the renewal. Both writes share one transaction.
func (s *ContractService) CompleteRenewal(ctx context.Context, input CompleteRenewalInput) (*CompleteRenewalResult, error) {
	if input.ContractID == uuid.Nil {
		return nil, fmt.Errorf("%w: contract id is required", ErrValidation)
	}
	if pct := input.Overrides.RevenuePercentage; pct != nil {
		if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("%w: revenue percentage must be between 0 and 100", ErrValidation)
		}
	}

	now := s.clock.Now()
	actor := input.Principal.ActorID()

	var (
		result *CompleteRenewalResult
		from   model.ContractStatus
	)
	err := s.store.WithTransaction(ctx, func(tx repository.ContractStore) error {
		contract, err := tx.GetContract(ctx, input.ContractID)
		if err != nil {
			return lookupError(err, ErrNotFound, "contract not found")
		}
		from = contract.Status
		if !from.CanTransitionTo(model.ContractStatusActive) {
			return fmt.Errorf("%w: cannot complete renewal, status cannot change from %s to %s",
				ErrInvalidTransition, from.Label(), model.ContractStatusActive.Label())
		}
		renewal, err := tx.LatestRenewal(ctx, contract.ID)
		if err != nil {
			return lookupError(err, ErrNoActiveRenewal, "no renewal found for this contract")
		}
		if renewal.SubStatus != model.RenewalFinalProcessing {
			return fmt.Errorf("%w: renewal must be in final processing stage to complete, current stage is %s",
				ErrInvalidStage, strings.ToLower(renewal.SubStatus.Label()))
		}

		active := model.ContractStatusActive
		startDate := renewal.ProposedStartDate
		if input.Overrides.StartDate != nil {
			startDate = *input.Overrides.StartDate
		}
		endDate := renewal.ProposedEndDate
		if input.Overrides.EndDate != nil {
			endDate = *input.Overrides.EndDate
		}
		if startDate.After(endDate) {
			return fmt.Errorf("%w: start date must not be after end date", ErrValidation)
		}
		revenue := contract.RevenuePercentage
		switch {
		case input.Overrides.RevenuePercentage != nil:
			revenue = *input.Overrides.RevenuePercentage
		case renewal.ProposedRevenue != nil:
			revenue = *renewal.ProposedRevenue
		}

		contractUpdate := model.ContractUpdate{
			Status:            &active,
			StartDate:         &startDate,
			EndDate:           &endDate,
			RevenuePercentage: &revenue,
			LastModifiedByID:  actor,
			UpdatedAt:         now,
		}
		if err := tx.UpdateContract(ctx, contract.ID, contractUpdate); err != nil {
			return persistenceError(err)
		}

		comments := defaultCompletedComment
		if c := nonEmpty(input.Comment); c != nil {
			comments = *c
		}
		notes := "Renewal completed on " + now.Format(time.RFC3339)
		renewalUpdate := model.RenewalUpdate{
			Comments:         &comments,
			InternalNotes:    &notes,
			LastModifiedByID: actor,
			CompletedAt:      &now,
			UpdatedAt:        now,
		}
		if err := tx.UpdateRenewal(ctx, renewal.ID, renewalUpdate); err != nil {
			return persistenceError(err)
		}

		contract.Status = active
		contract.StartDate = startDate
		contract.EndDate = endDate
		contract.RevenuePercentage = revenue
		contract.UpdatedAt = now
		if actor != nil {
			contract.LastModifiedByID = actor
		}
		applyRenewalUpdate(renewal, renewalUpdate)

		result = &CompleteRenewalResult{
			Contract: contract,
			Renewal:  renewal,
			Message:  "Contract renewal completed successfully",
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			s.observeTransition(from, model.ContractStatusActive, metrics.TransitionResultRejected)
		}
		if isDomainError(err) {
			return nil, err
		}
		return nil, persistenceError(err)
	}

	s.observeTransition(from, model.ContractStatusActive, metrics.TransitionResultApplied)
	s.notify(ctx, model.StatusChangeEvent{
		Kind:       model.EventRenewalCompleted,
		ContractID: result.Contract.ID,
		From:       string(from),
		To:         string(model.ContractStatusActive),
		Comment:    result.Renewal.Comments,
		ActorID:    actor,
		At:         now,
	})
	return result, nil
}

// ContractDetails is a contract with its linked services, its latest renewal
// and its expiration state at read time.
type ContractDetails struct {
	Contract            *model.Contract        `json:"contract"`
	LatestRenewal       *model.ContractRenewal `json:"latest_renewal"`
	IsExpired           bool                   `json:"is_expired"`
	IsExpiringSoon      bool                   `json:"is_expiring_soon"`
	DaysUntilExpiration int                    `json:"days_until_expiration"`
}

func (s *ContractService) GetContractWithLatestRenewal(ctx context.Context, id uuid.UUID) (*ContractDetails, error) {
	contract, err := s.store.GetContract(ctx, id)
	if err != nil {
		return nil, lookupError(err, ErrNotFound, "contract not found")
	}

	renewal, err := s.store.LatestRenewal(ctx, id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistenceError(err)
	}

	now := s.clock.Now()
	return &ContractDetails{
		Contract:            contract,
		LatestRenewal:       renewal,
		IsExpired:           contract.IsExpired(now),
		IsExpiringSoon:      contract.Status == model.ContractStatusActive && contract.IsExpiringSoon(now, s.expiringDays),
		DaysUntilExpiration: contract.DaysUntilExpiration(now),
	}, nil
}

// ListExpiring returns ACTIVE contracts ending within days from today.
// A non-positive days uses the configured threshold.
func (s *ContractService) ListExpiring(ctx context.Context, days int) ([]model.Contract, error) {
	if days <= 0 {
		days = s.expiringDays
	}
	now := s.clock.Now()
	from := model.StartOfDay(now)
	to := model.EndOfDay(now.AddDate(0, 0, days))

	contracts, err := s.store.ListExpiring(ctx, from, to)
	if err != nil {
		return nil, persistenceError(err)
	}
	return contracts, nil
}

func (s *ContractService) observeTransition(from, to model.ContractStatus, result string) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveStatusTransition(string(from), string(to), result)
}

func (s *ContractService) notify(ctx context.Context, event model.StatusChangeEvent) {
	if s.audit == nil {
		return
	}
	s.audit.StatusChanged(ctx, event)
}

func applyRenewalUpdate(renewal *model.ContractRenewal, update model.RenewalUpdate) {
	if update.SubStatus != nil {
		renewal.SubStatus = *update.SubStatus
	}
	if update.DocumentsReceived != nil {
		renewal.DocumentsReceived = *update.DocumentsReceived
	}
	if update.LegalApproved != nil {
		renewal.LegalApproved = *update.LegalApproved
	}
	if update.FinancialApproved != nil {
		renewal.FinancialApproved = *update.FinancialApproved
	}
	if update.TechnicalApproved != nil {
		renewal.TechnicalApproved = *update.TechnicalApproved
	}
	if update.ManagementApproved != nil {
		renewal.ManagementApproved = *update.ManagementApproved
	}
	if update.SignatureReceived != nil {
		renewal.SignatureReceived = *update.SignatureReceived
	}
	if update.Comments != nil {
		renewal.Comments = update.Comments
	}
	if update.InternalNotes != nil {
		renewal.InternalNotes = update.InternalNotes
	}
	if update.LastModifiedByID != nil {
		renewal.LastModifiedByID = update.LastModifiedByID
	}
	if update.CompletedAt != nil {
		renewal.CompletedAt = update.CompletedAt
	}
	renewal.UpdatedAt = update.UpdatedAt
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound,
		ErrInvalidTransition,
		ErrInvalidStage,
		ErrNoActiveRenewal,
		ErrValidation,
		ErrPersistence,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
