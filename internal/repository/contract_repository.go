package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/partner-contracts/internal/model"
)

// ContractStore is the persistence surface used by the contract service.
// WithTransaction hands fn a store bound to one database transaction; fn's
// writes are committed together or not at all.
type ContractStore interface {
	GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	ListExpiring(ctx context.Context, from, to time.Time) ([]model.Contract, error)
	UpdateContract(ctx context.Context, id uuid.UUID, update model.ContractUpdate) error
	LatestRenewal(ctx context.Context, contractID uuid.UUID) (*model.ContractRenewal, error)
	CreateRenewal(ctx context.Context, renewal model.ContractRenewal) error
	UpdateRenewal(ctx context.Context, id uuid.UUID, update model.RenewalUpdate) error
	WithTransaction(ctx context.Context, fn func(tx ContractStore) error) error
}

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

const contractColumns = `
	c.id,
	c.name,
	c.contract_number,
	c.type,
	c.status,
	c.start_date,
	c.end_date,
	c.revenue_percentage,
	c.provider_id,
	c.humanitarian_org_id,
	c.parking_service_id,
	c.last_modified_by_id,
	c.created_at,
	c.updated_at
`

func (r *ContractRepository) GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+contractColumns+`
		FROM contracts c
		WHERE c.id = ?
		LIMIT 1
	`, id).Scan(&contract).Error
	if err != nil {
		return nil, err
	}
	if contract.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	links, err := r.ListServiceLinks(ctx, id)
	if err != nil {
		return nil, err
	}
	contract.Services = links
	return &contract, nil
}

// ListServiceLinks returns the services linked to a contract in link order.
func (r *ContractRepository) ListServiceLinks(ctx context.Context, contractID uuid.UUID) ([]model.ServiceLink, error) {
	var links []model.ServiceLink
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			s.id AS service_id,
			s.name,
			s.type
		FROM contract_services cs
		JOIN services s ON s.id = cs.service_id
		WHERE cs.contract_id = ?
		ORDER BY cs.created_at ASC, s.name ASC
	`, contractID).Scan(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// ListExpiring returns ACTIVE contracts ending inside [from, to].
func (r *ContractRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]model.Contract, error) {
	var contracts []model.Contract
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+contractColumns+`
		FROM contracts c
		WHERE c.status = ?
			AND c.end_date >= ?
			AND c.end_date <= ?
		ORDER BY c.end_date ASC
	`, model.ContractStatusActive, from, to).Scan(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *ContractRepository) UpdateContract(ctx context.Context, id uuid.UUID, update model.ContractUpdate) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE contracts
		SET
			status = COALESCE(?, status),
			start_date = COALESCE(?, start_date),
			end_date = COALESCE(?, end_date),
			revenue_percentage = COALESCE(?, revenue_percentage),
			last_modified_by_id = COALESCE(?, last_modified_by_id),
			updated_at = ?
		WHERE id = ?
	`,
		update.Status,
		update.StartDate,
		update.EndDate,
		update.RevenuePercentage,
		update.LastModifiedByID,
		update.UpdatedAt,
		id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

const renewalColumns = `
	id,
	contract_id,
	sub_status,
	documents_received,
	legal_approved,
	financial_approved,
	technical_approved,
	management_approved,
	signature_received,
	proposed_start_date,
	proposed_end_date,
	proposed_revenue,
	comments,
	internal_notes,
	created_by_id,
	last_modified_by_id,
	completed_at,
	created_at,
	updated_at
`

// LatestRenewal returns the most recently created renewal of a contract.
func (r *ContractRepository) LatestRenewal(ctx context.Context, contractID uuid.UUID) (*model.ContractRenewal, error) {
	var renewal model.ContractRenewal
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+renewalColumns+`
		FROM contract_renewals
		WHERE contract_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, contractID).Scan(&renewal).Error
	if err != nil {
		return nil, err
	}
	if renewal.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &renewal, nil
}

func (r *ContractRepository) CreateRenewal(ctx context.Context, renewal model.ContractRenewal) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO contract_renewals (
			id,
			contract_id,
			sub_status,
			documents_received,
			legal_approved,
			financial_approved,
			technical_approved,
			management_approved,
			signature_received,
			proposed_start_date,
			proposed_end_date,
			proposed_revenue,
			comments,
			internal_notes,
			created_by_id,
			last_modified_by_id,
			created_at,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		renewal.ID,
		renewal.ContractID,
		renewal.SubStatus,
		renewal.DocumentsReceived,
		renewal.LegalApproved,
		renewal.FinancialApproved,
		renewal.TechnicalApproved,
		renewal.ManagementApproved,
		renewal.SignatureReceived,
		renewal.ProposedStartDate,
		renewal.ProposedEndDate,
		renewal.ProposedRevenue,
		renewal.Comments,
		renewal.InternalNotes,
		renewal.CreatedByID,
		renewal.LastModifiedByID,
		renewal.CreatedAt,
		renewal.UpdatedAt,
	).Error
}

func (r *ContractRepository) UpdateRenewal(ctx context.Context, id uuid.UUID, update model.RenewalUpdate) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE contract_renewals
		SET
			sub_status = COALESCE(?, sub_status),
			documents_received = COALESCE(?, documents_received),
			legal_approved = COALESCE(?, legal_approved),
			financial_approved = COALESCE(?, financial_approved),
			technical_approved = COALESCE(?, technical_approved),
			management_approved = COALESCE(?, management_approved),
			signature_received = COALESCE(?, signature_received),
			comments = COALESCE(?, comments),
			internal_notes = COALESCE(?, internal_notes),
			last_modified_by_id = COALESCE(?, last_modified_by_id),
			completed_at = COALESCE(?, completed_at),
			updated_at = ?
		WHERE id = ?
	`,
		update.SubStatus,
		update.DocumentsReceived,
		update.LegalApproved,
		update.FinancialApproved,
		update.TechnicalApproved,
		update.ManagementApproved,
		update.SignatureReceived,
		update.Comments,
		update.InternalNotes,
		update.LastModifiedByID,
		update.CompletedAt,
		update.UpdatedAt,
		id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContractRepository) WithTransaction(ctx context.Context, fn func(tx ContractStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ContractRepository{db: tx})
	})
}
