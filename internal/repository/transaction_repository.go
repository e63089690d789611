package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/partner-contracts/internal/model"
)

// TransactionRepository reads usage owned by the reporting imports. It never
// writes.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// SumVAS totals VAS usage for one service and provider inside the period,
// both ends inclusive.
func (r *TransactionRepository) SumVAS(
	ctx context.Context,
	serviceID uuid.UUID,
	providerID uuid.UUID,
	period model.Period,
) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(amount), 0) AS total
		FROM vas_transactions
		WHERE service_id = ?
			AND provider_id = ?
			AND date >= ?
			AND date <= ?
	`, serviceID, providerID, period.Start, period.End).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// ListBulk returns the service's batch records charged inside the period,
// plus every record that has no charge date yet so the caller can report
// them.
func (r *TransactionRepository) ListBulk(
	ctx context.Context,
	serviceID uuid.UUID,
	period model.Period,
) ([]model.BulkTransaction, error) {
	var rows []model.BulkTransaction
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			service_id,
			requests,
			message_parts,
			datum_naplate
		FROM bulk_transactions
		WHERE service_id = ?
			AND (
				datum_naplate IS NULL
				OR (datum_naplate >= ? AND datum_naplate <= ?)
			)
		ORDER BY datum_naplate ASC
	`, serviceID, period.Start, period.End).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListParking returns parking transactions of one parking operator for the
// given services, oldest first.
func (r *TransactionRepository) ListParking(
	ctx context.Context,
	parkingServiceID uuid.UUID,
	serviceIDs []uuid.UUID,
	period model.Period,
) ([]model.ParkingTransaction, error) {
	if len(serviceIDs) == 0 {
		return []model.ParkingTransaction{}, nil
	}

	var rows []model.ParkingTransaction
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			pt.id,
			pt.service_id,
			pt.parking_service_id,
			s.name AS service_name,
			pt.amount,
			pt.date
		FROM parking_transactions pt
		LEFT JOIN services s ON s.id = pt.service_id
		WHERE pt.parking_service_id = ?
			AND pt.service_id IN ?
			AND pt.date >= ?
			AND pt.date <= ?
		ORDER BY pt.date ASC, pt.id ASC
	`, parkingServiceID, serviceIDs, period.Start, period.End).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
