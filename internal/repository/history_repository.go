package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/partner-contracts/internal/model"
)

type HistoryEntry struct {
	ID         uuid.UUID
	ContractID uuid.UUID
	Kind       model.EventKind
	FromStatus string
	ToStatus   string
	Comment    *string
	ActorID    *uuid.UUID
	CreatedAt  time.Time
}

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Insert(ctx context.Context, event model.StatusChangeEvent) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO contract_status_history (
			id,
			contract_id,
			kind,
			from_status,
			to_status,
			comment,
			actor_id,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		uuid.New(),
		event.ContractID,
		event.Kind,
		event.From,
		event.To,
		event.Comment,
		event.ActorID,
		event.At,
	).Error
}

func (r *HistoryRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]HistoryEntry, error) {
	var rows []HistoryEntry
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			contract_id,
			kind,
			from_status,
			to_status,
			comment,
			actor_id,
			created_at
		FROM contract_status_history
		WHERE contract_id = ?
		ORDER BY created_at ASC
	`, contractID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
