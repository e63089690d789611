package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_status') THEN
			CREATE TYPE contract_status AS ENUM ('DRAFT', 'ACTIVE', 'PENDING', 'RENEWAL_IN_PROGRESS', 'EXPIRED', 'TERMINATED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_renewal_sub_status') THEN
			CREATE TYPE contract_renewal_sub_status AS ENUM (
				'DOCUMENT_COLLECTION', 'LEGAL_REVIEW', 'TECHNICAL_REVIEW', 'FINANCIAL_APPROVAL',
				'MANAGEMENT_APPROVAL', 'AWAITING_SIGNATURE', 'FINAL_PROCESSING'
			);
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS services (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name TEXT NOT NULL,
		type VARCHAR(32) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name TEXT NOT NULL,
		contract_number VARCHAR(64) NOT NULL,
		type VARCHAR(32) NOT NULL,
		status contract_status NOT NULL DEFAULT 'DRAFT',
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ NOT NULL,
		revenue_percentage NUMERIC(5,2) NOT NULL,
		provider_id UUID,
		humanitarian_org_id UUID,
		parking_service_id UUID,
		last_modified_by_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_contract_dates CHECK (start_date <= end_date),
		CONSTRAINT chk_contract_revenue CHECK (revenue_percentage BETWEEN 0 AND 100)
	);`,
	`CREATE TABLE IF NOT EXISTS contract_services (
		contract_id UUID NOT NULL REFERENCES contracts(id),
		service_id UUID NOT NULL REFERENCES services(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (contract_id, service_id)
	);`,
	`CREATE TABLE IF NOT EXISTS contract_renewals (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id),
		sub_status contract_renewal_sub_status NOT NULL DEFAULT 'DOCUMENT_COLLECTION',
		documents_received BOOLEAN NOT NULL DEFAULT FALSE,
		legal_approved BOOLEAN NOT NULL DEFAULT FALSE,
		financial_approved BOOLEAN NOT NULL DEFAULT FALSE,
		technical_approved BOOLEAN NOT NULL DEFAULT FALSE,
		management_approved BOOLEAN NOT NULL DEFAULT FALSE,
		signature_received BOOLEAN NOT NULL DEFAULT FALSE,
		proposed_start_date TIMESTAMPTZ NOT NULL,
		proposed_end_date TIMESTAMPTZ NOT NULL,
		proposed_revenue NUMERIC(5,2),
		comments TEXT,
		internal_notes TEXT,
		created_by_id UUID,
		last_modified_by_id UUID,
		completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_renewals_latest ON contract_renewals (contract_id, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS vas_transactions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		service_id UUID NOT NULL REFERENCES services(id),
		provider_id UUID NOT NULL,
		amount NUMERIC(18,2) NOT NULL,
		date TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_vas_transactions_lookup ON vas_transactions (service_id, provider_id, date);`,
	`CREATE TABLE IF NOT EXISTS bulk_transactions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		service_id UUID NOT NULL REFERENCES services(id),
		requests BIGINT NOT NULL DEFAULT 0,
		message_parts BIGINT NOT NULL DEFAULT 0,
		datum_naplate TIMESTAMPTZ
	);`,
	`CREATE INDEX IF NOT EXISTS idx_bulk_transactions_lookup ON bulk_transactions (service_id, datum_naplate);`,
	`CREATE TABLE IF NOT EXISTS parking_transactions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		service_id UUID NOT NULL REFERENCES services(id),
		parking_service_id UUID NOT NULL,
		amount NUMERIC(18,2) NOT NULL,
		date TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_parking_transactions_lookup ON parking_transactions (parking_service_id, date);`,
	`CREATE TABLE IF NOT EXISTS contract_status_history (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id),
		kind VARCHAR(32) NOT NULL,
		from_status VARCHAR(32) NOT NULL,
		to_status VARCHAR(32) NOT NULL,
		comment TEXT,
		actor_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_status_history_contract ON contract_status_history (contract_id, created_at);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
