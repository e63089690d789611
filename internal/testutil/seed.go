package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/partner-contracts/internal/model"
)

func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Noon(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// InsertContract stores c, filling in an id and timestamps when missing.
func InsertContract(t testing.TB, db *gorm.DB, c model.Contract) model.Contract {
	t.Helper()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Name == "" {
		c.Name = "Contract " + c.ID.String()[:8]
	}
	if c.ContractNumber == "" {
		c.ContractNumber = "C-" + c.ID.String()[:8]
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = c.StartDate
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	mustExec(t, db, `
		INSERT INTO contracts (
			id, name, contract_number, type, status, start_date, end_date, revenue_percentage,
			provider_id, humanitarian_org_id, parking_service_id, last_modified_by_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.ContractNumber, c.Type, c.Status, c.StartDate, c.EndDate, c.RevenuePercentage,
		c.ProviderID, c.HumanitarianOrgID, c.ParkingServiceID, c.LastModifiedByID, c.CreatedAt, c.UpdatedAt,
	)
	return c
}

// LinkService creates a service and links it to the contract.
func LinkService(t testing.TB, db *gorm.DB, contractID uuid.UUID, name string, serviceType model.ServiceType) uuid.UUID {
	t.Helper()
	id := uuid.New()
	mustExec(t, db, `INSERT INTO services (id, name, type) VALUES (?, ?, ?)`, id, name, serviceType)
	mustExec(t, db, `INSERT INTO contract_services (contract_id, service_id) VALUES (?, ?)`, contractID, id)
	return id
}

func InsertRenewal(t testing.TB, db *gorm.DB, r model.ContractRenewal) model.ContractRenewal {
	t.Helper()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	mustExec(t, db, `
		INSERT INTO contract_renewals (
			id, contract_id, sub_status, documents_received, legal_approved, financial_approved,
			technical_approved, management_approved, signature_received, proposed_start_date,
			proposed_end_date, proposed_revenue, comments, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ContractID, r.SubStatus, r.DocumentsReceived, r.LegalApproved, r.FinancialApproved,
		r.TechnicalApproved, r.ManagementApproved, r.SignatureReceived, r.ProposedStartDate,
		r.ProposedEndDate, r.ProposedRevenue, r.Comments, r.CreatedAt, r.UpdatedAt,
	)
	return r
}

func InsertVAS(t testing.TB, db *gorm.DB, serviceID, providerID uuid.UUID, amount string, at time.Time) {
	t.Helper()
	mustExec(t, db, `INSERT INTO vas_transactions (id, service_id, provider_id, amount, date) VALUES (?, ?, ?, ?, ?)`,
		uuid.New(), serviceID, providerID, decimal.RequireFromString(amount), at)
}

func InsertBulk(t testing.TB, db *gorm.DB, serviceID uuid.UUID, requests, messageParts int64, chargedAt *time.Time) {
	t.Helper()
	mustExec(t, db, `INSERT INTO bulk_transactions (id, service_id, requests, message_parts, datum_naplate) VALUES (?, ?, ?, ?, ?)`,
		uuid.New(), serviceID, requests, messageParts, chargedAt)
}

func InsertParking(t testing.TB, db *gorm.DB, serviceID, parkingServiceID uuid.UUID, amount string, at time.Time) {
	t.Helper()
	mustExec(t, db, `INSERT INTO parking_transactions (id, service_id, parking_service_id, amount, date) VALUES (?, ?, ?, ?, ?)`,
		uuid.New(), serviceID, parkingServiceID, decimal.RequireFromString(amount), at)
}

func mustExec(t testing.TB, db *gorm.DB, sql string, args ...interface{}) {
	t.Helper()
	if err := db.Exec(sql, args...).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
}
