// Package testutil opens an in-memory SQLite database with the tables the
// repositories read and write. Column types are the SQLite equivalents of
// the postgres migrations.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var Schema = []string{
	`CREATE TABLE services (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL
	)`,
	`CREATE TABLE contracts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contract_number TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		revenue_percentage NUMERIC NOT NULL,
		provider_id TEXT,
		humanitarian_org_id TEXT,
		parking_service_id TEXT,
		last_modified_by_id TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE contract_services (
		contract_id TEXT NOT NULL,
		service_id TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (contract_id, service_id)
	)`,
	`CREATE TABLE contract_renewals (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL,
		sub_status TEXT NOT NULL,
		documents_received BOOLEAN NOT NULL DEFAULT 0,
		legal_approved BOOLEAN NOT NULL DEFAULT 0,
		financial_approved BOOLEAN NOT NULL DEFAULT 0,
		technical_approved BOOLEAN NOT NULL DEFAULT 0,
		management_approved BOOLEAN NOT NULL DEFAULT 0,
		signature_received BOOLEAN NOT NULL DEFAULT 0,
		proposed_start_date DATETIME NOT NULL,
		proposed_end_date DATETIME NOT NULL,
		proposed_revenue NUMERIC,
		comments TEXT,
		internal_notes TEXT,
		created_by_id TEXT,
		last_modified_by_id TEXT,
		completed_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE vas_transactions (
		id TEXT PRIMARY KEY,
		service_id TEXT NOT NULL,
		provider_id TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		date DATETIME NOT NULL
	)`,
	`CREATE TABLE bulk_transactions (
		id TEXT PRIMARY KEY,
		service_id TEXT NOT NULL,
		requests INTEGER NOT NULL DEFAULT 0,
		message_parts INTEGER NOT NULL DEFAULT 0,
		datum_naplate DATETIME
	)`,
	`CREATE TABLE parking_transactions (
		id TEXT PRIMARY KEY,
		service_id TEXT NOT NULL,
		parking_service_id TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		date DATETIME NOT NULL
	)`,
	`CREATE TABLE contract_status_history (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		from_status TEXT NOT NULL,
		to_status TEXT NOT NULL,
		comment TEXT,
		actor_id TEXT,
		created_at DATETIME NOT NULL
	)`,
}

// OpenDB returns a fresh database named after the running test.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range Schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}
