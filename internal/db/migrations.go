package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS filings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL,
		month VARCHAR(6) NOT NULL,
		xml_key TEXT NOT NULL DEFAULT '',
		pdf_key TEXT,
		vehicle_count INTEGER NOT NULL DEFAULT 0,
		total_tax NUMERIC(12,2) NOT NULL DEFAULT 0,
		payload JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'filings' AND column_name = 'vehicle_count') THEN
			ALTER TABLE filings ADD COLUMN vehicle_count INTEGER NOT NULL DEFAULT 0;
		END IF;
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'filings' AND column_name = 'total_tax') THEN
			ALTER TABLE filings ADD COLUMN total_tax NUMERIC(12,2) NOT NULL DEFAULT 0;
		END IF;
	END
	$$;`,
	`CREATE INDEX IF NOT EXISTS idx_filings_user_id ON filings (user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_filings_user_month ON filings (user_id, month);`,
	`CREATE TABLE IF NOT EXISTS filing_documents (
		filing_id UUID NOT NULL REFERENCES filings(id) ON DELETE CASCADE,
		document_type VARCHAR(8) NOT NULL,
		object_key TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (filing_id, document_type)
	);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
