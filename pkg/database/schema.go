package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema for triage record storage
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	if _, err := db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`); err != nil {
		return fmt.Errorf("failed to create extensions: %w", err)
	}

	tables := []string{
		createTriageRecordsTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createTriageRecordsIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

const createTriageRecordsTable = `
CREATE TABLE IF NOT EXISTS triage_records (
	id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	patient_id VARCHAR(64) NOT NULL,
	symptoms TEXT NOT NULL,
	risk_level VARCHAR(16) NOT NULL,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	priority_score INTEGER NOT NULL DEFAULT 0,
	status VARCHAR(32) NOT NULL DEFAULT 'pending',
	doctor_id VARCHAR(64),
	created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);`

const createTriageRecordsIndexes = `
CREATE INDEX IF NOT EXISTS idx_triage_records_patient_id ON triage_records(patient_id);
CREATE INDEX IF NOT EXISTS idx_triage_records_status ON triage_records(status);
CREATE INDEX IF NOT EXISTS idx_triage_records_created_at ON triage_records(created_at);
CREATE INDEX IF NOT EXISTS idx_triage_records_priority ON triage_records(priority_score);`
