package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the read-model schema for assessment history
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	if _, err := db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`); err != nil {
		return fmt.Errorf("failed to create extensions: %w", err)
	}

	tables := []string{
		createAssessmentsTable,
		createPaymentsTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createAssessmentsIndexes,
		createPaymentsIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

// SQL DDL statements for table creation
const (
	createAssessmentsTable = `
		CREATE TABLE IF NOT EXISTS assessments (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			policy_id BIGINT NOT NULL,
			holder_id VARCHAR(200) NOT NULL,
			risk_category VARCHAR(30) NOT NULL,
			health_score INTEGER NOT NULL,
			lifestyle_score INTEGER NOT NULL,
			composite_risk_score INTEGER NOT NULL,
			previous_premium BIGINT NOT NULL,
			optimized_premium BIGINT NOT NULL,
			premium_multiplier INTEGER NOT NULL,
			confidence_score INTEGER NOT NULL,
			report JSONB NOT NULL,
			blockchain_tx_id VARCHAR(100),
			assessed_at TIMESTAMP WITH TIME ZONE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createPaymentsTable = `
		CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			policy_id BIGINT NOT NULL,
			holder_id VARCHAR(200) NOT NULL,
			amount BIGINT NOT NULL,
			blockchain_tx_id VARCHAR(100),
			paid_at TIMESTAMP WITH TIME ZONE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`
)

// SQL DDL statements for index creation
const (
	createAssessmentsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_assessments_policy_id ON assessments(policy_id);
		CREATE INDEX IF NOT EXISTS idx_assessments_holder_id ON assessments(holder_id);
		CREATE INDEX IF NOT EXISTS idx_assessments_risk_category ON assessments(risk_category);
		CREATE INDEX IF NOT EXISTS idx_assessments_assessed_at ON assessments(assessed_at);`

	createPaymentsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_payments_policy_id ON payments(policy_id);
		CREATE INDEX IF NOT EXISTS idx_payments_holder_id ON payments(holder_id);
		CREATE INDEX IF NOT EXISTS idx_payments_paid_at ON payments(paid_at);`
)
