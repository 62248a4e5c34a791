package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthsure/dlt-insurance/pkg/logger"
	"github.com/healthsure/dlt-insurance/pkg/types"
)

// AssessmentsRepository mirrors successful on-chain assessments into the
// relational read model for reporting queries.
type AssessmentsRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewAssessmentsRepository creates a new assessments repository
func NewAssessmentsRepository(db *sql.DB, log *logger.Logger) *AssessmentsRepository {
	return &AssessmentsRepository{
		db:     db,
		logger: log,
	}
}

// Record stores one assessment report
func (r *AssessmentsRepository) Record(ctx context.Context, holderID string, report *types.AssessmentReport, txID string) (*types.StoredAssessment, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	stored := &types.StoredAssessment{
		ID:           uuid.New().String(),
		PolicyID:     report.PolicyID,
		HolderID:     holderID,
		Report:       *report,
		RecordedAt:   time.Now(),
		BlockchainTx: txID,
	}

	query := `
		INSERT INTO assessments (
			id, policy_id, holder_id, risk_category, health_score,
			lifestyle_score, composite_risk_score, previous_premium,
			optimized_premium, premium_multiplier, confidence_score,
			report, blockchain_tx_id, assessed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.db.ExecContext(ctx, query,
		stored.ID,
		report.PolicyID,
		holderID,
		report.CurrentRiskCategory,
		report.HealthScore,
		report.LifestyleScore,
		report.CompositeRiskScore,
		report.CurrentPremium,
		report.OptimizedPremium,
		report.PremiumMultiplier,
		report.ConfidenceScore,
		reportJSON,
		txID,
		time.Unix(report.AssessmentTimestamp, 0).UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record assessment: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"policy_id":     report.PolicyID,
		"risk_category": report.CurrentRiskCategory,
	}).Info("Recorded assessment")

	return stored, nil
}

// ListByPolicy returns the assessment history for one policy, most recent
// first.
func (r *AssessmentsRepository) ListByPolicy(ctx context.Context, policyID uint64, limit int) ([]*types.StoredAssessment, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, policy_id, holder_id, report, blockchain_tx_id, created_at
		FROM assessments
		WHERE policy_id = $1
		ORDER BY assessed_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, policyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*types.StoredAssessment
	for rows.Next() {
		var stored types.StoredAssessment
		var reportJSON []byte
		var txID sql.NullString

		if err := rows.Scan(
			&stored.ID,
			&stored.PolicyID,
			&stored.HolderID,
			&reportJSON,
			&txID,
			&stored.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}

		if err := json.Unmarshal(reportJSON, &stored.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		stored.BlockchainTx = txID.String

		assessments = append(assessments, &stored)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}

	return assessments, nil
}

// LatestByPolicy returns the most recent assessment for one policy
func (r *AssessmentsRepository) LatestByPolicy(ctx context.Context, policyID uint64) (*types.StoredAssessment, error) {
	assessments, err := r.ListByPolicy(ctx, policyID, 1)
	if err != nil {
		return nil, err
	}
	if len(assessments) == 0 {
		return nil, types.NewNotFoundError(types.ErrCodePolicyNotFound, fmt.Sprintf("no assessments recorded for policy %d", policyID))
	}
	return assessments[0], nil
}

// RecordPayment stores one premium payment
func (r *AssessmentsRepository) RecordPayment(ctx context.Context, policyID uint64, holderID string, amount int64, txID string, paidAt time.Time) error {
	query := `
		INSERT INTO payments (id, policy_id, holder_id, amount, blockchain_tx_id, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		policyID,
		holderID,
		amount,
		txID,
		paidAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	return nil
}
