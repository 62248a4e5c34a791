package premium

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupActivePolicy seeds profile, lifestyle metrics and an active policy
// for the reference scenario: healthScore 102, lifestyleScore 95,
// ageRiskFactor 90, composite 86.
func setupActivePolicy(t *testing.T, contract *SmartContract, ctx *mockContext) uint64 {
	t.Helper()
	createTestProfile(t, contract, ctx)
	createTestLifestyle(t, contract, ctx)
	policyID, err := contract.CreatePolicy(ctx)
	require.NoError(t, err)
	return policyID
}

func TestAssessAndOptimize_ReferenceScenario(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)
	policyID := setupActivePolicy(t, contract, ctx)

	report, err := contract.AssessAndOptimize(ctx, policyID, false, false, false, false)
	require.NoError(t, err)

	assert.Equal(t, 102, report.HealthScore)
	assert.Equal(t, 95, report.LifestyleScore)
	assert.Equal(t, 90, report.AgeRiskFactor)
	assert.Equal(t, 86, report.CompositeRiskScore)
	assert.Equal(t, 130, report.PremiumMultiplier)
	assert.Equal(t, BasePremium, report.CurrentPremium)
	assert.Equal(t, BasePremium*130/100, report.OptimizedPremium)
	assert.Equal(t, BasePremium*130/100-BasePremium, report.PremiumAdjustment)
	// riskCategory(102, 95, 75): 51 + 28 + 15 = 94 -> LOW_RISK
	assert.Equal(t, RiskCategoryLow, report.CurrentRiskCategory)
	assert.Equal(t, confidenceScoreStandard, report.ConfidenceScore)
	assert.Equal(t, ctx.stub.txTime+PremiumAdjustmentPeriod, report.NextAssessmentDue)
	assert.Empty(t, report.InterventionRecommendations)
	assert.Equal(t, PredictiveTrend{}, report.PredictiveTrend)

	policy, err := contract.GetPolicy(ctx, policyID)
	require.NoError(t, err)
	assert.Equal(t, report.OptimizedPremium, policy.CurrentPremium)
	assert.Equal(t, BasePremium, policy.BasePremium)
	assert.Equal(t, RiskCategoryLow, policy.RiskCategory)
	assert.Equal(t, ctx.stub.txTime, policy.LastPremiumAdjustment)
}

func TestAssessAndOptimize_WellnessDiscount(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)

	// Age 70 gives ageRiskFactor 150; with perfect health and lifestyle the
	// composite is 102*40/100 + 100*30/100 + 150*20/100 = 40+30+30 = 100.
	require.NoError(t, contract.CreateHealthProfile(ctx, 70, 220, 115, 75, 170, false, 5))
	require.NoError(t, contract.UpdateLifestyleMetrics(ctx, 10000, 8, 2, 100, 100))
	policyID, err := contract.CreatePolicy(ctx)
	require.NoError(t, err)

	// Without the wellness flag the top band pays the configured minimum.
	report, err := contract.AssessAndOptimize(ctx, policyID, false, false, false, false)
	require.NoError(t, err)
	assert.Equal(t, 100, report.CompositeRiskScore)
	assert.Equal(t, MinPremiumMultiplier, report.PremiumMultiplier)
	assert.Equal(t, BasePremium/2, report.OptimizedPremium)

	// With wellness the same band yields a 5% discount instead.
	ctx.stub.txTime++ // distinct audit key for the second run
	report, err = contract.AssessAndOptimize(ctx, policyID, false, true, false, false)
	require.NoError(t, err)
	assert.Equal(t, 95, report.PremiumMultiplier)
	assert.Equal(t, BasePremium*95/100, report.OptimizedPremium)
}

func TestAssessAndOptimize_Idempotent(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)
	policyID := setupActivePolicy(t, contract, ctx)

	first, err := contract.AssessAndOptimize(ctx, policyID, true, false, false, true)
	require.NoError(t, err)

	ctx.stub.txTime++ // distinct audit key for the second run
	second, err := contract.AssessAndOptimize(ctx, policyID, true, false, false, true)
	require.NoError(t, err)

	assert.Equal(t, first.OptimizedPremium, second.OptimizedPremium)
	assert.Equal(t, first.CurrentRiskCategory, second.CurrentRiskCategory)
	assert.Equal(t, first.CompositeRiskScore, second.CompositeRiskScore)
	// Premium already at the optimized level, so the second delta is zero
	assert.Equal(t, int64(0), second.PremiumAdjustment)
}

func TestAssessAndOptimize_PredictiveFlag(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)
	policyID := setupActivePolicy(t, contract, ctx)

	report, err := contract.AssessAndOptimize(ctx, policyID, true, false, true, true)
	require.NoError(t, err)

	assert.Equal(t, confidenceScorePredictive, report.ConfidenceScore)
	assert.Equal(t, projectionMonths, report.PredictiveTrend.ProjectionMonths)
	assert.Equal(t, report.HealthScore+projectedHealthScoreIncrement, report.PredictiveTrend.ProjectedHealthScore)
	assert.Equal(t, report.LifestyleScore+projectedLifestyleIncrement, report.PredictiveTrend.ProjectedLifestyleScore)
	assert.Equal(t, chronicDiseaseProbability, report.PredictiveTrend.ChronicDiseaseProbability)
	assert.True(t, report.ContinuousMonitoringEnabled)
	assert.Len(t, report.InterventionRecommendations, 4)
}

func TestAssessAndOptimize_WritesAuditRecord(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)
	policyID := setupActivePolicy(t, contract, ctx)

	report, err := contract.AssessAndOptimize(ctx, policyID, false, false, false, false)
	require.NoError(t, err)

	adjustments, err := contract.GetPremiumAdjustments(ctx, policyID)
	require.NoError(t, err)
	require.Len(t, adjustments, 1)

	adjustment := adjustments[0]
	assert.Equal(t, policyID, adjustment.PolicyID)
	assert.Equal(t, BasePremium, adjustment.OldPremium)
	assert.Equal(t, report.OptimizedPremium, adjustment.NewPremium)
	assert.Equal(t, adjustmentReasonRiskAssessment, adjustment.Reason)
	// Deltas are against the fixed baseline 75, not the prior assessment
	assert.Equal(t, 102-auditBaselineScore, adjustment.HealthScoreDelta)
	assert.Equal(t, 95-auditBaselineScore, adjustment.LifestyleScoreDelta)
	assert.Equal(t, ctx.stub.txTime, adjustment.AdjustedAt)
}

func TestAssessAndOptimize_EmitsEvent(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)
	policyID := setupActivePolicy(t, contract, ctx)

	report, err := contract.AssessAndOptimize(ctx, policyID, false, false, false, false)
	require.NoError(t, err)

	payload, ok := ctx.stub.events["PremiumAssessed"]
	require.True(t, ok)

	var event struct {
		Report            *AssessmentReport `json:"report"`
		SavingsPotential  int64             `json:"savings_potential"`
		NextAssessmentDue int64             `json:"next_assessment_due"`
	}
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, report.OptimizedPremium, event.Report.OptimizedPremium)
	// Premium went up, so no savings
	assert.Equal(t, int64(0), event.SavingsPotential)
	assert.Equal(t, report.NextAssessmentDue, event.NextAssessmentDue)
}

func TestAssessAndOptimize_SavingsPotential(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)

	// Top band without wellness halves the premium, so the event reports
	// savings relative to the old premium.
	require.NoError(t, contract.CreateHealthProfile(ctx, 70, 220, 115, 75, 170, false, 5))
	require.NoError(t, contract.UpdateLifestyleMetrics(ctx, 10000, 8, 2, 100, 100))
	policyID, err := contract.CreatePolicy(ctx)
	require.NoError(t, err)

	_, err = contract.AssessAndOptimize(ctx, policyID, false, false, false, false)
	require.NoError(t, err)

	var event struct {
		SavingsPotential int64 `json:"savings_potential"`
	}
	require.NoError(t, json.Unmarshal(ctx.stub.events["PremiumAssessed"], &event))
	assert.Equal(t, BasePremium-BasePremium/2, event.SavingsPotential)
}

func TestAssessAndOptimize_Preconditions(t *testing.T) {
	t.Run("unknown policy", func(t *testing.T) {
		contract := new(SmartContract)
		ctx := newMockContext(testHolder)

		_, err := contract.AssessAndOptimize(ctx, 99, false, false, false, false)
		require.Error(t, err)
		contractErr, ok := err.(*ContractError)
		require.True(t, ok)
		assert.Equal(t, ErrKindPolicyNotFound, contractErr.Kind)
	})

	t.Run("wrong caller leaves state unchanged", func(t *testing.T) {
		contract := new(SmartContract)
		ctx := newMockContext(testHolder)
		policyID := setupActivePolicy(t, contract, ctx)

		before := ctx.stub.snapshot()
		_, err := contract.AssessAndOptimize(ctx.withCaller(testOther), policyID, false, false, false, false)
		require.Error(t, err)

		contractErr, ok := err.(*ContractError)
		require.True(t, ok)
		assert.Equal(t, ErrKindUnauthorized, contractErr.Kind)
		assert.Equal(t, before, ctx.stub.snapshot())
	})

	t.Run("cancelled policy", func(t *testing.T) {
		contract := new(SmartContract)
		ctx := newMockContext(testHolder)
		policyID := setupActivePolicy(t, contract, ctx)
		require.NoError(t, contract.CancelPolicy(ctx, policyID))

		_, err := contract.AssessAndOptimize(ctx, policyID, false, false, false, false)
		require.Error(t, err)
		contractErr, ok := err.(*ContractError)
		require.True(t, ok)
		assert.Equal(t, ErrKindPolicyNotFound, contractErr.Kind)
	})

	t.Run("missing health profile", func(t *testing.T) {
		contract := new(SmartContract)
		ctx := newMockContext(testHolder)
		createTestProfile(t, contract, ctx)
		policyID, err := contract.CreatePolicy(ctx)
		require.NoError(t, err)

		// Simulate a holder whose profile key was never written by moving the
		// policy to a caller without records.
		policy, err := contract.GetPolicy(ctx, policyID)
		require.NoError(t, err)
		policy.HolderID = testOther
		require.NoError(t, contract.putPolicy(ctx, policy))

		_, err = contract.AssessAndOptimize(ctx.withCaller(testOther), policyID, false, false, false, false)
		require.Error(t, err)
		contractErr, ok := err.(*ContractError)
		require.True(t, ok)
		assert.Equal(t, ErrKindInvalidData, contractErr.Kind)
	})

	t.Run("missing lifestyle metrics", func(t *testing.T) {
		contract := new(SmartContract)
		ctx := newMockContext(testHolder)
		createTestProfile(t, contract, ctx)
		policyID, err := contract.CreatePolicy(ctx)
		require.NoError(t, err)

		before := ctx.stub.snapshot()
		_, err = contract.AssessAndOptimize(ctx, policyID, false, false, false, false)
		require.Error(t, err)

		contractErr, ok := err.(*ContractError)
		require.True(t, ok)
		assert.Equal(t, ErrKindInvalidData, contractErr.Kind)
		assert.Equal(t, before, ctx.stub.snapshot())
	})
}
