package premium

import (
	"fmt"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// Fixed projection values attached when the predictive flag is set. The
// projection is illustrative output for the report and never feeds back
// into the premium calculation.
const (
	projectionMonths               = 6
	projectedHealthScoreIncrement  = 5
	projectedLifestyleIncrement    = 3
	chronicDiseaseProbability      = 15
	preventiveCareEffectiveness    = 80
	interventionSuccessRate        = 70
	confidenceScorePredictive      = 92
	confidenceScoreStandard        = 78
	adjustmentReasonRiskAssessment = "RISK_REASSESSMENT"
)

// interventionRecommendations is the static advisory list attached when the
// caller requests recommendations. Content is not derived from the caller's
// scores.
var interventionRecommendations = []string{
	"Schedule an annual preventive health screening",
	"Maintain at least 150 minutes of moderate exercise per week",
	"Adopt a balanced diet and keep alcohol consumption low",
	"Use stress-management and sleep-hygiene practices",
}

// AssessAndOptimize reruns the risk assessment for a policy and rewrites its
// premium from the resulting composite risk score. All preconditions are
// checked before the first write, so a failed call leaves the ledger
// untouched. Returns the full assessment report; the same report is emitted
// as a PremiumAssessed event for off-chain observers.
func (s *SmartContract) AssessAndOptimize(ctx contractapi.TransactionContextInterface, policyID uint64, predictive, wellness, continuousMonitoring, generateRecommendations bool) (*AssessmentReport, error) {
	caller, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}

	policy, err := s.getPolicy(ctx, policyID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, errPolicyNotFound("policy %d does not exist", policyID)
	}
	if policy.HolderID != caller {
		return nil, errUnauthorized("caller is not the holder of policy %d", policyID)
	}
	if policy.Status != PolicyStatusActive {
		return nil, errPolicyNotFound("policy %d is not active", policyID)
	}

	profile, err := s.getHealthProfile(ctx, caller)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errInvalidData("caller has no health profile")
	}

	metrics, err := s.getLifestyleMetrics(ctx, caller)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		return nil, errInvalidData("caller has no lifestyle metrics")
	}

	now, err := s.txTime(ctx)
	if err != nil {
		return nil, err
	}

	health := healthScore(profile)
	lifestyle := lifestyleScore(metrics)
	ageRisk := ageRiskFactor(profile.Age)
	composite := compositeRiskScore(health, lifestyle, ageRisk)

	multiplier := premiumMultiplier(composite, wellness)
	optimizedPremium := policy.BasePremium * int64(multiplier) / 100
	adjustment := optimizedPremium - policy.CurrentPremium

	trend := PredictiveTrend{}
	confidence := confidenceScoreStandard
	if predictive {
		trend = PredictiveTrend{
			ProjectionMonths:            projectionMonths,
			ProjectedHealthScore:        health + projectedHealthScoreIncrement,
			ProjectedLifestyleScore:     lifestyle + projectedLifestyleIncrement,
			ChronicDiseaseProbability:   chronicDiseaseProbability,
			PreventiveCareEffectiveness: preventiveCareEffectiveness,
			InterventionSuccessRate:     interventionSuccessRate,
		}
		confidence = confidenceScorePredictive
	}

	recommendations := []string{}
	if generateRecommendations {
		recommendations = append(recommendations, interventionRecommendations...)
	}

	category := riskCategory(health, lifestyle, geneticScorePlaceholder)

	report := &AssessmentReport{
		PolicyID:                    policyID,
		AssessmentTimestamp:         now,
		CurrentRiskCategory:         category,
		HealthScore:                 health,
		LifestyleScore:              lifestyle,
		AgeRiskFactor:               ageRisk,
		CompositeRiskScore:          composite,
		CurrentPremium:              policy.CurrentPremium,
		OptimizedPremium:            optimizedPremium,
		PremiumAdjustment:           adjustment,
		PremiumMultiplier:           multiplier,
		PredictiveTrend:             trend,
		WellnessIncentivesActive:    wellness,
		ContinuousMonitoringEnabled: continuousMonitoring,
		InterventionRecommendations: recommendations,
		NextAssessmentDue:           now + PremiumAdjustmentPeriod,
		ConfidenceScore:             confidence,
	}

	oldPremium := policy.CurrentPremium
	policy.CurrentPremium = optimizedPremium
	policy.RiskCategory = category
	policy.LastPremiumAdjustment = now
	if err := s.putPolicy(ctx, policy); err != nil {
		return nil, err
	}

	if err := s.appendAdjustment(ctx, &PremiumAdjustment{
		PolicyID:            policyID,
		OldPremium:          oldPremium,
		NewPremium:          optimizedPremium,
		Reason:              adjustmentReasonRiskAssessment,
		HealthScoreDelta:    health - auditBaselineScore,
		LifestyleScoreDelta: lifestyle - auditBaselineScore,
		AdjustedAt:          now,
	}); err != nil {
		return nil, err
	}

	savings := int64(0)
	if oldPremium > optimizedPremium {
		savings = oldPremium - optimizedPremium
	}
	s.emitEvent(ctx, "PremiumAssessed", map[string]interface{}{
		"report":              report,
		"savings_potential":   savings,
		"next_assessment_due": report.NextAssessmentDue,
	})

	return report, nil
}

// adjustmentKey builds the (policy id, timestamp) audit ledger key. The
// zero-padded timestamp attribute keeps partial-key scans for one policy in
// chronological order.
func (s *SmartContract) adjustmentKey(ctx contractapi.TransactionContextInterface, policyID uint64, adjustedAt int64) (string, error) {
	return ctx.GetStub().CreateCompositeKey(ObjectTypePremiumAdjustment, []string{
		fmt.Sprintf("%012d", policyID),
		fmt.Sprintf("%012d", adjustedAt),
	})
}
