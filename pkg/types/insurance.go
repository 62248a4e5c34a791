package types

import "time"

// PredictiveTrend mirrors the projection block of a chaincode assessment
// report.
type PredictiveTrend struct {
	ProjectionMonths            int `json:"projection_months"`
	ProjectedHealthScore        int `json:"projected_health_score"`
	ProjectedLifestyleScore     int `json:"projected_lifestyle_score"`
	ChronicDiseaseProbability   int `json:"chronic_disease_probability"`
	PreventiveCareEffectiveness int `json:"preventive_care_effectiveness"`
	InterventionSuccessRate     int `json:"intervention_success_rate"`
}

// AssessmentReport is the chaincode's assessment result as consumed by the
// API service and mirrored into the read model.
type AssessmentReport struct {
	PolicyID                    uint64          `json:"policy_id"`
	AssessmentTimestamp         int64           `json:"assessment_timestamp"`
	CurrentRiskCategory         string          `json:"current_risk_category"`
	HealthScore                 int             `json:"health_score"`
	LifestyleScore              int             `json:"lifestyle_score"`
	AgeRiskFactor               int             `json:"age_risk_factor"`
	CompositeRiskScore          int             `json:"composite_risk_score"`
	CurrentPremium              int64           `json:"current_premium"`
	OptimizedPremium            int64           `json:"optimized_premium"`
	PremiumAdjustment           int64           `json:"premium_adjustment"`
	PremiumMultiplier           int             `json:"premium_multiplier"`
	PredictiveTrend             PredictiveTrend `json:"predictive_trend"`
	WellnessIncentivesActive    bool            `json:"wellness_incentives_active"`
	ContinuousMonitoringEnabled bool            `json:"continuous_monitoring_enabled"`
	InterventionRecommendations []string        `json:"intervention_recommendations"`
	NextAssessmentDue           int64           `json:"next_assessment_due"`
	ConfidenceScore             int             `json:"confidence_score"`
}

// InsurancePolicy is the policy document as returned by the chaincode.
type InsurancePolicy struct {
	PolicyID              uint64 `json:"policy_id"`
	HolderID              string `json:"holder_id"`
	CurrentPremium        int64  `json:"current_premium"`
	BasePremium           int64  `json:"base_premium"`
	RiskCategory          string `json:"risk_category"`
	Status                string `json:"status"`
	CreatedAt             int64  `json:"created_at"`
	LastPremiumAdjustment int64  `json:"last_premium_adjustment"`
	TotalPremiumsPaid     int64  `json:"total_premiums_paid"`
	ClaimHistoryScore     int    `json:"claim_history_score"`
}

// HealthProfileRequest is the intake payload for a health profile. BMI is
// scaled by 10 and blood pressure is mmHg.
type HealthProfileRequest struct {
	Age               int  `json:"age"`
	BMI               int  `json:"bmi"`
	SystolicBP        int  `json:"systolic_bp"`
	DiastolicBP       int  `json:"diastolic_bp"`
	CholesterolLevel  int  `json:"cholesterol_level"`
	IsSmoker          bool `json:"is_smoker"`
	ExerciseFrequency int  `json:"exercise_frequency"`
}

// LifestyleMetricsRequest is the intake payload for lifestyle metrics.
type LifestyleMetricsRequest struct {
	DailySteps        int `json:"daily_steps"`
	SleepHours        int `json:"sleep_hours"`
	StressLevel       int `json:"stress_level"`
	DietQualityScore  int `json:"diet_quality_score"`
	MentalHealthScore int `json:"mental_health_score"`
}

// AssessmentRequest carries the optimizer flags for one assessment run.
type AssessmentRequest struct {
	Predictive              bool `json:"predictive"`
	Wellness                bool `json:"wellness"`
	ContinuousMonitoring    bool `json:"continuous_monitoring"`
	GenerateRecommendations bool `json:"generate_recommendations"`
}

// StoredAssessment is one read-model row mirroring a successful assessment.
type StoredAssessment struct {
	ID           string           `json:"id"`
	PolicyID     uint64           `json:"policy_id"`
	HolderID     string           `json:"holder_id"`
	Report       AssessmentReport `json:"report"`
	RecordedAt   time.Time        `json:"recorded_at"`
	BlockchainTx string           `json:"blockchain_tx"`
}

// UserClaims holds the authenticated caller's identity as extracted from a
// bearer token.
type UserClaims struct {
	HolderID string `json:"holder_id"`
	Subject  string `json:"subject"`
}

// ChaincodeTxResult is the outcome of one submitted chaincode transaction.
type ChaincodeTxResult struct {
	TxID    string `json:"tx_id"`
	Payload []byte `json:"payload,omitempty"`
}
