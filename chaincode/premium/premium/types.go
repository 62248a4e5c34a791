package premium

import "fmt"

// World state object types used for composite keys
const (
	ObjectTypeHealthProfile     = "healthProfile"
	ObjectTypeLifestyleMetrics  = "lifestyleMetrics"
	ObjectTypeGeneticRisk       = "geneticRisk"
	ObjectTypePolicy            = "policy"
	ObjectTypePremiumAdjustment = "premiumAdjustment"
)

// Plain state keys for global counters
const (
	KeyNextPolicyID           = "nextPolicyID"
	KeyTotalCollectedPremiums = "totalCollectedPremiums"
	KeyPlatformRevenue        = "platformRevenue"
)

// Policy status values
const (
	PolicyStatusActive    = "ACTIVE"
	PolicyStatusCancelled = "CANCELLED"
)

// Risk categories
const (
	RiskCategoryPending  = "PENDING_ASSESSMENT"
	RiskCategoryLow      = "LOW_RISK"
	RiskCategoryModerate = "MODERATE_RISK"
	RiskCategoryHigh     = "HIGH_RISK"
	RiskCategoryVeryHigh = "VERY_HIGH_RISK"
)

// Premium configuration. Multipliers are percentages with basis 100.
const (
	BasePremium             = int64(1000)
	MinPremiumMultiplier    = 50
	MaxPremiumMultiplier    = 300
	PremiumAdjustmentPeriod = int64(30 * 24 * 60 * 60) // seconds between scheduled assessments

	// Genetic intake is not implemented yet; every scoring path that needs a
	// genetic score uses this constant instead of the GeneticRiskFactors map.
	geneticScorePlaceholder = 75

	// Audit deltas are measured against this fixed reference, not against the
	// previous assessment.
	auditBaselineScore = 75

	initialClaimHistoryScore = 100
)

// Error kinds returned by contract operations
const (
	ErrKindUnauthorized   = "UNAUTHORIZED"
	ErrKindInvalidData    = "INVALID_DATA"
	ErrKindPolicyNotFound = "POLICY_NOT_FOUND"

	// Reserved for future checks, not returned by any current operation
	ErrKindInsufficientPremium     = "INSUFFICIENT_PREMIUM"
	ErrKindHealthDataAccessDenied  = "HEALTH_DATA_ACCESS_DENIED"
	ErrKindInvalidRiskCategory     = "INVALID_RISK_CATEGORY"
	ErrKindPremiumCalculationError = "PREMIUM_CALCULATION_ERROR"
)

// ContractError is a typed error carrying one of the error kind codes so
// callers can map failures without parsing message text.
type ContractError struct {
	Kind    string
	Message string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func errUnauthorized(format string, args ...interface{}) *ContractError {
	return &ContractError{Kind: ErrKindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func errInvalidData(format string, args ...interface{}) *ContractError {
	return &ContractError{Kind: ErrKindInvalidData, Message: fmt.Sprintf(format, args...)}
}

func errPolicyNotFound(format string, args ...interface{}) *ContractError {
	return &ContractError{Kind: ErrKindPolicyNotFound, Message: fmt.Sprintf(format, args...)}
}

// HealthProfile holds one policyholder's clinical intake data. BMI is stored
// scaled by 10 (e.g. 22.5 -> 225) so the contract never touches floating point.
type HealthProfile struct {
	HolderID          string `json:"holder_id"`
	Age               int    `json:"age"`
	BMI               int    `json:"bmi"`
	SystolicBP        int    `json:"systolic_bp"`
	DiastolicBP       int    `json:"diastolic_bp"`
	CholesterolLevel  int    `json:"cholesterol_level"`
	IsSmoker          bool   `json:"is_smoker"`
	ExerciseFrequency int    `json:"exercise_frequency"`
	AlcoholUnits      int    `json:"alcohol_units"`
	HealthScore       int    `json:"health_score"`
	LastCheckup       int64  `json:"last_checkup"`
	ConsentGiven      bool   `json:"consent_given"`
}

// LifestyleMetrics holds one policyholder's lifestyle intake data.
type LifestyleMetrics struct {
	HolderID                string `json:"holder_id"`
	DailySteps              int    `json:"daily_steps"`
	SleepHours              int    `json:"sleep_hours"`
	StressLevel             int    `json:"stress_level"`
	DietQualityScore        int    `json:"diet_quality_score"`
	MentalHealthScore       int    `json:"mental_health_score"`
	SocialActivityLevel     int    `json:"social_activity_level"`
	PreventiveCareAdherence int    `json:"preventive_care_adherence"`
	LifestyleScore          int    `json:"lifestyle_score"`
}

// GeneticRiskFactors is reserved for a future genetic intake operation. No
// current operation writes or reads it; scoring uses geneticScorePlaceholder.
type GeneticRiskFactors struct {
	HolderID            string `json:"holder_id"`
	DiabetesRisk        int    `json:"diabetes_risk"`
	HeartDiseaseRisk    int    `json:"heart_disease_risk"`
	CancerRisk          int    `json:"cancer_risk"`
	AutoimmuneRisk      int    `json:"autoimmune_risk"`
	OverallGeneticScore int    `json:"overall_genetic_score"`
	GeneticCategory     string `json:"genetic_category"`
}

// InsurancePolicy is one policy document. BasePremium is immutable after
// creation; CurrentPremium and RiskCategory are rewritten only by
// AssessAndOptimize, TotalPremiumsPaid only by PayPremium.
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

// PremiumAdjustment is one append-only audit record of a premium change.
// Score deltas are relative to auditBaselineScore, not the prior assessment.
type PremiumAdjustment struct {
	PolicyID            uint64 `json:"policy_id"`
	OldPremium          int64  `json:"old_premium"`
	NewPremium          int64  `json:"new_premium"`
	Reason              string `json:"reason"`
	HealthScoreDelta    int    `json:"health_score_delta"`
	LifestyleScoreDelta int    `json:"lifestyle_score_delta"`
	AdjustedAt          int64  `json:"adjusted_at"`
}

// PredictiveTrend carries the illustrative projection attached to an
// assessment when the predictive flag is set. Presentational only; none of
// these fields feed back into the premium calculation.
type PredictiveTrend struct {
	ProjectionMonths            int `json:"projection_months"`
	ProjectedHealthScore        int `json:"projected_health_score"`
	ProjectedLifestyleScore     int `json:"projected_lifestyle_score"`
	ChronicDiseaseProbability   int `json:"chronic_disease_probability"`
	PreventiveCareEffectiveness int `json:"preventive_care_effectiveness"`
	InterventionSuccessRate     int `json:"intervention_success_rate"`
}

// AssessmentReport is the full result of one AssessAndOptimize run.
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

// PlatformStats exposes the global counters.
type PlatformStats struct {
	NextPolicyID           uint64 `json:"next_policy_id"`
	TotalCollectedPremiums int64  `json:"total_collected_premiums"`
	PlatformRevenue        int64  `json:"platform_revenue"`
}
