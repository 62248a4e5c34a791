package premium

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/healthsure/dlt-insurance/pkg/logger"
	"github.com/healthsure/dlt-insurance/pkg/types"
)

// ChaincodeClient abstracts transaction submission to the premium chaincode
type ChaincodeClient interface {
	Submit(ctx context.Context, holderID, function string, args ...string) (*types.ChaincodeTxResult, error)
	Evaluate(ctx context.Context, holderID, function string, args ...string) ([]byte, error)
	Ping(ctx context.Context) error
}

// AssessmentStore mirrors on-chain results into the relational read model
type AssessmentStore interface {
	Record(ctx context.Context, holderID string, report *types.AssessmentReport, txID string) (*types.StoredAssessment, error)
	ListByPolicy(ctx context.Context, policyID uint64, limit int) ([]*types.StoredAssessment, error)
	RecordPayment(ctx context.Context, policyID uint64, holderID string, amount int64, txID string, paidAt time.Time) error
}

// MetricsRecorder records domain metrics for platform operations.
// *monitoring.MetricsCollector satisfies it.
type MetricsRecorder interface {
	RecordAssessment(riskCategory, status string)
	RecordPremiumPayment(status string)
	RecordAuthAttempt(method, status string)
	RecordBlockchainTransaction(chaincode, function, status string, duration time.Duration)
}

// Service implements the premium platform operations on top of the
// chaincode and the read model.
type Service struct {
	chaincode   ChaincodeClient
	assessments AssessmentStore
	metrics     MetricsRecorder
	logger      *logger.Logger
}

// NewService creates a new premium service
func NewService(chaincode ChaincodeClient, assessments AssessmentStore, metrics MetricsRecorder, log *logger.Logger) *Service {
	return &Service{
		chaincode:   chaincode,
		assessments: assessments,
		metrics:     metrics,
		logger:      log,
	}
}

// CreateHealthProfile records the holder's health profile on chain
func (s *Service) CreateHealthProfile(ctx context.Context, holderID string, req *types.HealthProfileRequest) error {
	if err := validateProfileRequest(req); err != nil {
		return err
	}

	_, err := s.chaincode.Submit(ctx, holderID, "CreateHealthProfile",
		strconv.Itoa(req.Age),
		strconv.Itoa(req.BMI),
		strconv.Itoa(req.SystolicBP),
		strconv.Itoa(req.DiastolicBP),
		strconv.Itoa(req.CholesterolLevel),
		strconv.FormatBool(req.IsSmoker),
		strconv.Itoa(req.ExerciseFrequency),
	)
	if err != nil {
		return types.NewExternalError(types.ErrCodeChaincodeError, "failed to create health profile", err)
	}

	s.logger.Audit(holderID, "create_health_profile", "health_profile", true, nil)
	return nil
}

// UpdateLifestyleMetrics records the holder's lifestyle metrics on chain
func (s *Service) UpdateLifestyleMetrics(ctx context.Context, holderID string, req *types.LifestyleMetricsRequest) error {
	if err := validateLifestyleRequest(req); err != nil {
		return err
	}

	_, err := s.chaincode.Submit(ctx, holderID, "UpdateLifestyleMetrics",
		strconv.Itoa(req.DailySteps),
		strconv.Itoa(req.SleepHours),
		strconv.Itoa(req.StressLevel),
		strconv.Itoa(req.DietQualityScore),
		strconv.Itoa(req.MentalHealthScore),
	)
	if err != nil {
		return types.NewExternalError(types.ErrCodeChaincodeError, "failed to update lifestyle metrics", err)
	}

	s.logger.Audit(holderID, "update_lifestyle_metrics", "lifestyle_metrics", true, nil)
	return nil
}

// CreatePolicy issues a new policy for the holder
func (s *Service) CreatePolicy(ctx context.Context, holderID string) (uint64, error) {
	result, err := s.chaincode.Submit(ctx, holderID, "CreatePolicy")
	if err != nil {
		return 0, types.NewExternalError(types.ErrCodeChaincodeError, "failed to create policy", err)
	}

	policyID, err := strconv.ParseUint(string(result.Payload), 10, 64)
	if err != nil {
		return 0, types.NewInternalError(types.ErrCodeInternalError, "unexpected policy ID payload", err)
	}

	s.logger.Audit(holderID, "create_policy", fmt.Sprintf("policy/%d", policyID), true, nil)
	return policyID, nil
}

// PayPremium pays the current premium on a policy
func (s *Service) PayPremium(ctx context.Context, holderID string, policyID uint64) error {
	policy, err := s.GetPolicy(ctx, holderID, policyID)
	if err != nil {
		return err
	}

	result, err := s.chaincode.Submit(ctx, holderID, "PayPremium", strconv.FormatUint(policyID, 10))
	if err != nil {
		s.metrics.RecordPremiumPayment("failed")
		return types.NewExternalError(types.ErrCodeChaincodeError, "failed to pay premium", err)
	}
	s.metrics.RecordPremiumPayment("success")

	// Read model mirror is best-effort, the chain is the source of truth.
	if err := s.assessments.RecordPayment(ctx, policyID, holderID, policy.CurrentPremium, result.TxID, time.Now()); err != nil {
		s.logger.WithError(err).Warn("Failed to mirror payment into read model")
	}

	s.logger.Audit(holderID, "pay_premium", fmt.Sprintf("policy/%d", policyID), true, map[string]interface{}{
		"amount": policy.CurrentPremium,
	})
	return nil
}

// CancelPolicy cancels an active policy
func (s *Service) CancelPolicy(ctx context.Context, holderID string, policyID uint64) error {
	_, err := s.chaincode.Submit(ctx, holderID, "CancelPolicy", strconv.FormatUint(policyID, 10))
	if err != nil {
		return types.NewExternalError(types.ErrCodeChaincodeError, "failed to cancel policy", err)
	}

	s.logger.Audit(holderID, "cancel_policy", fmt.Sprintf("policy/%d", policyID), true, nil)
	return nil
}

// AssessPolicy runs a risk assessment and premium optimization on chain and
// mirrors the resulting report into the read model.
func (s *Service) AssessPolicy(ctx context.Context, holderID string, policyID uint64, req *types.AssessmentRequest) (*types.AssessmentReport, error) {
	result, err := s.chaincode.Submit(ctx, holderID, "AssessAndOptimize",
		strconv.FormatUint(policyID, 10),
		strconv.FormatBool(req.Predictive),
		strconv.FormatBool(req.Wellness),
		strconv.FormatBool(req.ContinuousMonitoring),
		strconv.FormatBool(req.GenerateRecommendations),
	)
	if err != nil {
		s.metrics.RecordAssessment("unknown", "failed")
		return nil, types.NewExternalError(types.ErrCodeChaincodeError, "assessment failed", err)
	}

	var report types.AssessmentReport
	if err := json.Unmarshal(result.Payload, &report); err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to parse assessment report", err)
	}
	s.metrics.RecordAssessment(report.CurrentRiskCategory, "success")

	if _, err := s.assessments.Record(ctx, holderID, &report, result.TxID); err != nil {
		s.logger.WithError(err).Warn("Failed to mirror assessment into read model")
	}

	s.logger.PremiumChange(policyID, report.CurrentPremium, report.OptimizedPremium, report.CurrentRiskCategory)
	return &report, nil
}

// GetPolicy returns the holder's policy
func (s *Service) GetPolicy(ctx context.Context, holderID string, policyID uint64) (*types.InsurancePolicy, error) {
	payload, err := s.chaincode.Evaluate(ctx, holderID, "GetPolicy", strconv.FormatUint(policyID, 10))
	if err != nil {
		return nil, types.NewExternalError(types.ErrCodeChaincodeError, "failed to get policy", err)
	}

	var policy types.InsurancePolicy
	if err := json.Unmarshal(payload, &policy); err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to parse policy", err)
	}

	return &policy, nil
}

// GetAdjustmentHistory returns the on-chain premium adjustment trail
func (s *Service) GetAdjustmentHistory(ctx context.Context, holderID string, policyID uint64) (json.RawMessage, error) {
	payload, err := s.chaincode.Evaluate(ctx, holderID, "GetPremiumAdjustments", strconv.FormatUint(policyID, 10))
	if err != nil {
		return nil, types.NewExternalError(types.ErrCodeChaincodeError, "failed to get adjustment history", err)
	}

	return payload, nil
}

// GetAssessmentHistory returns mirrored assessment reports for a policy
func (s *Service) GetAssessmentHistory(ctx context.Context, policyID uint64, limit int) ([]*types.StoredAssessment, error) {
	return s.assessments.ListByPolicy(ctx, policyID, limit)
}

// GetPlatformStats returns the platform-wide counters
func (s *Service) GetPlatformStats(ctx context.Context, holderID string) (json.RawMessage, error) {
	payload, err := s.chaincode.Evaluate(ctx, holderID, "GetPlatformStats")
	if err != nil {
		return nil, types.NewExternalError(types.ErrCodeChaincodeError, "failed to get platform stats", err)
	}

	return payload, nil
}

// Request validation mirrors the chaincode bounds so obviously bad payloads
// are rejected before a transaction is submitted.
const (
	minAge         = 18
	maxAge         = 100
	minBMI         = 100
	maxBMI         = 500
	minSystolic    = 70
	maxSystolic    = 250
	minStressLevel = 1
	maxStressLevel = 10
	minDietScore   = 1
	maxDietScore   = 100
)

func validateProfileRequest(req *types.HealthProfileRequest) error {
	if req.Age < minAge || req.Age > maxAge {
		return types.NewValidationError(types.ErrCodeInvalidData, fmt.Sprintf("age must be between %d and %d", minAge, maxAge))
	}
	if req.BMI < minBMI || req.BMI > maxBMI {
		return types.NewValidationError(types.ErrCodeInvalidData, fmt.Sprintf("bmi must be between %d and %d", minBMI, maxBMI))
	}
	if req.SystolicBP < minSystolic || req.SystolicBP > maxSystolic {
		return types.NewValidationError(types.ErrCodeInvalidData, fmt.Sprintf("systolic blood pressure must be between %d and %d", minSystolic, maxSystolic))
	}
	return nil
}

func validateLifestyleRequest(req *types.LifestyleMetricsRequest) error {
	if req.StressLevel < minStressLevel || req.StressLevel > maxStressLevel {
		return types.NewValidationError(types.ErrCodeInvalidData, fmt.Sprintf("stress level must be between %d and %d", minStressLevel, maxStressLevel))
	}
	if req.DietQualityScore < minDietScore || req.DietQualityScore > maxDietScore {
		return types.NewValidationError(types.ErrCodeInvalidData, fmt.Sprintf("diet quality score must be between %d and %d", minDietScore, maxDietScore))
	}
	return nil
}
