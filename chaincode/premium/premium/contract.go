package premium

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// SmartContract manages dynamic health-insurance premiums: health and
// lifestyle intake, policy lifecycle, risk-based premium optimization and
// the premium-adjustment audit ledger.
type SmartContract struct {
	contractapi.Contract
}

// Input validation bounds for health profile intake
const (
	minAge      = 18
	maxAge      = 100
	minBMI      = 100
	maxBMI      = 500
	minSystolic = 70
	maxSystolic = 250
)

// Bounds for lifestyle intake
const (
	minStressLevel                 = 1
	maxStressLevel                 = 10
	minDietScore                   = 1
	maxDietScore                   = 100
	defaultSocialActivityLevel     = 50
	defaultPreventiveCareAdherence = 75
)

// CreateHealthProfile records the caller's health profile, replacing any
// existing one. The stored health score starts at zero; it is computed
// during assessment, never at intake. Consent is implied by submission.
func (s *SmartContract) CreateHealthProfile(ctx contractapi.TransactionContextInterface, age, bmi, systolicBP, diastolicBP, cholesterol int, isSmoker bool, exerciseFrequency int) error {
	if age < minAge || age > maxAge {
		return errInvalidData("age %d outside [%d, %d]", age, minAge, maxAge)
	}
	if bmi < minBMI || bmi > maxBMI {
		return errInvalidData("bmi %d outside [%d, %d]", bmi, minBMI, maxBMI)
	}
	if systolicBP < minSystolic || systolicBP > maxSystolic {
		return errInvalidData("systolic blood pressure %d outside [%d, %d]", systolicBP, minSystolic, maxSystolic)
	}

	caller, err := s.callerID(ctx)
	if err != nil {
		return err
	}
	now, err := s.txTime(ctx)
	if err != nil {
		return err
	}

	profile := HealthProfile{
		HolderID:          caller,
		Age:               age,
		BMI:               bmi,
		SystolicBP:        systolicBP,
		DiastolicBP:       diastolicBP,
		CholesterolLevel:  cholesterol,
		IsSmoker:          isSmoker,
		ExerciseFrequency: exerciseFrequency,
		HealthScore:       0,
		LastCheckup:       now,
		ConsentGiven:      true,
	}

	key, err := ctx.GetStub().CreateCompositeKey(ObjectTypeHealthProfile, []string{caller})
	if err != nil {
		return fmt.Errorf("failed to create profile key: %w", err)
	}
	return s.putJSON(ctx, key, &profile)
}

// UpdateLifestyleMetrics records the caller's lifestyle metrics, replacing
// any existing record. Social activity and preventive-care adherence are
// fixed platform defaults until dedicated intake exists for them.
func (s *SmartContract) UpdateLifestyleMetrics(ctx contractapi.TransactionContextInterface, dailySteps, sleepHours, stressLevel, dietScore, mentalScore int) error {
	if stressLevel < minStressLevel || stressLevel > maxStressLevel {
		return errInvalidData("stress level %d outside [%d, %d]", stressLevel, minStressLevel, maxStressLevel)
	}
	if dietScore < minDietScore || dietScore > maxDietScore {
		return errInvalidData("diet quality score %d outside [%d, %d]", dietScore, minDietScore, maxDietScore)
	}

	caller, err := s.callerID(ctx)
	if err != nil {
		return err
	}

	metrics := LifestyleMetrics{
		HolderID:                caller,
		DailySteps:              dailySteps,
		SleepHours:              sleepHours,
		StressLevel:             stressLevel,
		DietQualityScore:        dietScore,
		MentalHealthScore:       mentalScore,
		SocialActivityLevel:     defaultSocialActivityLevel,
		PreventiveCareAdherence: defaultPreventiveCareAdherence,
		LifestyleScore:          0,
	}

	key, err := ctx.GetStub().CreateCompositeKey(ObjectTypeLifestyleMetrics, []string{caller})
	if err != nil {
		return fmt.Errorf("failed to create lifestyle key: %w", err)
	}
	return s.putJSON(ctx, key, &metrics)
}

// CreatePolicy issues a new ACTIVE policy for the caller at the base
// premium. The caller must already have a health profile; the risk category
// stays PENDING_ASSESSMENT until the first optimization run.
func (s *SmartContract) CreatePolicy(ctx contractapi.TransactionContextInterface) (uint64, error) {
	caller, err := s.callerID(ctx)
	if err != nil {
		return 0, err
	}

	profile, err := s.getHealthProfile(ctx, caller)
	if err != nil {
		return 0, err
	}
	if profile == nil {
		return 0, errInvalidData("caller has no health profile")
	}

	now, err := s.txTime(ctx)
	if err != nil {
		return 0, err
	}

	policyID, err := s.getCounter(ctx, KeyNextPolicyID, 1)
	if err != nil {
		return 0, err
	}

	policy := InsurancePolicy{
		PolicyID:              policyID,
		HolderID:              caller,
		CurrentPremium:        BasePremium,
		BasePremium:           BasePremium,
		RiskCategory:          RiskCategoryPending,
		Status:                PolicyStatusActive,
		CreatedAt:             now,
		LastPremiumAdjustment: 0,
		TotalPremiumsPaid:     0,
		ClaimHistoryScore:     initialClaimHistoryScore,
	}

	if err := s.putPolicy(ctx, &policy); err != nil {
		return 0, err
	}
	if err := s.setCounter(ctx, KeyNextPolicyID, policyID+1); err != nil {
		return 0, err
	}

	s.emitEvent(ctx, "PolicyCreated", map[string]interface{}{
		"policy_id":    policyID,
		"holder_id":    caller,
		"base_premium": BasePremium,
		"created_at":   now,
	})

	return policyID, nil
}

// PayPremium records a premium payment by the policyholder. The payment is
// always exactly the policy's current premium; value settlement happens on
// the platform's token layer and is acknowledged here through the emitted
// event and the payment counters.
func (s *SmartContract) PayPremium(ctx contractapi.TransactionContextInterface, policyID uint64) error {
	caller, err := s.callerID(ctx)
	if err != nil {
		return err
	}

	policy, err := s.getPolicy(ctx, policyID)
	if err != nil {
		return err
	}
	if policy == nil {
		return errPolicyNotFound("policy %d does not exist", policyID)
	}
	if policy.HolderID != caller {
		return errUnauthorized("caller is not the holder of policy %d", policyID)
	}
	if policy.Status != PolicyStatusActive {
		return errPolicyNotFound("policy %d is not active", policyID)
	}

	now, err := s.txTime(ctx)
	if err != nil {
		return err
	}

	amount := policy.CurrentPremium
	policy.TotalPremiumsPaid += amount
	if err := s.putPolicy(ctx, policy); err != nil {
		return err
	}

	collected, err := s.getInt64(ctx, KeyTotalCollectedPremiums)
	if err != nil {
		return err
	}
	if err := s.setInt64(ctx, KeyTotalCollectedPremiums, collected+amount); err != nil {
		return err
	}

	s.emitEvent(ctx, "PremiumPaid", map[string]interface{}{
		"policy_id": policyID,
		"holder_id": caller,
		"amount":    amount,
		"paid_at":   now,
	})

	return nil
}

// CancelPolicy deactivates the caller's policy. Cancelled policies refuse
// payments and assessments; the record itself is never removed.
func (s *SmartContract) CancelPolicy(ctx contractapi.TransactionContextInterface, policyID uint64) error {
	caller, err := s.callerID(ctx)
	if err != nil {
		return err
	}

	policy, err := s.getPolicy(ctx, policyID)
	if err != nil {
		return err
	}
	if policy == nil {
		return errPolicyNotFound("policy %d does not exist", policyID)
	}
	if policy.HolderID != caller {
		return errUnauthorized("caller is not the holder of policy %d", policyID)
	}
	if policy.Status != PolicyStatusActive {
		return errPolicyNotFound("policy %d is not active", policyID)
	}

	policy.Status = PolicyStatusCancelled
	return s.putPolicy(ctx, policy)
}

// GetPolicy returns a policy document to its holder.
func (s *SmartContract) GetPolicy(ctx contractapi.TransactionContextInterface, policyID uint64) (*InsurancePolicy, error) {
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
	return policy, nil
}

// GetHealthProfile returns the caller's own health profile.
func (s *SmartContract) GetHealthProfile(ctx contractapi.TransactionContextInterface) (*HealthProfile, error) {
	caller, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.getHealthProfile(ctx, caller)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errInvalidData("caller has no health profile")
	}
	return profile, nil
}

// GetLifestyleMetrics returns the caller's own lifestyle metrics.
func (s *SmartContract) GetLifestyleMetrics(ctx contractapi.TransactionContextInterface) (*LifestyleMetrics, error) {
	caller, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}
	metrics, err := s.getLifestyleMetrics(ctx, caller)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		return nil, errInvalidData("caller has no lifestyle metrics")
	}
	return metrics, nil
}

// GetPlatformStats returns the global counters.
func (s *SmartContract) GetPlatformStats(ctx contractapi.TransactionContextInterface) (*PlatformStats, error) {
	nextID, err := s.getCounter(ctx, KeyNextPolicyID, 1)
	if err != nil {
		return nil, err
	}
	collected, err := s.getInt64(ctx, KeyTotalCollectedPremiums)
	if err != nil {
		return nil, err
	}
	revenue, err := s.getInt64(ctx, KeyPlatformRevenue)
	if err != nil {
		return nil, err
	}
	return &PlatformStats{
		NextPolicyID:           nextID,
		TotalCollectedPremiums: collected,
		PlatformRevenue:        revenue,
	}, nil
}

// State access helpers

func (s *SmartContract) callerID(ctx contractapi.TransactionContextInterface) (string, error) {
	id, err := ctx.GetClientIdentity().GetID()
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	return id, nil
}

func (s *SmartContract) txTime(ctx contractapi.TransactionContextInterface) (int64, error) {
	ts, err := ctx.GetStub().GetTxTimestamp()
	if err != nil {
		return 0, fmt.Errorf("failed to get transaction timestamp: %w", err)
	}
	return ts.Seconds, nil
}

func (s *SmartContract) putJSON(ctx contractapi.TransactionContextInterface, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal state for %s: %w", key, err)
	}
	if err := ctx.GetStub().PutState(key, data); err != nil {
		return fmt.Errorf("failed to write state for %s: %w", key, err)
	}
	return nil
}

func (s *SmartContract) policyKey(ctx contractapi.TransactionContextInterface, policyID uint64) (string, error) {
	// Zero-padded so range scans over policies stay in numeric order.
	return ctx.GetStub().CreateCompositeKey(ObjectTypePolicy, []string{fmt.Sprintf("%012d", policyID)})
}

func (s *SmartContract) getPolicy(ctx contractapi.TransactionContextInterface, policyID uint64) (*InsurancePolicy, error) {
	key, err := s.policyKey(ctx, policyID)
	if err != nil {
		return nil, fmt.Errorf("failed to create policy key: %w", err)
	}
	data, err := ctx.GetStub().GetState(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy %d: %w", policyID, err)
	}
	if data == nil {
		return nil, nil
	}
	var policy InsurancePolicy
	if err := json.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal policy %d: %w", policyID, err)
	}
	return &policy, nil
}

func (s *SmartContract) putPolicy(ctx contractapi.TransactionContextInterface, policy *InsurancePolicy) error {
	key, err := s.policyKey(ctx, policy.PolicyID)
	if err != nil {
		return fmt.Errorf("failed to create policy key: %w", err)
	}
	return s.putJSON(ctx, key, policy)
}

func (s *SmartContract) getHealthProfile(ctx contractapi.TransactionContextInterface, holderID string) (*HealthProfile, error) {
	key, err := ctx.GetStub().CreateCompositeKey(ObjectTypeHealthProfile, []string{holderID})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile key: %w", err)
	}
	data, err := ctx.GetStub().GetState(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read health profile: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	var profile HealthProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal health profile: %w", err)
	}
	return &profile, nil
}

func (s *SmartContract) getLifestyleMetrics(ctx contractapi.TransactionContextInterface, holderID string) (*LifestyleMetrics, error) {
	key, err := ctx.GetStub().CreateCompositeKey(ObjectTypeLifestyleMetrics, []string{holderID})
	if err != nil {
		return nil, fmt.Errorf("failed to create lifestyle key: %w", err)
	}
	data, err := ctx.GetStub().GetState(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read lifestyle metrics: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	var metrics LifestyleMetrics
	if err := json.Unmarshal(data, &metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lifestyle metrics: %w", err)
	}
	return &metrics, nil
}

// getCounter reads a uint64 counter, returning the provided initial value
// when the key has never been written.
func (s *SmartContract) getCounter(ctx contractapi.TransactionContextInterface, key string, initial uint64) (uint64, error) {
	data, err := ctx.GetStub().GetState(key)
	if err != nil {
		return 0, fmt.Errorf("failed to read counter %s: %w", key, err)
	}
	if data == nil {
		return initial, nil
	}
	value, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt counter %s: %w", key, err)
	}
	return value, nil
}

func (s *SmartContract) setCounter(ctx contractapi.TransactionContextInterface, key string, value uint64) error {
	if err := ctx.GetStub().PutState(key, []byte(strconv.FormatUint(value, 10))); err != nil {
		return fmt.Errorf("failed to write counter %s: %w", key, err)
	}
	return nil
}

func (s *SmartContract) getInt64(ctx contractapi.TransactionContextInterface, key string) (int64, error) {
	data, err := ctx.GetStub().GetState(key)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if data == nil {
		return 0, nil
	}
	value, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt value at %s: %w", key, err)
	}
	return value, nil
}

func (s *SmartContract) setInt64(ctx contractapi.TransactionContextInterface, key string, value int64) error {
	if err := ctx.GetStub().PutState(key, []byte(strconv.FormatInt(value, 10))); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// emitEvent publishes a chaincode event. Event delivery is best effort for
// observers; a marshal or SetEvent failure must not abort the transaction
// that already committed its state changes.
func (s *SmartContract) emitEvent(ctx contractapi.TransactionContextInterface, name string, payload map[string]interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = ctx.GetStub().SetEvent(name, data)
}
