package premium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testHolder = "x509::CN=alice::OU=client"
	testOther  = "x509::CN=mallory::OU=client"
)

// createTestProfile stores a valid health profile for the context's caller.
func createTestProfile(t *testing.T, contract *SmartContract, ctx *mockContext) {
	t.Helper()
	err := contract.CreateHealthProfile(ctx, 30, 220, 118, 78, 180, false, 5)
	require.NoError(t, err)
}

// createTestLifestyle stores valid lifestyle metrics for the context's caller.
func createTestLifestyle(t *testing.T, contract *SmartContract, ctx *mockContext) {
	t.Helper()
	err := contract.UpdateLifestyleMetrics(ctx, 9000, 8, 2, 90, 85)
	require.NoError(t, err)
}

func TestCreateHealthProfile_Success(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)

	err := contract.CreateHealthProfile(ctx, 30, 220, 118, 78, 180, false, 5)
	require.NoError(t, err)

	profile, err := contract.GetHealthProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, testHolder, profile.HolderID)
	assert.Equal(t, 30, profile.Age)
	assert.Equal(t, 220, profile.BMI)
	assert.Equal(t, 118, profile.SystolicBP)
	assert.Equal(t, 78, profile.DiastolicBP)
	assert.Equal(t, 180, profile.CholesterolLevel)
	assert.False(t, profile.IsSmoker)
	assert.Equal(t, 5, profile.ExerciseFrequency)
	// Derived score is computed at assessment time, never at intake
	assert.Equal(t, 0, profile.HealthScore)
	assert.True(t, profile.ConsentGiven)
	assert.Equal(t, ctx.stub.txTime, profile.LastCheckup)
}

func TestCreateHealthProfile_Overwrites(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)

	require.NoError(t, contract.CreateHealthProfile(ctx, 30, 220, 118, 78, 180, false, 5))
	require.NoError(t, contract.CreateHealthProfile(ctx, 31, 260, 135, 85, 210, true, 1))

	profile, err := contract.GetHealthProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 31, profile.Age)
	assert.Equal(t, 260, profile.BMI)
	assert.True(t, profile.IsSmoker)
}

func TestCreateHealthProfile_ValidationBounds(t *testing.T) {
	tests := []struct {
		name     string
		age      int
		bmi      int
		systolic int
	}{
		{"age below minimum", 17, 220, 118},
		{"age above maximum", 101, 220, 118},
		{"bmi below minimum", 30, 99, 118},
		{"bmi above maximum", 30, 501, 118},
		{"systolic below minimum", 30, 220, 69},
		{"systolic above maximum", 30, 220, 251},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contract := new(SmartContract)
			ctx := newMockContext(testHolder)

			err := contract.CreateHealthProfile(ctx, tt.age, tt.bmi, tt.systolic, 78, 180, false, 5)
			require.Error(t, err)

			contractErr, ok := err.(*ContractError)
			require.True(t, ok)
			assert.Equal(t, ErrKindInvalidData, contractErr.Kind)
			assert.Empty(t, ctx.stub.state, "failed intake must not write state")
		})
	}
}

func TestUpdateLifestyleMetrics_Success(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)

	err := contract.UpdateLifestyleMetrics(ctx, 9000, 8, 2, 90, 85)
	require.NoError(t, err)

	metrics, err := contract.GetLifestyleMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9000, metrics.DailySteps)
	assert.Equal(t, 8, metrics.SleepHours)
	assert.Equal(t, 2, metrics.StressLevel)
	assert.Equal(t, 90, metrics.DietQualityScore)
	assert.Equal(t, 85, metrics.MentalHealthScore)
	// Platform defaults until dedicated intake exists
	assert.Equal(t, defaultSocialActivityLevel, metrics.SocialActivityLevel)
	assert.Equal(t, defaultPreventiveCareAdherence, metrics.PreventiveCareAdherence)
	assert.Equal(t, 0, metrics.LifestyleScore)
}

func TestUpdateLifestyleMetrics_ValidationBounds(t *testing.T) {
	tests := []struct {
		name   string
		stress int
		diet   int
	}{
		{"stress below minimum", 0, 90},
		{"stress above maximum", 11, 90},
		{"diet below minimum", 2, 0},
		{"diet above maximum", 2, 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contract := new(SmartContract)
			ctx := newMockContext(testHolder)

			err := contract.UpdateLifestyleMetrics(ctx, 9000, 8, tt.stress, tt.diet, 85)
			require.Error(t, err)

			contractErr, ok := err.(*ContractError)
			require.True(t, ok)
			assert.Equal(t, ErrKindInvalidData, contractErr.Kind)
			assert.Empty(t, ctx.stub.state)
		})
	}
}

func TestCreatePolicy_Success(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)
	createTestProfile(t, contract, ctx)

	policyID, err := contract.CreatePolicy(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), policyID)

	policy, err := contract.GetPolicy(ctx, policyID)
	require.NoError(t, err)
	assert.Equal(t, testHolder, policy.HolderID)
	assert.Equal(t, BasePremium, policy.CurrentPremium)
	assert.Equal(t, BasePremium, policy.BasePremium)
	assert.Equal(t, RiskCategoryPending, policy.RiskCategory)
	assert.Equal(t, PolicyStatusActive, policy.Status)
	assert.Equal(t, int64(0), policy.TotalPremiumsPaid)
	assert.Equal(t, initialClaimHistoryScore, policy.ClaimHistoryScore)

	assert.Contains(t, ctx.stub.events, "PolicyCreated")
}

func TestCreatePolicy_IDsAreSequential(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)
	createTestProfile(t, contract, ctx)

	first, err := contract.CreatePolicy(ctx)
	require.NoError(t, err)
	second, err := contract.CreatePolicy(ctx)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
}

func TestCreatePolicy_RequiresHealthProfile(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)

	_, err := contract.CreatePolicy(ctx)
	require.Error(t, err)

	contractErr, ok := err.(*ContractError)
	require.True(t, ok)
	assert.Equal(t, ErrKindInvalidData, contractErr.Kind)

	// Counter untouched: a later successful create still allocates ID 1
	createTestProfile(t, contract, ctx)
	policyID, err := contract.CreatePolicy(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), policyID)
}

func TestPayPremium_Success(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)
	createTestProfile(t, contract, ctx)

	policyID, err := contract.CreatePolicy(ctx)
	require.NoError(t, err)

	require.NoError(t, contract.PayPremium(ctx, policyID))
	require.NoError(t, contract.PayPremium(ctx, policyID))

	policy, err := contract.GetPolicy(ctx, policyID)
	require.NoError(t, err)
	assert.Equal(t, 2*BasePremium, policy.TotalPremiumsPaid)

	stats, err := contract.GetPlatformStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2*BasePremium, stats.TotalCollectedPremiums)

	assert.Contains(t, ctx.stub.events, "PremiumPaid")
}

func TestPayPremium_UnknownPolicy(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)

	err := contract.PayPremium(ctx, 42)
	require.Error(t, err)

	contractErr, ok := err.(*ContractError)
	require.True(t, ok)
	assert.Equal(t, ErrKindPolicyNotFound, contractErr.Kind)
}

func TestPayPremium_OnlyHolderMayPay(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)
	createTestProfile(t, contract, ctx)

	policyID, err := contract.CreatePolicy(ctx)
	require.NoError(t, err)

	before := ctx.stub.snapshot()
	err = contract.PayPremium(ctx.withCaller(testOther), policyID)
	require.Error(t, err)

	contractErr, ok := err.(*ContractError)
	require.True(t, ok)
	assert.Equal(t, ErrKindUnauthorized, contractErr.Kind)
	assert.Equal(t, before, ctx.stub.snapshot(), "failed payment must not write state")
}

func TestPayPremium_CancelledPolicy(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)
	createTestProfile(t, contract, ctx)

	policyID, err := contract.CreatePolicy(ctx)
	require.NoError(t, err)
	require.NoError(t, contract.CancelPolicy(ctx, policyID))

	err = contract.PayPremium(ctx, policyID)
	require.Error(t, err)

	contractErr, ok := err.(*ContractError)
	require.True(t, ok)
	assert.Equal(t, ErrKindPolicyNotFound, contractErr.Kind)
}

func TestCancelPolicy_OnlyHolder(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)
	createTestProfile(t, contract, ctx)

	policyID, err := contract.CreatePolicy(ctx)
	require.NoError(t, err)

	err = contract.CancelPolicy(ctx.withCaller(testOther), policyID)
	require.Error(t, err)

	policy, err := contract.GetPolicy(ctx, policyID)
	require.NoError(t, err)
	assert.Equal(t, PolicyStatusActive, policy.Status)
}

func TestGetPolicy_OnlyHolderMayRead(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)
	createTestProfile(t, contract, ctx)

	policyID, err := contract.CreatePolicy(ctx)
	require.NoError(t, err)

	_, err = contract.GetPolicy(ctx.withCaller(testOther), policyID)
	require.Error(t, err)

	contractErr, ok := err.(*ContractError)
	require.True(t, ok)
	assert.Equal(t, ErrKindUnauthorized, contractErr.Kind)
}

func TestGetHealthProfile_Missing(t *testing.T) {
	contract := new(SmartContract)
	ctx := newMockContext(testHolder)

	_, err := contract.GetHealthProfile(ctx)
	require.Error(t, err)

	contractErr, ok := err.(*ContractError)
	require.True(t, ok)
	assert.Equal(t, ErrKindInvalidData, contractErr.Kind)
}
