package premium

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// The premium-adjustment ledger is insert-only: records are keyed by
// (policy id, adjustment timestamp), written once by the optimizer and never
// mutated or pruned. The policy-id prefix of the composite key doubles as
// the secondary index for per-policy history queries.

// appendAdjustment writes one audit record. Writing over an existing key
// would rewrite history, so an occupied slot is rejected.
func (s *SmartContract) appendAdjustment(ctx contractapi.TransactionContextInterface, adjustment *PremiumAdjustment) error {
	key, err := s.adjustmentKey(ctx, adjustment.PolicyID, adjustment.AdjustedAt)
	if err != nil {
		return fmt.Errorf("failed to create adjustment key: %w", err)
	}

	existing, err := ctx.GetStub().GetState(key)
	if err != nil {
		return fmt.Errorf("failed to read adjustment ledger: %w", err)
	}
	if existing != nil {
		return &ContractError{
			Kind:    ErrKindPremiumCalculationError,
			Message: fmt.Sprintf("adjustment for policy %d at %d already recorded", adjustment.PolicyID, adjustment.AdjustedAt),
		}
	}

	return s.putJSON(ctx, key, adjustment)
}

// GetPremiumAdjustments returns the full adjustment history of a policy in
// chronological order. Only the policyholder may read it.
func (s *SmartContract) GetPremiumAdjustments(ctx contractapi.TransactionContextInterface, policyID uint64) ([]*PremiumAdjustment, error) {
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

	iterator, err := ctx.GetStub().GetStateByPartialCompositeKey(ObjectTypePremiumAdjustment, []string{
		fmt.Sprintf("%012d", policyID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan adjustment ledger: %w", err)
	}
	defer iterator.Close()

	adjustments := []*PremiumAdjustment{}
	for iterator.HasNext() {
		response, err := iterator.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to iterate adjustment ledger: %w", err)
		}

		var adjustment PremiumAdjustment
		if err := json.Unmarshal(response.Value, &adjustment); err != nil {
			return nil, fmt.Errorf("failed to unmarshal adjustment record: %w", err)
		}
		adjustments = append(adjustments, &adjustment)
	}

	return adjustments, nil
}
