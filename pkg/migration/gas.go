package migration

import "fmt"

// GasSafetyMargin is added on top of a gas estimate before submission, so a
// transaction does not fail on an estimate that was exact at estimation time
// but stale by inclusion time.
const GasSafetyMargin = 100_000

// BudgetGas computes the gas limit for a pending transaction from its
// estimate and the current block gas limit. An estimate above the block
// limit is rejected outright: such a transaction can never be mined.
func BudgetGas(estimate, blockLimit uint64) (uint64, error) {
	if estimate > blockLimit {
		return 0, fmt.Errorf("%w: estimate %d, block limit %d",
			ErrGasLimitExceeded, estimate, blockLimit)
	}
	budget := estimate + GasSafetyMargin
	if budget > blockLimit {
		budget = blockLimit
	}
	return budget, nil
}
