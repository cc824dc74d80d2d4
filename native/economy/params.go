package economy

import (
	"fmt"
	"math/big"
)

// Params controls the staking thresholds and exit delays enforced by the
// engine.
type Params struct {
	// MinimumStake is the floor applied to every staking position. A position
	// is either zero (absent) or at least this amount.
	MinimumStake *big.Int
	// MaximumEstateStakePerLandUnit bounds an estate bond at this amount
	// multiplied by the estate's land unit count.
	MaximumEstateStakePerLandUnit *big.Int
	// StakingExitDelayRounds is the number of rounds between an unstake and the
	// round its exit ticket becomes withdrawable, for self and estate stake.
	StakingExitDelayRounds uint64
	// InnovationExitDelayRounds is the longer delay applied to innovation
	// stake exits.
	InnovationExitDelayRounds uint64
}

// DefaultParams returns the production defaults: a one round exit delay for
// self and estate stake and a 28 round delay for innovation stake.
func DefaultParams() Params {
	return Params{
		MinimumStake:                  big.NewInt(1),
		MaximumEstateStakePerLandUnit: mustBigInt("100000000000000000000"),
		StakingExitDelayRounds:        1,
		InnovationExitDelayRounds:     28,
	}
}

// Validate ensures the supplied parameters fall within safe operating ranges.
func (p Params) Validate() error {
	if p.MinimumStake == nil || p.MinimumStake.Sign() <= 0 {
		return fmt.Errorf("minimum stake must be positive")
	}
	if p.MaximumEstateStakePerLandUnit == nil || p.MaximumEstateStakePerLandUnit.Sign() <= 0 {
		return fmt.Errorf("maximum estate stake per land unit must be positive")
	}
	if p.MaximumEstateStakePerLandUnit.Cmp(p.MinimumStake) < 0 {
		return fmt.Errorf("maximum estate stake per land unit must be at least the minimum stake")
	}
	if p.StakingExitDelayRounds == 0 {
		return fmt.Errorf("staking exit delay must be positive")
	}
	if p.InnovationExitDelayRounds == 0 {
		return fmt.Errorf("innovation exit delay must be positive")
	}
	return nil
}
