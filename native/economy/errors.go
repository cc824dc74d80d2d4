package economy

import "errors"

var (
	errNilState   = errors.New("economy engine: state not configured")
	errNilLedger  = errors.New("economy engine: asset ledger not configured")
	errNilEstates = errors.New("economy engine: estate authority not configured")
	errNilRounds  = errors.New("economy engine: round source not configured")
	errNilBlocks  = errors.New("economy engine: block source not configured")

	// ErrInsufficientBalanceForStaking indicates the caller's free balance is
	// below the requested stake amount.
	ErrInsufficientBalanceForStaking = errors.New("economy engine: insufficient balance for staking")
	// ErrStakeBelowMinimum indicates the resulting stake would fall under the
	// configured minimum.
	ErrStakeBelowMinimum = errors.New("economy engine: stake below minimum")
	// ErrStakeAboveMaximum indicates an estate stake exceeds the per-land-unit
	// allowance.
	ErrStakeAboveMaximum = errors.New("economy engine: stake amount exceeds estate maximum")
	// ErrUnstakeAmountIsZero rejects zero-amount unstake requests.
	ErrUnstakeAmountIsZero = errors.New("economy engine: unstake amount is zero")
	// ErrUnstakeExceedsStaked indicates an unstake larger than the staked amount.
	ErrUnstakeExceedsStaked = errors.New("economy engine: unstake amount exceeds staked amount")
	// ErrExitQueueScheduled indicates an exit is already queued for the target
	// round, so a second schedule (or a new stake at that round) is rejected.
	ErrExitQueueScheduled = errors.New("economy engine: exit already scheduled for round")
	// ErrEstateExitQueueScheduled is the estate-keyed variant of
	// ErrExitQueueScheduled.
	ErrEstateExitQueueScheduled = errors.New("economy engine: estate exit already scheduled for round")
	// ErrExitQueueMissing indicates no exit ticket exists for the requested round.
	ErrExitQueueMissing = errors.New("economy engine: exit queue entry does not exist")
	// ErrEstateExitQueueMissing is the estate-keyed variant of ErrExitQueueMissing.
	ErrEstateExitQueueMissing = errors.New("economy engine: estate exit queue entry does not exist")
	// ErrEstateDoesNotExist indicates the referenced estate is unknown to the
	// estate authority.
	ErrEstateDoesNotExist = errors.New("economy engine: staking estate does not exist")
	// ErrNotEstateOwner indicates the caller does not own the referenced estate.
	ErrNotEstateOwner = errors.New("economy engine: staker is not estate owner")
	// ErrNoFundsStakedAtEstate indicates the estate bond belongs to a different
	// staker than the caller.
	ErrNoFundsStakedAtEstate = errors.New("economy engine: no funds staked at estate")
	// ErrPreviousOwnerStillStakes blocks new estate staking while an earlier
	// owner's bond remains unrelieved.
	ErrPreviousOwnerStillStakes = errors.New("economy engine: previous owner still stakes at estate")
	// ErrStakerNotPreviousOwner indicates the bond already belongs to the caller,
	// so there is nothing for the new-owner transition to clear.
	ErrStakerNotPreviousOwner = errors.New("economy engine: staker is not previous owner")
	// ErrRewardPoolDoesNotExist indicates a reward operation ran before any
	// shares were ever added.
	ErrRewardPoolDoesNotExist = errors.New("economy engine: reward pool does not exist")
	// ErrInvalidLastEraUpdatedBlock rejects era configuration outside the
	// allowed window around the current block.
	ErrInvalidLastEraUpdatedBlock = errors.New("economy engine: invalid last era updated block")
	// ErrEraNotElapsed signals an era update invoked without era progress. It is
	// a logic error rather than a user-facing rejection.
	ErrEraNotElapsed = errors.New("economy engine: era delta is zero")
	// ErrArithmeticOverflow indicates a checked balance operation exceeded the
	// representable range.
	ErrArithmeticOverflow = errors.New("economy engine: arithmetic overflow")
	// ErrArithmeticUnderflow indicates a checked subtraction went below zero.
	ErrArithmeticUnderflow = errors.New("economy engine: arithmetic underflow")
	// ErrInvalidAmount rejects nil or negative amounts at the engine boundary.
	ErrInvalidAmount = errors.New("economy engine: amount must be non-negative")
)
