package economy

import (
	"log/slog"
	"math/big"

	"landchain/core/events"
	nativecommon "landchain/native/common"
)

const moduleName = "economy"

// engineState is the persistence surface the engine mutates. Every entity of
// the staking ledger, exit queues and reward pool is read and written through
// it; absence is reported explicitly because presence is load-bearing for the
// duplicate-exit and pool-exists checks.
type engineState interface {
	SelfStake(addr [20]byte) (*big.Int, error)
	SetSelfStake(addr [20]byte, amount *big.Int) error
	RemoveSelfStake(addr [20]byte) error
	TotalStake() (*big.Int, error)
	SetTotalStake(total *big.Int) error

	EstateBond(estateID uint64) (*Bond, bool, error)
	SetEstateBond(estateID uint64, bond *Bond) error
	RemoveEstateBond(estateID uint64) error
	TotalEstateStake() (*big.Int, error)
	SetTotalEstateStake(total *big.Int) error

	InnovationStake(addr [20]byte) (*big.Int, error)
	SetInnovationStake(addr [20]byte, amount *big.Int) error
	RemoveInnovationStake(addr [20]byte) error
	TotalInnovationStake() (*big.Int, error)
	SetTotalInnovationStake(total *big.Int) error

	ExitQueueEntry(addr [20]byte, round uint64) (*big.Int, bool, error)
	SetExitQueueEntry(addr [20]byte, round uint64, amount *big.Int) error
	RemoveExitQueueEntry(addr [20]byte, round uint64) error
	EstateExitQueueEntry(addr [20]byte, round uint64, estateID uint64) (*big.Int, bool, error)
	SetEstateExitQueueEntry(addr [20]byte, round uint64, estateID uint64, amount *big.Int) error
	RemoveEstateExitQueueEntry(addr [20]byte, round uint64, estateID uint64) error
	InnovationExitQueueEntry(addr [20]byte, round uint64) (*big.Int, bool, error)
	SetInnovationExitQueueEntry(addr [20]byte, round uint64, amount *big.Int) error
	RemoveInnovationExitQueueEntry(addr [20]byte, round uint64) error

	ShareRecord(addr [20]byte) (*ShareRecord, bool, error)
	SetShareRecord(addr [20]byte, record *ShareRecord) error
	RemoveShareRecord(addr [20]byte) error
	RewardPool() (*RewardPoolInfo, bool, error)
	SetRewardPool(pool *RewardPoolInfo) error
	RemoveRewardPool() error
	PendingRewards(addr [20]byte) (map[CurrencyID]*big.Int, error)
	SetPendingRewards(addr [20]byte, rewards map[CurrencyID]*big.Int) error
	RemovePendingRewards(addr [20]byte) error

	EraState() (*EraState, error)
	SetEraState(state *EraState) error
}

// AssetLedger is the external fungible-asset collaborator. Reserve fails when
// the free balance is insufficient; Transfer fails when the source balance in
// the given currency is insufficient.
type AssetLedger interface {
	FreeBalance(addr [20]byte) (*big.Int, error)
	Reserve(addr [20]byte, amount *big.Int) error
	Unreserve(addr [20]byte, amount *big.Int) error
	ReservedBalance(addr [20]byte) (*big.Int, error)
	Transfer(currency CurrencyID, from, to [20]byte, amount *big.Int) error
}

// EstateAuthority answers estate existence, ownership and sizing queries.
type EstateAuthority interface {
	EstateExists(id uint64) (bool, error)
	IsOwner(addr [20]byte, id uint64) (bool, error)
	LandUnitCount(id uint64) (uint64, error)
}

// RoundSource reports the current round index, monotonically non-decreasing.
type RoundSource interface {
	CurrentRound() uint64
}

// BlockSource reports the current block number, monotonically increasing.
type BlockSource interface {
	CurrentBlockNumber() uint64
}

// Engine orchestrates the staking ledger, exit queues, reward pool and era
// clock. Operations are sequential and all-or-nothing: validation happens
// before the first write, and callers running against persistent state wrap
// each operation in an overlay that only commits on success.
type Engine struct {
	state         engineState
	ledger        AssetLedger
	estates       EstateAuthority
	rounds        RoundSource
	blocks        BlockSource
	emitter       events.Emitter
	params        Params
	payoutAccount [20]byte
	pauses        nativecommon.PauseView
	logger        *slog.Logger
}

// NewEngine constructs an economy engine with default parameters and a no-op
// emitter. Collaborators are wired via the Set* methods before use.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		params:  DefaultParams(),
		logger:  slog.Default(),
	}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetLedger wires the fungible-asset ledger collaborator.
func (e *Engine) SetLedger(ledger AssetLedger) { e.ledger = ledger }

// SetEstates wires the estate authority collaborator.
func (e *Engine) SetEstates(estates EstateAuthority) { e.estates = estates }

// SetRounds wires the round source collaborator.
func (e *Engine) SetRounds(rounds RoundSource) { e.rounds = rounds }

// SetBlocks wires the block number source collaborator.
func (e *Engine) SetBlocks(blocks BlockSource) { e.blocks = blocks }

// SetEmitter configures the event emitter. Passing nil resets to a no-op
// emitter.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetParams replaces the staking parameters after validating them.
func (e *Engine) SetParams(params Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	e.params = params
	return nil
}

// SetRewardPayoutAccount configures the account era accrual is funded from and
// reward claims are paid out of.
func (e *Engine) SetRewardPayoutAccount(addr [20]byte) { e.payoutAccount = addr }

// SetPauses wires the module pause view consulted before mutating operations.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

// SetLogger overrides the structured logger used for tolerated failures.
func (e *Engine) SetLogger(logger *slog.Logger) {
	if logger == nil {
		e.logger = slog.Default()
		return
	}
	e.logger = logger
}

func (e *Engine) requireCollaborators() error {
	if e.state == nil {
		return errNilState
	}
	if e.ledger == nil {
		return errNilLedger
	}
	if e.rounds == nil {
		return errNilRounds
	}
	return nil
}

func (e *Engine) emit(evt events.Event) {
	if evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

// Stake locks `amount` of the caller's free balance as self-stake, or as
// estate-stake when an estate identifier is supplied.
func (e *Engine) Stake(caller [20]byte, amount *big.Int, estate *uint64) error {
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		observeOp("stake", err)
		return err
	}
	var err error
	if estate == nil {
		err = e.stakeSelf(caller, amount)
	} else {
		err = e.stakeEstate(caller, amount, *estate)
	}
	observeOp("stake", err)
	return err
}

func (e *Engine) stakeSelf(caller [20]byte, amount *big.Int) error {
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	free, err := e.ledger.FreeBalance(caller)
	if err != nil {
		return err
	}
	if free.Cmp(amount) < 0 {
		return ErrInsufficientBalanceForStaking
	}
	currentRound := e.rounds.CurrentRound()
	if _, exists, err := e.state.ExitQueueEntry(caller, currentRound); err != nil {
		return err
	} else if exists {
		return ErrExitQueueScheduled
	}
	staked, err := e.state.SelfStake(caller)
	if err != nil {
		return err
	}
	total, err := checkedAdd(staked, amount)
	if err != nil {
		return err
	}
	if total.Cmp(e.params.MinimumStake) < 0 {
		return ErrStakeBelowMinimum
	}
	if err := e.ledger.Reserve(caller, amount); err != nil {
		return err
	}
	if err := e.state.SetSelfStake(caller, total); err != nil {
		return err
	}
	aggregate, err := e.state.TotalStake()
	if err != nil {
		return err
	}
	newAggregate := saturatingAdd(aggregate, amount)
	if err := e.state.SetTotalStake(newAggregate); err != nil {
		return err
	}
	setTotalStakeGauge(newAggregate)
	e.emit(SelfStaked{Staker: caller, Amount: copyBigInt(amount)})
	return nil
}

func (e *Engine) stakeEstate(caller [20]byte, amount *big.Int, estateID uint64) error {
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	if e.estates == nil {
		return errNilEstates
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	free, err := e.ledger.FreeBalance(caller)
	if err != nil {
		return err
	}
	if free.Cmp(amount) < 0 {
		return ErrInsufficientBalanceForStaking
	}
	currentRound := e.rounds.CurrentRound()
	if _, exists, err := e.state.EstateExitQueueEntry(caller, currentRound, estateID); err != nil {
		return err
	} else if exists {
		return ErrEstateExitQueueScheduled
	}
	exists, err := e.estates.EstateExists(estateID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEstateDoesNotExist
	}
	owner, err := e.estates.IsOwner(caller, estateID)
	if err != nil {
		return err
	}
	if !owner {
		return ErrNotEstateOwner
	}
	staked := big.NewInt(0)
	if bond, ok, err := e.state.EstateBond(estateID); err != nil {
		return err
	} else if ok {
		if bond.Staker != caller {
			return ErrPreviousOwnerStillStakes
		}
		staked = copyBigInt(bond.Amount)
	}
	total, err := checkedAdd(staked, amount)
	if err != nil {
		return err
	}
	if total.Cmp(e.params.MinimumStake) < 0 {
		return ErrStakeBelowMinimum
	}
	landUnits, err := e.estates.LandUnitCount(estateID)
	if err != nil {
		return err
	}
	if landUnits == 0 {
		return ErrEstateDoesNotExist
	}
	allowance := saturatingMulUint64(e.params.MaximumEstateStakePerLandUnit, landUnits)
	if total.Cmp(allowance) > 0 {
		return ErrStakeAboveMaximum
	}
	if err := e.ledger.Reserve(caller, amount); err != nil {
		return err
	}
	if err := e.state.SetEstateBond(estateID, &Bond{Staker: caller, Amount: total}); err != nil {
		return err
	}
	aggregate, err := e.state.TotalEstateStake()
	if err != nil {
		return err
	}
	newAggregate := saturatingAdd(aggregate, amount)
	if err := e.state.SetTotalEstateStake(newAggregate); err != nil {
		return err
	}
	setTotalEstateStakeGauge(newAggregate)
	e.emit(EstateStaked{Staker: caller, EstateID: estateID, Amount: copyBigInt(amount)})
	return nil
}

// StakeOnInnovation locks `amount` into the pooled reward program and adds the
// matching share in lock-step.
func (e *Engine) StakeOnInnovation(caller [20]byte, amount *big.Int) error {
	err := e.stakeOnInnovation(caller, amount)
	observeOp("stake_on_innovation", err)
	return err
}

func (e *Engine) stakeOnInnovation(caller [20]byte, amount *big.Int) error {
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	free, err := e.ledger.FreeBalance(caller)
	if err != nil {
		return err
	}
	if free.Cmp(amount) < 0 {
		return ErrInsufficientBalanceForStaking
	}
	currentRound := e.rounds.CurrentRound()
	if _, exists, err := e.state.InnovationExitQueueEntry(caller, currentRound); err != nil {
		return err
	} else if exists {
		return ErrExitQueueScheduled
	}
	staked, err := e.state.InnovationStake(caller)
	if err != nil {
		return err
	}
	total, err := checkedAdd(staked, amount)
	if err != nil {
		return err
	}
	if total.Cmp(e.params.MinimumStake) < 0 {
		return ErrStakeBelowMinimum
	}
	if err := e.ledger.Reserve(caller, amount); err != nil {
		return err
	}
	if err := e.state.SetInnovationStake(caller, total); err != nil {
		return err
	}
	aggregate, err := e.state.TotalInnovationStake()
	if err != nil {
		return err
	}
	newAggregate := saturatingAdd(aggregate, amount)
	if err := e.state.SetTotalInnovationStake(newAggregate); err != nil {
		return err
	}
	if err := e.addShare(caller, amount); err != nil {
		return err
	}
	setTotalInnovationStakeGauge(newAggregate)
	e.emit(InnovationStaked{Staker: caller, Amount: copyBigInt(amount)})
	return nil
}

// Unstake schedules `amount` of self-stake (or estate-stake when an estate
// identifier is supplied) for exit at the next round. A remainder below the
// minimum stake sweeps the entire position into the queue.
func (e *Engine) Unstake(caller [20]byte, amount *big.Int, estate *uint64) error {
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		observeOp("unstake", err)
		return err
	}
	var err error
	if estate == nil {
		err = e.unstakeSelf(caller, amount)
	} else {
		err = e.unstakeEstate(caller, amount, *estate)
	}
	observeOp("unstake", err)
	return err
}

// sweepAmount applies the minimum-stake dust rule: when the post-unstake
// remainder falls under the floor the whole position exits.
func (e *Engine) sweepAmount(staked, amount *big.Int) (toUnstake, remaining *big.Int, err error) {
	remaining, err = checkedSub(staked, amount)
	if err != nil {
		return nil, nil, err
	}
	if remaining.Cmp(e.params.MinimumStake) < 0 {
		return copyBigInt(staked), remaining, nil
	}
	return copyBigInt(amount), remaining, nil
}

func (e *Engine) unstakeSelf(caller [20]byte, amount *big.Int) error {
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return ErrUnstakeAmountIsZero
	}
	staked, err := e.state.SelfStake(caller)
	if err != nil {
		return err
	}
	if amount.Cmp(staked) > 0 {
		return ErrUnstakeExceedsStaked
	}
	toUnstake, remaining, err := e.sweepAmount(staked, amount)
	if err != nil {
		return err
	}
	nextRound := e.rounds.CurrentRound() + e.params.StakingExitDelayRounds
	if _, exists, err := e.state.ExitQueueEntry(caller, nextRound); err != nil {
		return err
	} else if exists {
		return ErrExitQueueScheduled
	}
	if err := e.state.SetExitQueueEntry(caller, nextRound, toUnstake); err != nil {
		return err
	}
	if toUnstake.Cmp(staked) == 0 {
		if err := e.state.RemoveSelfStake(caller); err != nil {
			return err
		}
	} else {
		if err := e.state.SetSelfStake(caller, remaining); err != nil {
			return err
		}
	}
	aggregate, err := e.state.TotalStake()
	if err != nil {
		return err
	}
	newAggregate := saturatingSub(aggregate, toUnstake)
	if err := e.state.SetTotalStake(newAggregate); err != nil {
		return err
	}
	setTotalStakeGauge(newAggregate)
	e.emit(SelfStakingRemoved{Staker: caller, Amount: copyBigInt(amount)})
	return nil
}

func (e *Engine) unstakeEstate(caller [20]byte, amount *big.Int, estateID uint64) error {
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	if e.estates == nil {
		return errNilEstates
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return ErrUnstakeAmountIsZero
	}
	exists, err := e.estates.EstateExists(estateID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEstateDoesNotExist
	}
	staked := big.NewInt(0)
	if bond, ok, err := e.state.EstateBond(estateID); err != nil {
		return err
	} else if ok {
		if bond.Staker != caller {
			return ErrNoFundsStakedAtEstate
		}
		staked = copyBigInt(bond.Amount)
	}
	if amount.Cmp(staked) > 0 {
		return ErrUnstakeExceedsStaked
	}
	toUnstake, remaining, err := e.sweepAmount(staked, amount)
	if err != nil {
		return err
	}
	nextRound := e.rounds.CurrentRound() + e.params.StakingExitDelayRounds
	if _, scheduled, err := e.state.EstateExitQueueEntry(caller, nextRound, estateID); err != nil {
		return err
	} else if scheduled {
		return ErrEstateExitQueueScheduled
	}
	if err := e.state.SetEstateExitQueueEntry(caller, nextRound, estateID, toUnstake); err != nil {
		return err
	}
	if toUnstake.Cmp(staked) == 0 {
		if err := e.state.RemoveEstateBond(estateID); err != nil {
			return err
		}
	} else {
		if err := e.state.SetEstateBond(estateID, &Bond{Staker: caller, Amount: remaining}); err != nil {
			return err
		}
	}
	aggregate, err := e.state.TotalEstateStake()
	if err != nil {
		return err
	}
	newAggregate := saturatingSub(aggregate, toUnstake)
	if err := e.state.SetTotalEstateStake(newAggregate); err != nil {
		return err
	}
	setTotalEstateStakeGauge(newAggregate)
	e.emit(EstateStakingRemoved{Staker: caller, EstateID: estateID, Amount: copyBigInt(amount)})
	return nil
}

// UnstakeOnInnovation schedules `amount` of innovation stake for exit after the
// long delay and settles the matching share removal immediately.
func (e *Engine) UnstakeOnInnovation(caller [20]byte, amount *big.Int) error {
	err := e.unstakeOnInnovation(caller, amount)
	observeOp("unstake_on_innovation", err)
	return err
}

func (e *Engine) unstakeOnInnovation(caller [20]byte, amount *big.Int) error {
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return ErrUnstakeAmountIsZero
	}
	staked, err := e.state.InnovationStake(caller)
	if err != nil {
		return err
	}
	if amount.Cmp(staked) > 0 {
		return ErrUnstakeExceedsStaked
	}
	toUnstake, remaining, err := e.sweepAmount(staked, amount)
	if err != nil {
		return err
	}
	targetRound := e.rounds.CurrentRound() + e.params.InnovationExitDelayRounds
	if _, exists, err := e.state.InnovationExitQueueEntry(caller, targetRound); err != nil {
		return err
	} else if exists {
		return ErrExitQueueScheduled
	}
	if err := e.state.SetInnovationExitQueueEntry(caller, targetRound, toUnstake); err != nil {
		return err
	}
	if toUnstake.Cmp(staked) == 0 {
		if err := e.state.RemoveInnovationStake(caller); err != nil {
			return err
		}
	} else {
		if err := e.state.SetInnovationStake(caller, remaining); err != nil {
			return err
		}
	}
	aggregate, err := e.state.TotalInnovationStake()
	if err != nil {
		return err
	}
	newAggregate := saturatingSub(aggregate, toUnstake)
	if err := e.state.SetTotalInnovationStake(newAggregate); err != nil {
		return err
	}
	if err := e.removeShare(caller, toUnstake); err != nil {
		return err
	}
	setTotalInnovationStakeGauge(newAggregate)
	e.emit(InnovationUnstaked{Staker: caller, Amount: copyBigInt(amount)})
	return nil
}

// UnstakeNewEstateOwner lets the current estate owner force-exit a bond left
// behind by a previous owner. The exit ticket is keyed by the previous staker;
// the event carries both parties.
func (e *Engine) UnstakeNewEstateOwner(caller [20]byte, estateID uint64) error {
	err := e.unstakeNewEstateOwner(caller, estateID)
	observeOp("unstake_new_estate_owner", err)
	return err
}

func (e *Engine) unstakeNewEstateOwner(caller [20]byte, estateID uint64) error {
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	if e.estates == nil {
		return errNilEstates
	}
	exists, err := e.estates.EstateExists(estateID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEstateDoesNotExist
	}
	owner, err := e.estates.IsOwner(caller, estateID)
	if err != nil {
		return err
	}
	if !owner {
		return ErrNotEstateOwner
	}
	bond, ok, err := e.state.EstateBond(estateID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEstateDoesNotExist
	}
	if bond.Staker == caller {
		return ErrStakerNotPreviousOwner
	}
	staked := copyBigInt(bond.Amount)
	nextRound := e.rounds.CurrentRound() + e.params.StakingExitDelayRounds
	if err := e.state.SetEstateExitQueueEntry(bond.Staker, nextRound, estateID, staked); err != nil {
		return err
	}
	if err := e.state.RemoveEstateBond(estateID); err != nil {
		return err
	}
	aggregate, err := e.state.TotalEstateStake()
	if err != nil {
		return err
	}
	newAggregate := saturatingSub(aggregate, staked)
	if err := e.state.SetTotalEstateStake(newAggregate); err != nil {
		return err
	}
	setTotalEstateStakeGauge(newAggregate)
	e.emit(EstateStakingRemoved{Staker: bond.Staker, Caller: &caller, EstateID: estateID, Amount: staked})
	return nil
}

// WithdrawUnreserved consumes the caller's self-stake exit ticket for the
// given round and unreserves the amount.
func (e *Engine) WithdrawUnreserved(caller [20]byte, round uint64) error {
	err := e.withdrawUnreserved(caller, round)
	observeOp("withdraw_unreserved", err)
	return err
}

func (e *Engine) withdrawUnreserved(caller [20]byte, round uint64) error {
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	amount, ok, err := e.state.ExitQueueEntry(caller, round)
	if err != nil {
		return err
	}
	if !ok {
		return ErrExitQueueMissing
	}
	if err := e.state.RemoveExitQueueEntry(caller, round); err != nil {
		return err
	}
	if err := e.ledger.Unreserve(caller, amount); err != nil {
		return err
	}
	e.emit(UnstakedAmountWithdrawn{Staker: caller, Amount: copyBigInt(amount)})
	return nil
}

// WithdrawEstateUnreserved consumes the caller's estate exit ticket for the
// given round and estate and unreserves the amount.
func (e *Engine) WithdrawEstateUnreserved(caller [20]byte, round uint64, estateID uint64) error {
	err := e.withdrawEstateUnreserved(caller, round, estateID)
	observeOp("withdraw_estate_unreserved", err)
	return err
}

func (e *Engine) withdrawEstateUnreserved(caller [20]byte, round uint64, estateID uint64) error {
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	amount, ok, err := e.state.EstateExitQueueEntry(caller, round, estateID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEstateExitQueueMissing
	}
	if err := e.state.RemoveEstateExitQueueEntry(caller, round, estateID); err != nil {
		return err
	}
	if err := e.ledger.Unreserve(caller, amount); err != nil {
		return err
	}
	e.emit(UnstakedAmountWithdrawn{Staker: caller, Amount: copyBigInt(amount)})
	return nil
}

// WithdrawInnovationUnreserved consumes the caller's innovation exit ticket
// for the given round and unreserves the amount.
func (e *Engine) WithdrawInnovationUnreserved(caller [20]byte, round uint64) error {
	err := e.withdrawInnovationUnreserved(caller, round)
	observeOp("withdraw_innovation_unreserved", err)
	return err
}

func (e *Engine) withdrawInnovationUnreserved(caller [20]byte, round uint64) error {
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	amount, ok, err := e.state.InnovationExitQueueEntry(caller, round)
	if err != nil {
		return err
	}
	if !ok {
		return ErrExitQueueMissing
	}
	if err := e.state.RemoveInnovationExitQueueEntry(caller, round); err != nil {
		return err
	}
	if err := e.ledger.Unreserve(caller, amount); err != nil {
		return err
	}
	e.emit(UnstakedAmountWithdrawn{Staker: caller, Amount: copyBigInt(amount)})
	return nil
}

// ForceUnstake is the privileged bypass: it mutates the staking ledger and
// unreserves immediately, skipping the exit queue. Input bounds are still
// validated.
func (e *Engine) ForceUnstake(who [20]byte, amount *big.Int, estate *uint64) error {
	var err error
	if estate == nil {
		err = e.forceUnstakeSelf(who, amount)
	} else {
		err = e.forceUnstakeEstate(who, amount, *estate)
	}
	observeOp("force_unstake", err)
	return err
}

func (e *Engine) forceUnstakeSelf(who [20]byte, amount *big.Int) error {
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return ErrUnstakeAmountIsZero
	}
	staked, err := e.state.SelfStake(who)
	if err != nil {
		return err
	}
	if amount.Cmp(staked) > 0 {
		return ErrUnstakeExceedsStaked
	}
	toUnstake, remaining, err := e.sweepAmount(staked, amount)
	if err != nil {
		return err
	}
	if toUnstake.Cmp(staked) == 0 {
		if err := e.state.RemoveSelfStake(who); err != nil {
			return err
		}
	} else {
		if err := e.state.SetSelfStake(who, remaining); err != nil {
			return err
		}
	}
	aggregate, err := e.state.TotalStake()
	if err != nil {
		return err
	}
	newAggregate := saturatingSub(aggregate, toUnstake)
	if err := e.state.SetTotalStake(newAggregate); err != nil {
		return err
	}
	if err := e.ledger.Unreserve(who, toUnstake); err != nil {
		return err
	}
	setTotalStakeGauge(newAggregate)
	e.emit(UnstakedAmountWithdrawn{Staker: who, Amount: copyBigInt(toUnstake)})
	e.emit(SelfStakingRemoved{Staker: who, Amount: copyBigInt(amount)})
	return nil
}

func (e *Engine) forceUnstakeEstate(who [20]byte, amount *big.Int, estateID uint64) error {
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	if e.estates == nil {
		return errNilEstates
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return ErrUnstakeAmountIsZero
	}
	exists, err := e.estates.EstateExists(estateID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEstateDoesNotExist
	}
	staked := big.NewInt(0)
	if bond, ok, err := e.state.EstateBond(estateID); err != nil {
		return err
	} else if ok {
		if bond.Staker != who {
			return ErrNoFundsStakedAtEstate
		}
		staked = copyBigInt(bond.Amount)
	}
	if amount.Cmp(staked) > 0 {
		return ErrUnstakeExceedsStaked
	}
	toUnstake, remaining, err := e.sweepAmount(staked, amount)
	if err != nil {
		return err
	}
	if toUnstake.Cmp(staked) == 0 {
		if err := e.state.RemoveEstateBond(estateID); err != nil {
			return err
		}
	} else {
		if err := e.state.SetEstateBond(estateID, &Bond{Staker: who, Amount: remaining}); err != nil {
			return err
		}
	}
	aggregate, err := e.state.TotalEstateStake()
	if err != nil {
		return err
	}
	newAggregate := saturatingSub(aggregate, toUnstake)
	if err := e.state.SetTotalEstateStake(newAggregate); err != nil {
		return err
	}
	if err := e.ledger.Unreserve(who, toUnstake); err != nil {
		return err
	}
	setTotalEstateStakeGauge(newAggregate)
	e.emit(UnstakedAmountWithdrawn{Staker: who, Amount: copyBigInt(toUnstake)})
	e.emit(EstateStakingRemoved{Staker: who, EstateID: estateID, Amount: copyBigInt(amount)})
	return nil
}

// ForceUnreservedStaking is the privileged escape hatch that unreserves part of
// an account's reserved balance without touching the staking ledger.
func (e *Engine) ForceUnreservedStaking(who [20]byte, amount *big.Int) error {
	err := e.forceUnreservedStaking(who, amount)
	observeOp("force_unreserved_staking", err)
	return err
}

func (e *Engine) forceUnreservedStaking(who [20]byte, amount *big.Int) error {
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return ErrUnstakeAmountIsZero
	}
	reserved, err := e.ledger.ReservedBalance(who)
	if err != nil {
		return err
	}
	if amount.Cmp(reserved) > 0 {
		return ErrUnstakeExceedsStaked
	}
	return e.ledger.Unreserve(who, amount)
}
