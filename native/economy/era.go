package economy

import "math/big"

// EraIndex derives how many eras elapsed since the clock last advanced. A zero
// frequency disables the clock.
func (e *Engine) EraIndex() (uint64, error) {
	if e.state == nil {
		return 0, errNilState
	}
	if e.blocks == nil {
		return 0, errNilBlocks
	}
	era, err := e.state.EraState()
	if err != nil {
		return 0, err
	}
	if era.EraFrequency == 0 {
		return 0, nil
	}
	block := e.blocks.CurrentBlockNumber()
	if block < era.LastEraUpdatedBlock {
		return 0, nil
	}
	return (block - era.LastEraUpdatedBlock) / era.EraFrequency, nil
}

// OnBlockInitialize is the per-block hook: when at least one era elapsed it
// advances the clock and accrues reward into the pool. Accrual failures are
// logged rather than propagated so block processing keeps going.
func (e *Engine) OnBlockInitialize() {
	index, err := e.EraIndex()
	if err != nil || index == 0 {
		return
	}
	if err := e.updateCurrentEra(index); err != nil {
		e.logger.Error("economy: era update failed", "eras", index, "err", err)
	}
}

func (e *Engine) updateCurrentEra(eraDelta uint64) error {
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	if e.blocks == nil {
		return errNilBlocks
	}
	era, err := e.state.EraState()
	if err != nil {
		return err
	}
	previous := era.CurrentEra
	newEra := previous + eraDelta
	if newEra < previous {
		newEra = ^uint64(0)
	}
	if err := e.accrueRewardForEras(era, previous, newEra); err != nil {
		return err
	}
	era.CurrentEra = newEra
	era.LastEraUpdatedBlock = e.blocks.CurrentBlockNumber()
	if err := e.state.SetEraState(era); err != nil {
		return err
	}
	e.emit(EraUpdated{Era: newEra})
	return nil
}

// accrueRewardForEras pushes estimatedRewardPerEra for each elapsed era into
// the reward pool, capped at the free balance of the reward holding account.
// An unfunded holding account skips accrual without error.
func (e *Engine) accrueRewardForEras(era *EraState, previousEra, newEra uint64) error {
	if newEra <= previousEra {
		return ErrEraNotElapsed
	}
	delta := newEra - previousEra
	holding, err := e.ledger.FreeBalance(e.payoutAccount)
	if err != nil {
		return err
	}
	if holding.Sign() == 0 {
		return nil
	}
	total := saturatingMulUint64(era.EstimatedRewardPerEra, delta)
	amount := minBigInt(total, holding)
	return e.AccumulateReward(NativeCurrency, amount)
}

// UpdateEraConfig is the privileged administrative surface for the era clock.
// A nil field leaves the corresponding value untouched. The last-era-updated
// block is bounded to the window (currentBlock - frequency, currentBlock] and
// is only applied while a frequency is configured.
func (e *Engine) UpdateEraConfig(lastEraUpdatedBlock, frequency *uint64, estimatedRewardPerEra *big.Int) error {
	err := e.updateEraConfig(lastEraUpdatedBlock, frequency, estimatedRewardPerEra)
	observeOp("update_era_config", err)
	return err
}

func (e *Engine) updateEraConfig(lastEraUpdatedBlock, frequency *uint64, estimatedRewardPerEra *big.Int) error {
	if e.state == nil {
		return errNilState
	}
	if e.blocks == nil {
		return errNilBlocks
	}
	era, err := e.state.EraState()
	if err != nil {
		return err
	}
	if frequency != nil {
		era.EraFrequency = *frequency
		e.emit(EraFrequencyUpdated{Frequency: *frequency})
	}
	if lastEraUpdatedBlock != nil && era.EraFrequency != 0 {
		current := e.blocks.CurrentBlockNumber()
		floor := uint64(0)
		if current > era.EraFrequency {
			floor = current - era.EraFrequency
		}
		if *lastEraUpdatedBlock <= floor || *lastEraUpdatedBlock > current {
			return ErrInvalidLastEraUpdatedBlock
		}
		era.LastEraUpdatedBlock = *lastEraUpdatedBlock
		e.emit(LastEraUpdatedBlockUpdated{Block: *lastEraUpdatedBlock})
	}
	if estimatedRewardPerEra != nil {
		if !validAmount(estimatedRewardPerEra) {
			return ErrInvalidAmount
		}
		era.EstimatedRewardPerEra = copyBigInt(estimatedRewardPerEra)
		e.emit(EstimatedRewardPerEraUpdated{Amount: copyBigInt(estimatedRewardPerEra)})
	}
	return e.state.SetEraState(era)
}
