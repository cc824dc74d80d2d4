package economy

import (
	"math/big"

	nativecommon "landchain/native/common"
)

// addShare grows the pool by `amount` shares for `who`. For every reward
// currency already in the pool the proportional reward inflation
// floor(amount * totalReward / previousShares) is added to both pool totals and
// to the depositor's withdrawn baseline, so a late joiner starts fully caught
// up and can never claim reward accrued before it joined.
func (e *Engine) addShare(who [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	pool, ok, err := e.state.RewardPool()
	if err != nil {
		return err
	}
	if !ok {
		pool = NewRewardPoolInfo()
	}
	initialShares := copyBigInt(pool.TotalShares)
	pool.TotalShares = saturatingAdd(pool.TotalShares, amount)

	inflation := make(map[CurrencyID]*big.Int, len(pool.Rewards))
	for _, currency := range pool.Currencies() {
		entry := pool.Rewards[currency]
		adjust := big.NewInt(0)
		if initialShares.Sign() != 0 {
			adjust = mulDiv(amount, entry.Total, initialShares)
		}
		entry.Total = saturatingAdd(entry.Total, adjust)
		entry.Withdrawn = saturatingAdd(entry.Withdrawn, adjust)
		inflation[currency] = adjust
	}

	record, ok, err := e.state.ShareRecord(who)
	if err != nil {
		return err
	}
	if !ok {
		record = NewShareRecord()
	}
	record.Share = saturatingAdd(record.Share, amount)
	for currency, adjust := range inflation {
		record.Withdrawn[currency] = saturatingAdd(record.Withdrawn[currency], adjust)
	}
	if err := e.state.SetRewardPool(pool); err != nil {
		return err
	}
	return e.state.SetShareRecord(who, record)
}

// removeShare settles the depositor's entitlement first, then shrinks both the
// pool and the depositor's baselines proportionally. Emptied currency entries,
// share records and the pool itself are deleted rather than zeroed.
func (e *Engine) removeShare(who [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	// Settle before mutating shares; removing with unsettled entitlement would
	// corrupt the proportional accounting.
	if err := e.claimRewards(who); err != nil {
		return err
	}
	record, ok, err := e.state.ShareRecord(who)
	if err != nil || !ok {
		return err
	}
	remove := minBigInt(amount, record.Share)
	if remove.Sign() == 0 {
		return nil
	}
	share := copyBigInt(record.Share)

	pool, ok, err := e.state.RewardPool()
	if err != nil {
		return err
	}
	if ok {
		pool.TotalShares = saturatingSub(pool.TotalShares, remove)
		for _, currency := range record.Currencies() {
			withdrawn := record.Withdrawn[currency]
			toRemove := mulDiv(remove, withdrawn, share)
			if entry, present := pool.Rewards[currency]; present {
				entry.Total = saturatingSub(entry.Total, toRemove)
				entry.Withdrawn = saturatingSub(entry.Withdrawn, toRemove)
				if entry.Total.Sign() == 0 {
					delete(pool.Rewards, currency)
				}
			}
			record.Withdrawn[currency] = saturatingSub(withdrawn, toRemove)
		}
		if pool.TotalShares.Sign() == 0 {
			if err := e.state.RemoveRewardPool(); err != nil {
				return err
			}
		} else {
			if err := e.state.SetRewardPool(pool); err != nil {
				return err
			}
		}
	}

	record.Share = saturatingSub(share, remove)
	if record.Share.Sign() == 0 {
		return e.state.RemoveShareRecord(who)
	}
	return e.state.SetShareRecord(who, record)
}

// claimRewards realises the depositor's outstanding entitlement for every
// reward currency into the pending-rewards ledger. The payout per currency is
// capped at what the pool still holds unattributed, protecting against
// rounding drift.
func (e *Engine) claimRewards(who [20]byte) error {
	record, ok, err := e.state.ShareRecord(who)
	if err != nil || !ok {
		return err
	}
	if record.Share.Sign() == 0 {
		return nil
	}
	pool, ok, err := e.state.RewardPool()
	if err != nil || !ok {
		return err
	}
	totalShares := copyBigInt(pool.TotalShares)

	var pending map[CurrencyID]*big.Int
	changed := false
	for _, currency := range pool.Currencies() {
		entry := pool.Rewards[currency]
		withdrawn := copyBigInt(record.Withdrawn[currency])
		proportion := mulDiv(record.Share, entry.Total, totalShares)
		toWithdraw := minBigInt(
			saturatingSub(proportion, withdrawn),
			saturatingSub(entry.Total, entry.Withdrawn),
		)
		if toWithdraw.Sign() == 0 {
			continue
		}
		entry.Withdrawn = saturatingAdd(entry.Withdrawn, toWithdraw)
		record.Withdrawn[currency] = saturatingAdd(withdrawn, toWithdraw)
		if pending == nil {
			pending, err = e.state.PendingRewards(who)
			if err != nil {
				return err
			}
			if pending == nil {
				pending = make(map[CurrencyID]*big.Int)
			}
		}
		pending[currency] = saturatingAdd(pending[currency], toWithdraw)
		changed = true
	}
	if !changed {
		return nil
	}
	if err := e.state.SetRewardPool(pool); err != nil {
		return err
	}
	if err := e.state.SetShareRecord(who, record); err != nil {
		return err
	}
	return e.state.SetPendingRewards(who, pending)
}

// AccumulateReward pushes newly issued reward into the pool for the given
// currency. It fails when no pool exists yet, i.e. no shares were ever added.
func (e *Engine) AccumulateReward(currency CurrencyID, amount *big.Int) error {
	if e.state == nil {
		return errNilState
	}
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	pool, ok, err := e.state.RewardPool()
	if err != nil {
		return err
	}
	if !ok {
		return ErrRewardPoolDoesNotExist
	}
	if entry, present := pool.Rewards[currency]; present {
		entry.Total = saturatingAdd(entry.Total, amount)
	} else {
		pool.Rewards[currency] = &RewardEntry{Total: copyBigInt(amount), Withdrawn: big.NewInt(0)}
	}
	return e.state.SetRewardPool(pool)
}

// ClaimReward settles the caller's pool entitlement and drains the pending
// rewards ledger through the asset ledger. A failed transfer in one currency is
// logged and skipped so it cannot block payout of the others.
func (e *Engine) ClaimReward(caller [20]byte) error {
	err := e.claimReward(caller)
	observeOp("claim_reward", err)
	return err
}

func (e *Engine) claimReward(caller [20]byte) error {
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if err := e.requireCollaborators(); err != nil {
		return err
	}
	if err := e.claimRewards(caller); err != nil {
		return err
	}
	pending, err := e.state.PendingRewards(caller)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}
	remaining := make(map[CurrencyID]*big.Int)
	for _, currency := range sortedPendingCurrencies(pending) {
		amount := pending[currency]
		if amount == nil || amount.Sign() == 0 {
			continue
		}
		if err := e.ledger.Transfer(currency, e.payoutAccount, caller, amount); err != nil {
			e.logger.Error("economy: reward payout failed",
				"currency", string(currency),
				"amount", amount.String(),
				"err", err,
			)
			remaining[currency] = copyBigInt(amount)
			continue
		}
		e.emit(RewardsClaimed{Staker: caller, Currency: currency, Amount: copyBigInt(amount)})
	}
	if len(remaining) == 0 {
		return e.state.RemovePendingRewards(caller)
	}
	return e.state.SetPendingRewards(caller, remaining)
}
