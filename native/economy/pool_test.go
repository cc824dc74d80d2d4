package economy

import (
	"errors"
	"math/big"
	"testing"
)

func mustInnovationStake(t *testing.T, env *testEnv, caller [20]byte, amount int64) {
	t.Helper()
	if err := env.engine.StakeOnInnovation(caller, big.NewInt(amount)); err != nil {
		t.Fatalf("stake on innovation: %v", err)
	}
}

func mustAccumulate(t *testing.T, env *testEnv, currency CurrencyID, amount int64) {
	t.Helper()
	if err := env.engine.AccumulateReward(currency, big.NewInt(amount)); err != nil {
		t.Fatalf("accumulate reward: %v", err)
	}
}

func TestInnovationStakeCreatesPool(t *testing.T) {
	env := newTestEnv(t)
	staker := addr(1)
	env.ledger.fund(staker, 1000)

	mustInnovationStake(t, env, staker, 100)

	pool, ok, _ := env.state.RewardPool()
	if !ok {
		t.Fatalf("pool should exist after first share")
	}
	if pool.TotalShares.Int64() != 100 {
		t.Fatalf("total shares = %s, want 100", pool.TotalShares)
	}
	record, ok, _ := env.state.ShareRecord(staker)
	if !ok || record.Share.Int64() != 100 {
		t.Fatalf("share record = %+v (ok=%v), want share 100", record, ok)
	}
	staked, _ := env.state.InnovationStake(staker)
	if staked.Int64() != 100 {
		t.Fatalf("innovation stake = %s, want 100", staked)
	}
}

func TestAccumulateRewardRequiresPool(t *testing.T) {
	env := newTestEnv(t)
	err := env.engine.AccumulateReward(NativeCurrency, big.NewInt(100))
	if !errors.Is(err, ErrRewardPoolDoesNotExist) {
		t.Fatalf("err = %v, want ErrRewardPoolDoesNotExist", err)
	}
}

func TestLateJoinerCannotDiluteEarlierReward(t *testing.T) {
	env := newTestEnv(t)
	alice := addr(1)
	bob := addr(2)
	env.ledger.fund(alice, 1000)
	env.ledger.fund(bob, 1000)
	env.ledger.fund(env.payout, 10000)

	mustInnovationStake(t, env, alice, 100)
	mustAccumulate(t, env, NativeCurrency, 1000)
	mustInnovationStake(t, env, bob, 100)

	// Bob's arrival inflates the pool so his baseline equals exactly the
	// reward accrued before he joined.
	pool, _, _ := env.state.RewardPool()
	entry := pool.Rewards[NativeCurrency]
	if entry.Total.Int64() != 2000 || entry.Withdrawn.Int64() != 1000 {
		t.Fatalf("pool entry = total %s withdrawn %s, want 2000/1000", entry.Total, entry.Withdrawn)
	}
	record, _, _ := env.state.ShareRecord(bob)
	if record.Withdrawn[NativeCurrency].Int64() != 1000 {
		t.Fatalf("bob baseline = %s, want 1000", record.Withdrawn[NativeCurrency])
	}

	if err := env.engine.ClaimReward(alice); err != nil {
		t.Fatalf("alice claim: %v", err)
	}
	free, _ := env.ledger.FreeBalance(alice)
	if free.Int64() != 900+1000 {
		t.Fatalf("alice free balance = %s, want 1900", free)
	}

	if err := env.engine.ClaimReward(bob); err != nil {
		t.Fatalf("bob claim: %v", err)
	}
	free, _ = env.ledger.FreeBalance(bob)
	if free.Int64() != 900 {
		t.Fatalf("bob free balance = %s, want 900 (nothing to claim)", free)
	}
}

func TestClaimRewardEmitsEvent(t *testing.T) {
	env := newTestEnv(t)
	staker := addr(1)
	env.ledger.fund(staker, 1000)
	env.ledger.fund(env.payout, 10000)

	mustInnovationStake(t, env, staker, 100)
	mustAccumulate(t, env, NativeCurrency, 500)

	if err := env.engine.ClaimReward(staker); err != nil {
		t.Fatalf("claim: %v", err)
	}
	evt, ok := env.emitted.lastOfType(EventTypeRewardsClaimed).(RewardsClaimed)
	if !ok {
		t.Fatalf("expected RewardsClaimed event")
	}
	if evt.Staker != staker || evt.Currency != NativeCurrency || evt.Amount.Int64() != 500 {
		t.Fatalf("unexpected event payload: %+v", evt)
	}
	// Nothing pending afterwards, and a second claim is a no-op.
	pending, _ := env.state.PendingRewards(staker)
	if len(pending) != 0 {
		t.Fatalf("pending rewards should be drained, got %v", pending)
	}
	before, _ := env.ledger.FreeBalance(staker)
	if err := env.engine.ClaimReward(staker); err != nil {
		t.Fatalf("second claim: %v", err)
	}
	after, _ := env.ledger.FreeBalance(staker)
	if before.Cmp(after) != 0 {
		t.Fatalf("second claim should pay nothing")
	}
}

func TestClaimRewardMultiCurrency(t *testing.T) {
	env := newTestEnv(t)
	staker := addr(1)
	env.ledger.fund(staker, 1000)
	env.ledger.fund(env.payout, 10000)
	env.ledger.fundToken("BIT", env.payout, 10000)

	mustInnovationStake(t, env, staker, 100)
	mustAccumulate(t, env, NativeCurrency, 500)
	mustAccumulate(t, env, "BIT", 300)

	if err := env.engine.ClaimReward(staker); err != nil {
		t.Fatalf("claim: %v", err)
	}
	free, _ := env.ledger.FreeBalance(staker)
	if free.Int64() != 1400 {
		t.Fatalf("native balance = %s, want 1400", free)
	}
	if got := env.ledger.tokens["BIT"][staker]; got == nil || got.Int64() != 300 {
		t.Fatalf("BIT balance = %v, want 300", got)
	}
}

func TestClaimRewardKeepsPendingOnTransferFailure(t *testing.T) {
	env := newTestEnv(t)
	staker := addr(1)
	env.ledger.fund(staker, 1000)
	// Payout account deliberately unfunded.

	mustInnovationStake(t, env, staker, 100)
	mustAccumulate(t, env, NativeCurrency, 500)

	if err := env.engine.ClaimReward(staker); err != nil {
		t.Fatalf("claim: %v", err)
	}
	pending, _ := env.state.PendingRewards(staker)
	if pending[NativeCurrency] == nil || pending[NativeCurrency].Int64() != 500 {
		t.Fatalf("pending = %v, want 500 retained", pending)
	}
	if env.emitted.lastOfType(EventTypeRewardsClaimed) != nil {
		t.Fatalf("no RewardsClaimed event for a failed payout")
	}

	// Funding the payout account later lets the retained amount drain.
	env.ledger.fund(env.payout, 10000)
	if err := env.engine.ClaimReward(staker); err != nil {
		t.Fatalf("retry claim: %v", err)
	}
	free, _ := env.ledger.FreeBalance(staker)
	if free.Int64() != 1400 {
		t.Fatalf("native balance = %s, want 1400", free)
	}
}

func TestUnstakeOnInnovationSettlesAndShrinksPool(t *testing.T) {
	env := newTestEnv(t)
	staker := addr(1)
	env.ledger.fund(staker, 1000)
	env.ledger.fund(env.payout, 10000)

	mustInnovationStake(t, env, staker, 100)
	mustAccumulate(t, env, NativeCurrency, 1000)

	if err := env.engine.UnstakeOnInnovation(staker, big.NewInt(100)); err != nil {
		t.Fatalf("unstake on innovation: %v", err)
	}
	// The exit ticket matures after the long delay.
	target := env.rounds.round + env.engine.params.InnovationExitDelayRounds
	queued, ok, _ := env.state.InnovationExitQueueEntry(staker, target)
	if !ok || queued.Int64() != 100 {
		t.Fatalf("innovation exit entry = %v (ok=%v), want 100", queued, ok)
	}
	// Shares left the pool entirely, so both records are gone.
	if _, ok, _ := env.state.RewardPool(); ok {
		t.Fatalf("empty pool should be deleted")
	}
	if _, ok, _ := env.state.ShareRecord(staker); ok {
		t.Fatalf("empty share record should be deleted")
	}
	// The settled entitlement survives as pending and remains claimable.
	pending, _ := env.state.PendingRewards(staker)
	if pending[NativeCurrency] == nil || pending[NativeCurrency].Int64() != 1000 {
		t.Fatalf("pending = %v, want 1000", pending)
	}
	if err := env.engine.ClaimReward(staker); err != nil {
		t.Fatalf("claim: %v", err)
	}
	free, _ := env.ledger.FreeBalance(staker)
	if free.Int64() != 1900 {
		t.Fatalf("free balance = %s, want 1900", free)
	}
}

func TestPartialInnovationUnstakeKeepsProportions(t *testing.T) {
	env := newTestEnv(t)
	alice := addr(1)
	bob := addr(2)
	env.ledger.fund(alice, 1000)
	env.ledger.fund(bob, 1000)
	env.ledger.fund(env.payout, 10000)

	mustInnovationStake(t, env, alice, 200)
	mustInnovationStake(t, env, bob, 200)
	mustAccumulate(t, env, NativeCurrency, 1000)

	// Alice drops half her position: her 500 entitlement settles first, then
	// shares and baselines shrink proportionally.
	if err := env.engine.UnstakeOnInnovation(alice, big.NewInt(100)); err != nil {
		t.Fatalf("unstake on innovation: %v", err)
	}
	pool, ok, _ := env.state.RewardPool()
	if !ok || pool.TotalShares.Int64() != 300 {
		t.Fatalf("total shares = %v (ok=%v), want 300", pool.TotalShares, ok)
	}
	record, ok, _ := env.state.ShareRecord(alice)
	if !ok || record.Share.Int64() != 100 {
		t.Fatalf("alice share = %+v (ok=%v), want 100", record, ok)
	}

	// Bob's half is untouched by Alice's exit.
	if err := env.engine.ClaimReward(bob); err != nil {
		t.Fatalf("bob claim: %v", err)
	}
	free, _ := env.ledger.FreeBalance(bob)
	if free.Int64() != 800+500 {
		t.Fatalf("bob free balance = %s, want 1300", free)
	}
}

func TestUnstakeOnInnovationDuplicateExit(t *testing.T) {
	env := newTestEnv(t)
	staker := addr(1)
	env.ledger.fund(staker, 1000)

	mustInnovationStake(t, env, staker, 400)
	if err := env.engine.UnstakeOnInnovation(staker, big.NewInt(100)); err != nil {
		t.Fatalf("unstake on innovation: %v", err)
	}
	// Both exits would mature at the same delayed round, so the second is
	// rejected before any share settlement happens.
	if err := env.engine.UnstakeOnInnovation(staker, big.NewInt(100)); !errors.Is(err, ErrExitQueueScheduled) {
		t.Fatalf("err = %v, want ErrExitQueueScheduled", err)
	}
	record, ok, _ := env.state.ShareRecord(staker)
	if !ok || record.Share.Int64() != 300 {
		t.Fatalf("share = %+v (ok=%v), want 300 untouched by the rejected exit", record, ok)
	}

	// Consuming the ticket frees the target round again.
	target := env.rounds.round + env.engine.params.InnovationExitDelayRounds
	if err := env.engine.WithdrawInnovationUnreserved(staker, target); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if err := env.engine.UnstakeOnInnovation(staker, big.NewInt(100)); err != nil {
		t.Fatalf("unstake after withdrawal: %v", err)
	}
}

func TestInnovationStakeBlockedWhileExitScheduled(t *testing.T) {
	env := newTestEnv(t)
	staker := addr(1)
	env.ledger.fund(staker, 1000)
	if err := env.state.SetInnovationExitQueueEntry(staker, env.rounds.round, big.NewInt(10)); err != nil {
		t.Fatalf("seed exit queue: %v", err)
	}

	err := env.engine.StakeOnInnovation(staker, big.NewInt(200))
	if !errors.Is(err, ErrExitQueueScheduled) {
		t.Fatalf("err = %v, want ErrExitQueueScheduled", err)
	}
}

// checkPoolInvariants asserts the two bookkeeping invariants the pool must
// hold at every point: the share records sum to the pool's total shares, and
// no currency ever has more attributed than issued.
func checkPoolInvariants(t *testing.T, env *testEnv) {
	t.Helper()
	pool, ok, err := env.state.RewardPool()
	if err != nil {
		t.Fatalf("reward pool: %v", err)
	}
	sum := big.NewInt(0)
	for _, record := range env.state.shares {
		sum = new(big.Int).Add(sum, record.Share)
	}
	if !ok {
		if sum.Sign() != 0 {
			t.Fatalf("share records sum to %s with no pool", sum)
		}
		return
	}
	if sum.Cmp(pool.TotalShares) != 0 {
		t.Fatalf("sum of shares = %s, pool total = %s", sum, pool.TotalShares)
	}
	for currency, entry := range pool.Rewards {
		if entry.Withdrawn.Cmp(entry.Total) > 0 {
			t.Fatalf("%s: withdrawn %s exceeds total %s", currency, entry.Withdrawn, entry.Total)
		}
	}
}

func TestPoolInvariantsAcrossOperationSequence(t *testing.T) {
	env := newTestEnv(t)
	alice := addr(1)
	bob := addr(2)
	carol := addr(3)
	env.ledger.fund(alice, 10000)
	env.ledger.fund(bob, 10000)
	env.ledger.fund(carol, 10000)
	env.ledger.fund(env.payout, 100000)
	env.ledger.fundToken("BIT", env.payout, 100000)

	mustInnovationStake(t, env, alice, 300)
	checkPoolInvariants(t, env)
	mustAccumulate(t, env, NativeCurrency, 997)
	checkPoolInvariants(t, env)
	mustInnovationStake(t, env, bob, 170)
	checkPoolInvariants(t, env)
	mustAccumulate(t, env, "BIT", 431)
	checkPoolInvariants(t, env)
	if err := env.engine.ClaimReward(alice); err != nil {
		t.Fatalf("alice claim: %v", err)
	}
	checkPoolInvariants(t, env)
	mustInnovationStake(t, env, carol, 260)
	checkPoolInvariants(t, env)
	mustAccumulate(t, env, NativeCurrency, 613)
	checkPoolInvariants(t, env)
	if err := env.engine.UnstakeOnInnovation(bob, big.NewInt(100)); err != nil {
		t.Fatalf("bob unstake: %v", err)
	}
	checkPoolInvariants(t, env)
	if err := env.engine.ClaimReward(carol); err != nil {
		t.Fatalf("carol claim: %v", err)
	}
	checkPoolInvariants(t, env)
	if err := env.engine.UnstakeOnInnovation(alice, big.NewInt(300)); err != nil {
		t.Fatalf("alice unstake: %v", err)
	}
	checkPoolInvariants(t, env)
	if err := env.engine.UnstakeOnInnovation(carol, big.NewInt(260)); err != nil {
		t.Fatalf("carol unstake: %v", err)
	}
	checkPoolInvariants(t, env)
}

func TestWithdrawInnovationUnreserved(t *testing.T) {
	env := newTestEnv(t)
	staker := addr(1)
	env.ledger.fund(staker, 1000)

	mustInnovationStake(t, env, staker, 300)
	if err := env.engine.UnstakeOnInnovation(staker, big.NewInt(300)); err != nil {
		t.Fatalf("unstake on innovation: %v", err)
	}
	matured := env.rounds.round + env.engine.params.InnovationExitDelayRounds
	env.rounds.round = matured

	if err := env.engine.WithdrawInnovationUnreserved(staker, matured); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	free, _ := env.ledger.FreeBalance(staker)
	if free.Int64() != 1000 {
		t.Fatalf("free balance = %s, want 1000", free)
	}
	if err := env.engine.WithdrawInnovationUnreserved(staker, matured); !errors.Is(err, ErrExitQueueMissing) {
		t.Fatalf("err = %v, want ErrExitQueueMissing", err)
	}
}
