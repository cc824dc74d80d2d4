package state

import (
	"math/big"
	"testing"

	"landchain/native/economy"
	"landchain/storage"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	return NewManager(db)
}

func testAddr(b byte) [20]byte {
	var out [20]byte
	out[0] = b
	return out
}

func TestSelfStakeRoundTrip(t *testing.T) {
	mgr := newTestManager(t)
	staker := testAddr(1)

	amount, err := mgr.SelfStake(staker)
	if err != nil {
		t.Fatalf("self stake: %v", err)
	}
	if amount.Sign() != 0 {
		t.Fatalf("fresh self stake = %s, want 0", amount)
	}

	if err := mgr.SetSelfStake(staker, big.NewInt(250)); err != nil {
		t.Fatalf("set self stake: %v", err)
	}
	amount, err = mgr.SelfStake(staker)
	if err != nil {
		t.Fatalf("self stake: %v", err)
	}
	if amount.Int64() != 250 {
		t.Fatalf("self stake = %s, want 250", amount)
	}

	if err := mgr.RemoveSelfStake(staker); err != nil {
		t.Fatalf("remove self stake: %v", err)
	}
	amount, _ = mgr.SelfStake(staker)
	if amount.Sign() != 0 {
		t.Fatalf("removed self stake = %s, want 0", amount)
	}
}

func TestEstateBondRoundTrip(t *testing.T) {
	mgr := newTestManager(t)
	staker := testAddr(1)

	if _, ok, err := mgr.EstateBond(7); err != nil || ok {
		t.Fatalf("fresh bond: ok=%v err=%v, want absent", ok, err)
	}
	if err := mgr.SetEstateBond(7, &economy.Bond{Staker: staker, Amount: big.NewInt(300)}); err != nil {
		t.Fatalf("set bond: %v", err)
	}
	bond, ok, err := mgr.EstateBond(7)
	if err != nil || !ok {
		t.Fatalf("bond: ok=%v err=%v", ok, err)
	}
	if bond.Staker != staker || bond.Amount.Int64() != 300 {
		t.Fatalf("bond = %+v, want staker %x amount 300", bond, staker)
	}
	if err := mgr.RemoveEstateBond(7); err != nil {
		t.Fatalf("remove bond: %v", err)
	}
	if _, ok, _ := mgr.EstateBond(7); ok {
		t.Fatalf("bond should be gone")
	}
}

func TestExitQueueKeysAreDisjoint(t *testing.T) {
	mgr := newTestManager(t)
	staker := testAddr(1)

	if err := mgr.SetExitQueueEntry(staker, 10, big.NewInt(1)); err != nil {
		t.Fatalf("set exit entry: %v", err)
	}
	if err := mgr.SetEstateExitQueueEntry(staker, 10, 3, big.NewInt(2)); err != nil {
		t.Fatalf("set estate exit entry: %v", err)
	}
	if err := mgr.SetInnovationExitQueueEntry(staker, 10, big.NewInt(3)); err != nil {
		t.Fatalf("set innovation exit entry: %v", err)
	}

	self, ok, _ := mgr.ExitQueueEntry(staker, 10)
	if !ok || self.Int64() != 1 {
		t.Fatalf("self exit entry = %v (ok=%v), want 1", self, ok)
	}
	estate, ok, _ := mgr.EstateExitQueueEntry(staker, 10, 3)
	if !ok || estate.Int64() != 2 {
		t.Fatalf("estate exit entry = %v (ok=%v), want 2", estate, ok)
	}
	innovation, ok, _ := mgr.InnovationExitQueueEntry(staker, 10)
	if !ok || innovation.Int64() != 3 {
		t.Fatalf("innovation exit entry = %v (ok=%v), want 3", innovation, ok)
	}

	// Neighbouring rounds and estates stay empty.
	if _, ok, _ := mgr.ExitQueueEntry(staker, 11); ok {
		t.Fatalf("round 11 should be empty")
	}
	if _, ok, _ := mgr.EstateExitQueueEntry(staker, 10, 4); ok {
		t.Fatalf("estate 4 should be empty")
	}
}

func TestRewardPoolRoundTrip(t *testing.T) {
	mgr := newTestManager(t)

	if _, ok, err := mgr.RewardPool(); err != nil || ok {
		t.Fatalf("fresh pool: ok=%v err=%v, want absent", ok, err)
	}

	pool := economy.NewRewardPoolInfo()
	pool.TotalShares = big.NewInt(400)
	pool.Rewards["BIT"] = &economy.RewardEntry{Total: big.NewInt(300), Withdrawn: big.NewInt(100)}
	pool.Rewards[economy.NativeCurrency] = &economy.RewardEntry{Total: big.NewInt(1000), Withdrawn: big.NewInt(0)}
	if err := mgr.SetRewardPool(pool); err != nil {
		t.Fatalf("set pool: %v", err)
	}

	loaded, ok, err := mgr.RewardPool()
	if err != nil || !ok {
		t.Fatalf("pool: ok=%v err=%v", ok, err)
	}
	if loaded.TotalShares.Int64() != 400 {
		t.Fatalf("total shares = %s, want 400", loaded.TotalShares)
	}
	if len(loaded.Rewards) != 2 {
		t.Fatalf("currencies = %d, want 2", len(loaded.Rewards))
	}
	entry := loaded.Rewards["BIT"]
	if entry.Total.Int64() != 300 || entry.Withdrawn.Int64() != 100 {
		t.Fatalf("BIT entry = %+v, want 300/100", entry)
	}

	if err := mgr.RemoveRewardPool(); err != nil {
		t.Fatalf("remove pool: %v", err)
	}
	if _, ok, _ := mgr.RewardPool(); ok {
		t.Fatalf("pool should be gone")
	}
}

func TestShareRecordRoundTrip(t *testing.T) {
	mgr := newTestManager(t)
	staker := testAddr(1)

	record := economy.NewShareRecord()
	record.Share = big.NewInt(150)
	record.Withdrawn[economy.NativeCurrency] = big.NewInt(75)
	if err := mgr.SetShareRecord(staker, record); err != nil {
		t.Fatalf("set record: %v", err)
	}

	loaded, ok, err := mgr.ShareRecord(staker)
	if err != nil || !ok {
		t.Fatalf("record: ok=%v err=%v", ok, err)
	}
	if loaded.Share.Int64() != 150 {
		t.Fatalf("share = %s, want 150", loaded.Share)
	}
	if loaded.Withdrawn[economy.NativeCurrency].Int64() != 75 {
		t.Fatalf("baseline = %s, want 75", loaded.Withdrawn[economy.NativeCurrency])
	}
}

func TestPendingRewardsRoundTrip(t *testing.T) {
	mgr := newTestManager(t)
	staker := testAddr(1)

	pending, err := mgr.PendingRewards(staker)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("fresh pending = %v, want empty", pending)
	}

	if err := mgr.SetPendingRewards(staker, map[economy.CurrencyID]*big.Int{
		economy.NativeCurrency: big.NewInt(500),
		"BIT":                  big.NewInt(20),
	}); err != nil {
		t.Fatalf("set pending: %v", err)
	}
	pending, err = mgr.PendingRewards(staker)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if pending[economy.NativeCurrency].Int64() != 500 || pending["BIT"].Int64() != 20 {
		t.Fatalf("pending = %v, want 500 LAND and 20 BIT", pending)
	}

	// An empty map removes the record.
	if err := mgr.SetPendingRewards(staker, nil); err != nil {
		t.Fatalf("clear pending: %v", err)
	}
	pending, _ = mgr.PendingRewards(staker)
	if len(pending) != 0 {
		t.Fatalf("pending = %v, want empty", pending)
	}
}

func TestEraStateDefaultsAndRoundTrip(t *testing.T) {
	mgr := newTestManager(t)

	era, err := mgr.EraState()
	if err != nil {
		t.Fatalf("era state: %v", err)
	}
	if era.CurrentEra != 0 || era.EraFrequency != 0 || era.EstimatedRewardPerEra.Sign() != 0 {
		t.Fatalf("fresh era state = %+v, want zeroed", era)
	}

	if err := mgr.SetEraState(&economy.EraState{
		CurrentEra:            3,
		LastEraUpdatedBlock:   42,
		EraFrequency:          10,
		EstimatedRewardPerEra: big.NewInt(50),
	}); err != nil {
		t.Fatalf("set era state: %v", err)
	}
	era, err = mgr.EraState()
	if err != nil {
		t.Fatalf("era state: %v", err)
	}
	if era.CurrentEra != 3 || era.LastEraUpdatedBlock != 42 || era.EraFrequency != 10 || era.EstimatedRewardPerEra.Int64() != 50 {
		t.Fatalf("era state = %+v", era)
	}
}
