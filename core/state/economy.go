package state

import (
	"math/big"
	"sort"

	"landchain/native/economy"
)

// Stored forms for the economy module. Map-shaped records are flattened into
// currency-sorted slices so the encoding is deterministic across processes.

type storedBond struct {
	Staker [20]byte
	Amount *big.Int
}

type storedRewardEntry struct {
	Currency  string
	Total     *big.Int
	Withdrawn *big.Int
}

type storedRewardPool struct {
	TotalShares *big.Int
	Rewards     []storedRewardEntry
}

type storedCurrencyAmount struct {
	Currency string
	Amount   *big.Int
}

type storedShareRecord struct {
	Share     *big.Int
	Withdrawn []storedCurrencyAmount
}

type storedEraState struct {
	CurrentEra            uint64
	LastEraUpdatedBlock   uint64
	EraFrequency          uint64
	EstimatedRewardPerEra *big.Int
}

func nonNil(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}

func (m *Manager) getAmount(key []byte) (*big.Int, error) {
	amount := new(big.Int)
	ok, err := m.getRLP(key, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return amount, nil
}

func (m *Manager) getOptionalAmount(key []byte) (*big.Int, bool, error) {
	amount := new(big.Int)
	ok, err := m.getRLP(key, amount)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return amount, true, nil
}

// SelfStake returns addr's bonded self-stake, zero when absent.
func (m *Manager) SelfStake(addr [20]byte) (*big.Int, error) {
	return m.getAmount(selfStakeKey(addr))
}

// SetSelfStake persists addr's bonded self-stake.
func (m *Manager) SetSelfStake(addr [20]byte, amount *big.Int) error {
	return m.putRLP(selfStakeKey(addr), nonNil(amount))
}

// RemoveSelfStake deletes addr's self-stake record.
func (m *Manager) RemoveSelfStake(addr [20]byte) error {
	return m.deleteKey(selfStakeKey(addr))
}

// TotalStake returns the aggregate self-stake across all stakers.
func (m *Manager) TotalStake() (*big.Int, error) {
	return m.getAmount(totalStakeKey)
}

// SetTotalStake persists the aggregate self-stake.
func (m *Manager) SetTotalStake(total *big.Int) error {
	return m.putRLP(totalStakeKey, nonNil(total))
}

// EstateBond returns the active bond on an estate, reporting absence
// explicitly because an estate carries at most one staker at a time.
func (m *Manager) EstateBond(estateID uint64) (*economy.Bond, bool, error) {
	stored := new(storedBond)
	ok, err := m.getRLP(estateBondKey(estateID), stored)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return &economy.Bond{Staker: stored.Staker, Amount: nonNil(stored.Amount)}, true, nil
}

// SetEstateBond persists the active bond on an estate.
func (m *Manager) SetEstateBond(estateID uint64, bond *economy.Bond) error {
	if bond == nil {
		return m.deleteKey(estateBondKey(estateID))
	}
	return m.putRLP(estateBondKey(estateID), &storedBond{Staker: bond.Staker, Amount: nonNil(bond.Amount)})
}

// RemoveEstateBond deletes the bond record for an estate.
func (m *Manager) RemoveEstateBond(estateID uint64) error {
	return m.deleteKey(estateBondKey(estateID))
}

// TotalEstateStake returns the aggregate estate stake.
func (m *Manager) TotalEstateStake() (*big.Int, error) {
	return m.getAmount(totalEstateStakeKey)
}

// SetTotalEstateStake persists the aggregate estate stake.
func (m *Manager) SetTotalEstateStake(total *big.Int) error {
	return m.putRLP(totalEstateStakeKey, nonNil(total))
}

// InnovationStake returns addr's innovation-program stake, zero when absent.
func (m *Manager) InnovationStake(addr [20]byte) (*big.Int, error) {
	return m.getAmount(innovationStakeKey(addr))
}

// SetInnovationStake persists addr's innovation-program stake.
func (m *Manager) SetInnovationStake(addr [20]byte, amount *big.Int) error {
	return m.putRLP(innovationStakeKey(addr), nonNil(amount))
}

// RemoveInnovationStake deletes addr's innovation-stake record.
func (m *Manager) RemoveInnovationStake(addr [20]byte) error {
	return m.deleteKey(innovationStakeKey(addr))
}

// TotalInnovationStake returns the aggregate innovation stake.
func (m *Manager) TotalInnovationStake() (*big.Int, error) {
	return m.getAmount(totalInnovationStakeKey)
}

// SetTotalInnovationStake persists the aggregate innovation stake.
func (m *Manager) SetTotalInnovationStake(total *big.Int) error {
	return m.putRLP(totalInnovationStakeKey, nonNil(total))
}

// ExitQueueEntry returns the amount queued for withdrawal by addr at round.
// Presence matters: a scheduled entry blocks further unstaking in the same
// round even when the amount is small.
func (m *Manager) ExitQueueEntry(addr [20]byte, round uint64) (*big.Int, bool, error) {
	return m.getOptionalAmount(exitQueueKey(addr, round))
}

// SetExitQueueEntry schedules amount for withdrawal by addr at round.
func (m *Manager) SetExitQueueEntry(addr [20]byte, round uint64, amount *big.Int) error {
	return m.putRLP(exitQueueKey(addr, round), nonNil(amount))
}

// RemoveExitQueueEntry consumes the withdrawal ticket for addr at round.
func (m *Manager) RemoveExitQueueEntry(addr [20]byte, round uint64) error {
	return m.deleteKey(exitQueueKey(addr, round))
}

// EstateExitQueueEntry returns the amount queued for withdrawal from an
// estate bond by addr at round.
func (m *Manager) EstateExitQueueEntry(addr [20]byte, round uint64, estateID uint64) (*big.Int, bool, error) {
	return m.getOptionalAmount(estateExitQueueKey(addr, round, estateID))
}

// SetEstateExitQueueEntry schedules an estate-bond withdrawal.
func (m *Manager) SetEstateExitQueueEntry(addr [20]byte, round uint64, estateID uint64, amount *big.Int) error {
	return m.putRLP(estateExitQueueKey(addr, round, estateID), nonNil(amount))
}

// RemoveEstateExitQueueEntry consumes an estate-bond withdrawal ticket.
func (m *Manager) RemoveEstateExitQueueEntry(addr [20]byte, round uint64, estateID uint64) error {
	return m.deleteKey(estateExitQueueKey(addr, round, estateID))
}

// InnovationExitQueueEntry returns the amount queued for withdrawal from the
// innovation program by addr at round.
func (m *Manager) InnovationExitQueueEntry(addr [20]byte, round uint64) (*big.Int, bool, error) {
	return m.getOptionalAmount(innovationExitQueueKey(addr, round))
}

// SetInnovationExitQueueEntry schedules an innovation-stake withdrawal.
func (m *Manager) SetInnovationExitQueueEntry(addr [20]byte, round uint64, amount *big.Int) error {
	return m.putRLP(innovationExitQueueKey(addr, round), nonNil(amount))
}

// RemoveInnovationExitQueueEntry consumes an innovation withdrawal ticket.
func (m *Manager) RemoveInnovationExitQueueEntry(addr [20]byte, round uint64) error {
	return m.deleteKey(innovationExitQueueKey(addr, round))
}

// ShareRecord returns addr's reward-pool share record.
func (m *Manager) ShareRecord(addr [20]byte) (*economy.ShareRecord, bool, error) {
	stored := new(storedShareRecord)
	ok, err := m.getRLP(shareRecordKey(addr), stored)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	record := economy.NewShareRecord()
	record.Share = nonNil(stored.Share)
	for _, entry := range stored.Withdrawn {
		record.Withdrawn[economy.CurrencyID(entry.Currency)] = nonNil(entry.Amount)
	}
	return record, true, nil
}

// SetShareRecord persists addr's reward-pool share record.
func (m *Manager) SetShareRecord(addr [20]byte, record *economy.ShareRecord) error {
	if record == nil {
		return m.deleteKey(shareRecordKey(addr))
	}
	stored := &storedShareRecord{Share: nonNil(record.Share)}
	for _, currency := range record.Currencies() {
		stored.Withdrawn = append(stored.Withdrawn, storedCurrencyAmount{
			Currency: string(currency),
			Amount:   nonNil(record.Withdrawn[currency]),
		})
	}
	return m.putRLP(shareRecordKey(addr), stored)
}

// RemoveShareRecord deletes addr's share record.
func (m *Manager) RemoveShareRecord(addr [20]byte) error {
	return m.deleteKey(shareRecordKey(addr))
}

// RewardPool returns the share-weighted reward pool. Absence is meaningful:
// rewards cannot be accumulated before the first share is added.
func (m *Manager) RewardPool() (*economy.RewardPoolInfo, bool, error) {
	stored := new(storedRewardPool)
	ok, err := m.getRLP(rewardPoolKey, stored)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	pool := economy.NewRewardPoolInfo()
	pool.TotalShares = nonNil(stored.TotalShares)
	for _, entry := range stored.Rewards {
		pool.Rewards[economy.CurrencyID(entry.Currency)] = &economy.RewardEntry{
			Total:     nonNil(entry.Total),
			Withdrawn: nonNil(entry.Withdrawn),
		}
	}
	return pool, true, nil
}

// SetRewardPool persists the reward pool.
func (m *Manager) SetRewardPool(pool *economy.RewardPoolInfo) error {
	if pool == nil {
		return m.deleteKey(rewardPoolKey)
	}
	stored := &storedRewardPool{TotalShares: nonNil(pool.TotalShares)}
	for _, currency := range pool.Currencies() {
		entry := pool.Rewards[currency]
		stored.Rewards = append(stored.Rewards, storedRewardEntry{
			Currency:  string(currency),
			Total:     nonNil(entry.Total),
			Withdrawn: nonNil(entry.Withdrawn),
		})
	}
	return m.putRLP(rewardPoolKey, stored)
}

// RemoveRewardPool deletes the reward pool record.
func (m *Manager) RemoveRewardPool() error {
	return m.deleteKey(rewardPoolKey)
}

// PendingRewards returns the claimed-but-unpaid rewards queued for addr.
func (m *Manager) PendingRewards(addr [20]byte) (map[economy.CurrencyID]*big.Int, error) {
	var stored []storedCurrencyAmount
	ok, err := m.getRLP(pendingRewardsKey(addr), &stored)
	if err != nil {
		return nil, err
	}
	pending := make(map[economy.CurrencyID]*big.Int, len(stored))
	if !ok {
		return pending, nil
	}
	for _, entry := range stored {
		pending[economy.CurrencyID(entry.Currency)] = nonNil(entry.Amount)
	}
	return pending, nil
}

// SetPendingRewards persists the pending-reward queue for addr. An empty map
// deletes the record.
func (m *Manager) SetPendingRewards(addr [20]byte, rewards map[economy.CurrencyID]*big.Int) error {
	if len(rewards) == 0 {
		return m.deleteKey(pendingRewardsKey(addr))
	}
	stored := make([]storedCurrencyAmount, 0, len(rewards))
	for currency, amount := range rewards {
		stored = append(stored, storedCurrencyAmount{Currency: string(currency), Amount: nonNil(amount)})
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].Currency < stored[j].Currency })
	return m.putRLP(pendingRewardsKey(addr), stored)
}

// RemovePendingRewards deletes the pending-reward queue for addr.
func (m *Manager) RemovePendingRewards(addr [20]byte) error {
	return m.deleteKey(pendingRewardsKey(addr))
}

// EraState returns the era clock bookkeeping, zero-valued when the module has
// never been configured.
func (m *Manager) EraState() (*economy.EraState, error) {
	stored := new(storedEraState)
	ok, err := m.getRLP(eraStateKey, stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &economy.EraState{EstimatedRewardPerEra: big.NewInt(0)}, nil
	}
	return &economy.EraState{
		CurrentEra:            stored.CurrentEra,
		LastEraUpdatedBlock:   stored.LastEraUpdatedBlock,
		EraFrequency:          stored.EraFrequency,
		EstimatedRewardPerEra: nonNil(stored.EstimatedRewardPerEra),
	}, nil
}

// SetEraState persists the era clock bookkeeping.
func (m *Manager) SetEraState(state *economy.EraState) error {
	if state == nil {
		return m.deleteKey(eraStateKey)
	}
	return m.putRLP(eraStateKey, &storedEraState{
		CurrentEra:            state.CurrentEra,
		LastEraUpdatedBlock:   state.LastEraUpdatedBlock,
		EraFrequency:          state.EraFrequency,
		EstimatedRewardPerEra: nonNil(state.EstimatedRewardPerEra),
	})
}
