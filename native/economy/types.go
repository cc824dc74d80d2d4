package economy

import (
	"math/big"
	"sort"
)

// CurrencyID identifies a fungible reward denomination by symbol.
type CurrencyID string

// NativeCurrency is the denomination era accrual is paid in.
const NativeCurrency CurrencyID = "LAND"

// Bond records the single active staker of an estate together with the bonded
// amount.
type Bond struct {
	Staker [20]byte
	Amount *big.Int
}

// Clone produces a deep copy of the bond to protect internal references.
func (b *Bond) Clone() *Bond {
	if b == nil {
		return nil
	}
	return &Bond{Staker: b.Staker, Amount: copyBigInt(b.Amount)}
}

// RewardEntry tracks, per reward currency, the total reward issued to the pool
// and the portion already attributed to depositors.
type RewardEntry struct {
	Total     *big.Int
	Withdrawn *big.Int
}

// RewardPoolInfo is the share-weighted reward pool: the total share supply and
// the per-currency reward ledgers. The record is deleted outright once the
// share supply returns to zero; its presence is the "pool exists" check.
type RewardPoolInfo struct {
	TotalShares *big.Int
	Rewards     map[CurrencyID]*RewardEntry
}

// NewRewardPoolInfo returns an empty pool.
func NewRewardPoolInfo() *RewardPoolInfo {
	return &RewardPoolInfo{TotalShares: big.NewInt(0), Rewards: make(map[CurrencyID]*RewardEntry)}
}

// Clone produces a deep copy of the pool info.
func (p *RewardPoolInfo) Clone() *RewardPoolInfo {
	if p == nil {
		return nil
	}
	clone := &RewardPoolInfo{
		TotalShares: copyBigInt(p.TotalShares),
		Rewards:     make(map[CurrencyID]*RewardEntry, len(p.Rewards)),
	}
	for currency, entry := range p.Rewards {
		clone.Rewards[currency] = &RewardEntry{Total: copyBigInt(entry.Total), Withdrawn: copyBigInt(entry.Withdrawn)}
	}
	return clone
}

// Currencies returns the pool's reward currencies in deterministic order.
func (p *RewardPoolInfo) Currencies() []CurrencyID {
	return sortedCurrencies(len(p.Rewards), func(out *[]CurrencyID) {
		for currency := range p.Rewards {
			*out = append(*out, currency)
		}
	})
}

// ShareRecord captures one depositor's share of the pool and the per-currency
// withdrawn-reward baselines that keep already-attributed rewards from being
// paid twice.
type ShareRecord struct {
	Share     *big.Int
	Withdrawn map[CurrencyID]*big.Int
}

// NewShareRecord returns an empty share record.
func NewShareRecord() *ShareRecord {
	return &ShareRecord{Share: big.NewInt(0), Withdrawn: make(map[CurrencyID]*big.Int)}
}

// Clone produces a deep copy of the share record.
func (r *ShareRecord) Clone() *ShareRecord {
	if r == nil {
		return nil
	}
	clone := &ShareRecord{Share: copyBigInt(r.Share), Withdrawn: make(map[CurrencyID]*big.Int, len(r.Withdrawn))}
	for currency, amount := range r.Withdrawn {
		clone.Withdrawn[currency] = copyBigInt(amount)
	}
	return clone
}

// Currencies returns the record's baseline currencies in deterministic order.
func (r *ShareRecord) Currencies() []CurrencyID {
	return sortedCurrencies(len(r.Withdrawn), func(out *[]CurrencyID) {
		for currency := range r.Withdrawn {
			*out = append(*out, currency)
		}
	})
}

// EraState carries the era clock bookkeeping: the monotonic era counter, the
// block the clock last advanced at, the configured era length in blocks and the
// reward issued per elapsed era.
type EraState struct {
	CurrentEra            uint64
	LastEraUpdatedBlock   uint64
	EraFrequency          uint64
	EstimatedRewardPerEra *big.Int
}

// Clone produces a deep copy of the era state.
func (s *EraState) Clone() *EraState {
	if s == nil {
		return &EraState{EstimatedRewardPerEra: big.NewInt(0)}
	}
	return &EraState{
		CurrentEra:            s.CurrentEra,
		LastEraUpdatedBlock:   s.LastEraUpdatedBlock,
		EraFrequency:          s.EraFrequency,
		EstimatedRewardPerEra: copyBigInt(s.EstimatedRewardPerEra),
	}
}

func sortedCurrencies(capacity int, collect func(*[]CurrencyID)) []CurrencyID {
	out := make([]CurrencyID, 0, capacity)
	collect(&out)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedPendingCurrencies(pending map[CurrencyID]*big.Int) []CurrencyID {
	return sortedCurrencies(len(pending), func(out *[]CurrencyID) {
		for currency := range pending {
			*out = append(*out, currency)
		}
	})
}
