package economy

import (
	"math/big"
	"strconv"

	"landchain/core/types"
	"landchain/crypto"
)

const (
	EventTypeSelfStaked                   = "economy.selfStaked"
	EventTypeEstateStaked                 = "economy.estateStaked"
	EventTypeSelfStakingRemoved           = "economy.selfStakingRemoved"
	EventTypeEstateStakingRemoved         = "economy.estateStakingRemoved"
	EventTypeUnstakedAmountWithdrawn      = "economy.unstakedAmountWithdrawn"
	EventTypeInnovationStaked             = "economy.innovationStaked"
	EventTypeInnovationUnstaked           = "economy.innovationUnstaked"
	EventTypeRewardsClaimed               = "economy.rewardsClaimed"
	EventTypeEraUpdated                   = "economy.eraUpdated"
	EventTypeEraFrequencyUpdated          = "economy.eraFrequencyUpdated"
	EventTypeLastEraUpdatedBlockUpdated   = "economy.lastEraUpdatedBlockUpdated"
	EventTypeEstimatedRewardPerEraUpdated = "economy.estimatedRewardPerEraUpdated"
)

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func formatAddress(addr [20]byte) string {
	return crypto.MustNewAddress(crypto.LandPrefix, addr[:]).String()
}

// SelfStaked is emitted when native tokens are locked as self-stake.
type SelfStaked struct {
	Staker [20]byte
	Amount *big.Int
}

func (SelfStaked) EventType() string { return EventTypeSelfStaked }

func (e SelfStaked) Event() *types.Event {
	return &types.Event{
		Type: EventTypeSelfStaked,
		Attributes: map[string]string{
			"staker": formatAddress(e.Staker),
			"amount": formatAmount(e.Amount),
		},
	}
}

// EstateStaked is emitted when native tokens are bonded to an estate.
type EstateStaked struct {
	Staker   [20]byte
	EstateID uint64
	Amount   *big.Int
}

func (EstateStaked) EventType() string { return EventTypeEstateStaked }

func (e EstateStaked) Event() *types.Event {
	return &types.Event{
		Type: EventTypeEstateStaked,
		Attributes: map[string]string{
			"staker": formatAddress(e.Staker),
			"estate": strconv.FormatUint(e.EstateID, 10),
			"amount": formatAmount(e.Amount),
		},
	}
}

// SelfStakingRemoved is emitted when self-stake is scheduled for exit.
type SelfStakingRemoved struct {
	Staker [20]byte
	Amount *big.Int
}

func (SelfStakingRemoved) EventType() string { return EventTypeSelfStakingRemoved }

func (e SelfStakingRemoved) Event() *types.Event {
	return &types.Event{
		Type: EventTypeSelfStakingRemoved,
		Attributes: map[string]string{
			"staker": formatAddress(e.Staker),
			"amount": formatAmount(e.Amount),
		},
	}
}

// EstateStakingRemoved is emitted when an estate bond is reduced or cleared.
// Staker is always the bond's staker; Caller is set when the operation was
// triggered by a different party (the new-owner transition).
type EstateStakingRemoved struct {
	Staker   [20]byte
	Caller   *[20]byte
	EstateID uint64
	Amount   *big.Int
}

func (EstateStakingRemoved) EventType() string { return EventTypeEstateStakingRemoved }

func (e EstateStakingRemoved) Event() *types.Event {
	attrs := map[string]string{
		"staker": formatAddress(e.Staker),
		"estate": strconv.FormatUint(e.EstateID, 10),
		"amount": formatAmount(e.Amount),
	}
	if e.Caller != nil {
		attrs["caller"] = formatAddress(*e.Caller)
	}
	return &types.Event{Type: EventTypeEstateStakingRemoved, Attributes: attrs}
}

// UnstakedAmountWithdrawn is emitted when an exit ticket is consumed and the
// amount unreserved.
type UnstakedAmountWithdrawn struct {
	Staker [20]byte
	Amount *big.Int
}

func (UnstakedAmountWithdrawn) EventType() string { return EventTypeUnstakedAmountWithdrawn }

func (e UnstakedAmountWithdrawn) Event() *types.Event {
	return &types.Event{
		Type: EventTypeUnstakedAmountWithdrawn,
		Attributes: map[string]string{
			"staker": formatAddress(e.Staker),
			"amount": formatAmount(e.Amount),
		},
	}
}

// InnovationStaked is emitted when tokens enter the pooled reward program.
type InnovationStaked struct {
	Staker [20]byte
	Amount *big.Int
}

func (InnovationStaked) EventType() string { return EventTypeInnovationStaked }

func (e InnovationStaked) Event() *types.Event {
	return &types.Event{
		Type: EventTypeInnovationStaked,
		Attributes: map[string]string{
			"staker": formatAddress(e.Staker),
			"amount": formatAmount(e.Amount),
		},
	}
}

// InnovationUnstaked is emitted when innovation stake is scheduled for exit.
type InnovationUnstaked struct {
	Staker [20]byte
	Amount *big.Int
}

func (InnovationUnstaked) EventType() string { return EventTypeInnovationUnstaked }

func (e InnovationUnstaked) Event() *types.Event {
	return &types.Event{
		Type: EventTypeInnovationUnstaked,
		Attributes: map[string]string{
			"staker": formatAddress(e.Staker),
			"amount": formatAmount(e.Amount),
		},
	}
}

// RewardsClaimed is emitted once per currency successfully paid out.
type RewardsClaimed struct {
	Staker   [20]byte
	Currency CurrencyID
	Amount   *big.Int
}

func (RewardsClaimed) EventType() string { return EventTypeRewardsClaimed }

func (e RewardsClaimed) Event() *types.Event {
	return &types.Event{
		Type: EventTypeRewardsClaimed,
		Attributes: map[string]string{
			"staker":   formatAddress(e.Staker),
			"currency": string(e.Currency),
			"amount":   formatAmount(e.Amount),
		},
	}
}

// EraUpdated is emitted when the era clock advances.
type EraUpdated struct {
	Era uint64
}

func (EraUpdated) EventType() string { return EventTypeEraUpdated }

func (e EraUpdated) Event() *types.Event {
	return &types.Event{
		Type:       EventTypeEraUpdated,
		Attributes: map[string]string{"era": strconv.FormatUint(e.Era, 10)},
	}
}

// EraFrequencyUpdated is emitted when governance changes the era length.
type EraFrequencyUpdated struct {
	Frequency uint64
}

func (EraFrequencyUpdated) EventType() string { return EventTypeEraFrequencyUpdated }

func (e EraFrequencyUpdated) Event() *types.Event {
	return &types.Event{
		Type:       EventTypeEraFrequencyUpdated,
		Attributes: map[string]string{"frequency": strconv.FormatUint(e.Frequency, 10)},
	}
}

// LastEraUpdatedBlockUpdated is emitted when governance rebases the era clock.
type LastEraUpdatedBlockUpdated struct {
	Block uint64
}

func (LastEraUpdatedBlockUpdated) EventType() string { return EventTypeLastEraUpdatedBlockUpdated }

func (e LastEraUpdatedBlockUpdated) Event() *types.Event {
	return &types.Event{
		Type:       EventTypeLastEraUpdatedBlockUpdated,
		Attributes: map[string]string{"block": strconv.FormatUint(e.Block, 10)},
	}
}

// EstimatedRewardPerEraUpdated is emitted when governance changes the per-era
// reward budget.
type EstimatedRewardPerEraUpdated struct {
	Amount *big.Int
}

func (EstimatedRewardPerEraUpdated) EventType() string { return EventTypeEstimatedRewardPerEraUpdated }

func (e EstimatedRewardPerEraUpdated) Event() *types.Event {
	return &types.Event{
		Type:       EventTypeEstimatedRewardPerEraUpdated,
		Attributes: map[string]string{"amount": formatAmount(e.Amount)},
	}
}
