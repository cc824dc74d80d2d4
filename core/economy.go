package core

import (
	"errors"
	"log/slog"
	"math/big"

	"landchain/core/events"
	"landchain/core/state"
	nativecommon "landchain/native/common"
	"landchain/native/economy"
	"landchain/storage"
)

var errNoDatabase = errors.New("economy service: database not configured")

// Economy runs staking operations against persistent state. Every operation
// executes on a write overlay over the backing database and commits only when
// the engine reports success, so a failing operation leaves no partial writes
// behind.
type Economy struct {
	db            storage.Database
	estates       economy.EstateAuthority
	rounds        economy.RoundSource
	blocks        economy.BlockSource
	emitter       events.Emitter
	params        economy.Params
	payoutAccount [20]byte
	pauses        nativecommon.PauseView
	logger        *slog.Logger
}

// NewEconomy constructs the staking service over db with default parameters.
func NewEconomy(db storage.Database) *Economy {
	return &Economy{
		db:     db,
		params: economy.DefaultParams(),
		logger: slog.Default(),
	}
}

// SetEstates wires the estate registry collaborator.
func (s *Economy) SetEstates(estates economy.EstateAuthority) { s.estates = estates }

// SetRounds wires the round clock collaborator.
func (s *Economy) SetRounds(rounds economy.RoundSource) { s.rounds = rounds }

// SetBlocks wires the block number source.
func (s *Economy) SetBlocks(blocks economy.BlockSource) { s.blocks = blocks }

// SetEmitter configures the event emitter shared by all operations.
func (s *Economy) SetEmitter(emitter events.Emitter) { s.emitter = emitter }

// SetParams replaces the staking parameters after validation.
func (s *Economy) SetParams(params economy.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	s.params = params
	return nil
}

// SetRewardPayoutAccount configures the account rewards are paid from.
func (s *Economy) SetRewardPayoutAccount(addr [20]byte) { s.payoutAccount = addr }

// SetPauses wires the module pause switchboard.
func (s *Economy) SetPauses(pauses nativecommon.PauseView) { s.pauses = pauses }

// SetLogger configures the structured logger. Passing nil resets to the
// process default.
func (s *Economy) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	s.logger = logger
}

// withEngine stages an overlay over the database, binds a fully wired engine
// to it and commits the overlay only when fn succeeds.
func (s *Economy) withEngine(fn func(*economy.Engine) error) error {
	if s.db == nil {
		return errNoDatabase
	}
	overlay := storage.NewOverlay(s.db)
	manager := state.NewManager(overlay)
	engine := economy.NewEngine()
	engine.SetState(manager)
	engine.SetLedger(state.NewLedger(manager))
	estates := s.estates
	if estates == nil {
		estates = state.NewEstateRegistry(manager)
	}
	engine.SetEstates(estates)
	engine.SetRounds(s.rounds)
	engine.SetBlocks(s.blocks)
	engine.SetEmitter(s.emitter)
	engine.SetRewardPayoutAccount(s.payoutAccount)
	engine.SetPauses(s.pauses)
	engine.SetLogger(s.logger)
	if err := engine.SetParams(s.params); err != nil {
		return err
	}
	if err := fn(engine); err != nil {
		return err
	}
	return overlay.Commit()
}

// Stake bonds amount for caller, either as self-stake or on the estate named
// by estateID.
func (s *Economy) Stake(caller [20]byte, amount *big.Int, estateID *uint64) error {
	return s.withEngine(func(engine *economy.Engine) error {
		return engine.Stake(caller, amount, estateID)
	})
}

// StakeOnInnovation bonds amount for caller in the innovation program.
func (s *Economy) StakeOnInnovation(caller [20]byte, amount *big.Int) error {
	return s.withEngine(func(engine *economy.Engine) error {
		return engine.StakeOnInnovation(caller, amount)
	})
}

// Unstake schedules amount of caller's stake for withdrawal next round.
func (s *Economy) Unstake(caller [20]byte, amount *big.Int, estateID *uint64) error {
	return s.withEngine(func(engine *economy.Engine) error {
		return engine.Unstake(caller, amount, estateID)
	})
}

// UnstakeOnInnovation schedules amount of caller's innovation stake for
// withdrawal after the innovation exit delay.
func (s *Economy) UnstakeOnInnovation(caller [20]byte, amount *big.Int) error {
	return s.withEngine(func(engine *economy.Engine) error {
		return engine.UnstakeOnInnovation(caller, amount)
	})
}

// UnstakeNewEstateOwner lets the current owner of an estate evict the bond
// left behind by the previous owner.
func (s *Economy) UnstakeNewEstateOwner(caller [20]byte, estateID uint64) error {
	return s.withEngine(func(engine *economy.Engine) error {
		return engine.UnstakeNewEstateOwner(caller, estateID)
	})
}

// WithdrawUnreserved pays out a matured self-stake exit ticket.
func (s *Economy) WithdrawUnreserved(caller [20]byte, round uint64) error {
	return s.withEngine(func(engine *economy.Engine) error {
		return engine.WithdrawUnreserved(caller, round)
	})
}

// WithdrawEstateUnreserved pays out a matured estate exit ticket.
func (s *Economy) WithdrawEstateUnreserved(caller [20]byte, round uint64, estateID uint64) error {
	return s.withEngine(func(engine *economy.Engine) error {
		return engine.WithdrawEstateUnreserved(caller, round, estateID)
	})
}

// WithdrawInnovationUnreserved pays out a matured innovation exit ticket.
func (s *Economy) WithdrawInnovationUnreserved(caller [20]byte, round uint64) error {
	return s.withEngine(func(engine *economy.Engine) error {
		return engine.WithdrawInnovationUnreserved(caller, round)
	})
}

// ForceUnstake removes amount of target's stake immediately, bypassing the
// exit queue. Governance-only.
func (s *Economy) ForceUnstake(target [20]byte, amount *big.Int, estateID *uint64) error {
	return s.withEngine(func(engine *economy.Engine) error {
		return engine.ForceUnstake(target, amount, estateID)
	})
}

// ForceUnreservedStaking releases amount of target's reserved balance without
// touching stake bookkeeping. Governance-only repair hook.
func (s *Economy) ForceUnreservedStaking(target [20]byte, amount *big.Int) error {
	return s.withEngine(func(engine *economy.Engine) error {
		return engine.ForceUnreservedStaking(target, amount)
	})
}

// ClaimReward pays out caller's accrued share of the reward pool.
func (s *Economy) ClaimReward(caller [20]byte) error {
	return s.withEngine(func(engine *economy.Engine) error {
		return engine.ClaimReward(caller)
	})
}

// AccumulateReward adds amount of currency to the reward pool.
func (s *Economy) AccumulateReward(currency economy.CurrencyID, amount *big.Int) error {
	return s.withEngine(func(engine *economy.Engine) error {
		return engine.AccumulateReward(currency, amount)
	})
}

// UpdateEraConfig adjusts the era clock configuration. Nil fields are left
// unchanged.
func (s *Economy) UpdateEraConfig(lastEraUpdatedBlock, frequency *uint64, estimatedRewardPerEra *big.Int) error {
	return s.withEngine(func(engine *economy.Engine) error {
		return engine.UpdateEraConfig(lastEraUpdatedBlock, frequency, estimatedRewardPerEra)
	})
}

// OnBlockInitialize advances the era clock at the start of each block.
func (s *Economy) OnBlockInitialize() error {
	return s.withEngine(func(engine *economy.Engine) error {
		engine.OnBlockInitialize()
		return nil
	})
}

// Ledger exposes read access to balances outside a transition, for queries
// and genesis funding.
func (s *Economy) Ledger() *state.Ledger {
	return state.NewLedger(state.NewManager(s.db))
}

// State exposes read access to staking records outside a transition.
func (s *Economy) State() *state.Manager {
	return state.NewManager(s.db)
}

// Estates exposes the state-backed estate registry for genesis seeding and
// ownership transfers.
func (s *Economy) Estates() *state.EstateRegistry {
	return state.NewEstateRegistry(state.NewManager(s.db))
}
