package core

import (
	"sync"

	"landchain/core/state"
	"landchain/storage"
)

// Clock tracks the chain height and derives the staking round from it. The
// height is persisted so the era bookkeeping survives restarts.
type Clock struct {
	mu             sync.RWMutex
	height         uint64
	blocksPerRound uint64
	db             storage.Database
}

// NewClock loads the persisted height from db. blocksPerRound of zero pins
// the round index to zero.
func NewClock(db storage.Database, blocksPerRound uint64) (*Clock, error) {
	height, err := state.NewManager(db).ChainHeight()
	if err != nil {
		return nil, err
	}
	return &Clock{height: height, blocksPerRound: blocksPerRound, db: db}, nil
}

// Advance moves the clock to the next block and persists the new height.
func (c *Clock) Advance() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.height + 1
	if err := state.NewManager(c.db).SetChainHeight(next); err != nil {
		return c.height, err
	}
	c.height = next
	return next, nil
}

// CurrentBlockNumber returns the current chain height.
func (c *Clock) CurrentBlockNumber() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.height
}

// CurrentRound returns the round index derived from the chain height.
func (c *Clock) CurrentRound() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.blocksPerRound == 0 {
		return 0
	}
	return c.height / c.blocksPerRound
}
