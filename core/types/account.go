package types

import "math/big"

// Account is the native-balance record for a landchain address. Balance is the
// freely transferable amount; Reserved is locked by the staking module and only
// released through the exit queue (or a privileged unreserve).
type Account struct {
	Nonce    uint64   `json:"nonce"`
	Balance  *big.Int `json:"balance"`
	Reserved *big.Int `json:"reserved"`
}

// NewAccount returns an account with zeroed balances.
func NewAccount() *Account {
	return &Account{Balance: big.NewInt(0), Reserved: big.NewInt(0)}
}

// Normalize replaces nil balance fields with zero so callers can mutate the
// account without nil checks.
func (a *Account) Normalize() {
	if a.Balance == nil {
		a.Balance = big.NewInt(0)
	}
	if a.Reserved == nil {
		a.Reserved = big.NewInt(0)
	}
}
