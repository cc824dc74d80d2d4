package state

import (
	"errors"
	"math/big"

	"landchain/core/types"
	"landchain/native/economy"
)

var (
	// ErrInvalidAmount rejects nil or negative amounts at the ledger boundary.
	ErrInvalidAmount = errors.New("state ledger: amount must be non-negative")
	// ErrInsufficientBalance indicates a reserve or transfer exceeding the
	// available balance.
	ErrInsufficientBalance = errors.New("state ledger: insufficient balance")
)

// Ledger adapts the account store to the staking module's asset-ledger
// surface: free/reserved native balances plus multi-currency transfer. The
// native currency lives on the account record; other denominations live under
// per-token balance keys.
type Ledger struct {
	mgr *Manager
}

// NewLedger constructs a ledger over the provided state manager.
func NewLedger(mgr *Manager) *Ledger {
	return &Ledger{mgr: mgr}
}

type storedAccount struct {
	Nonce    uint64
	Balance  *big.Int
	Reserved *big.Int
}

// GetAccount loads the account record for addr, returning a zeroed account
// when none exists yet.
func (l *Ledger) GetAccount(addr [20]byte) (*types.Account, error) {
	stored := new(storedAccount)
	ok, err := l.mgr.getRLP(accountKey(addr), stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.NewAccount(), nil
	}
	account := &types.Account{Nonce: stored.Nonce, Balance: stored.Balance, Reserved: stored.Reserved}
	account.Normalize()
	return account, nil
}

// PutAccount persists the account record for addr.
func (l *Ledger) PutAccount(addr [20]byte, account *types.Account) error {
	if account == nil {
		account = types.NewAccount()
	}
	account.Normalize()
	return l.mgr.putRLP(accountKey(addr), &storedAccount{
		Nonce:    account.Nonce,
		Balance:  account.Balance,
		Reserved: account.Reserved,
	})
}

// FreeBalance returns the transferable native balance of addr.
func (l *Ledger) FreeBalance(addr [20]byte) (*big.Int, error) {
	account, err := l.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	return account.Balance, nil
}

// ReservedBalance returns the locked native balance of addr.
func (l *Ledger) ReservedBalance(addr [20]byte) (*big.Int, error) {
	account, err := l.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	return account.Reserved, nil
}

// Reserve moves amount from the free balance into the reserved balance,
// failing when the free balance is insufficient.
func (l *Ledger) Reserve(addr [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	account, err := l.GetAccount(addr)
	if err != nil {
		return err
	}
	if account.Balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	account.Balance = new(big.Int).Sub(account.Balance, amount)
	account.Reserved = new(big.Int).Add(account.Reserved, amount)
	return l.PutAccount(addr, account)
}

// Unreserve moves up to amount from the reserved balance back to the free
// balance. Releasing more than is reserved is clamped rather than rejected.
func (l *Ledger) Unreserve(addr [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	account, err := l.GetAccount(addr)
	if err != nil {
		return err
	}
	release := new(big.Int).Set(amount)
	if release.Cmp(account.Reserved) > 0 {
		release.Set(account.Reserved)
	}
	account.Reserved = new(big.Int).Sub(account.Reserved, release)
	account.Balance = new(big.Int).Add(account.Balance, release)
	return l.PutAccount(addr, account)
}

// TokenBalance returns addr's balance in a non-native denomination.
func (l *Ledger) TokenBalance(symbol string, addr [20]byte) (*big.Int, error) {
	balance := new(big.Int)
	ok, err := l.mgr.getRLP(tokenBalanceKey(symbol, addr), balance)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return balance, nil
}

// SetTokenBalance persists addr's balance in a non-native denomination. A zero
// balance deletes the entry.
func (l *Ledger) SetTokenBalance(symbol string, addr [20]byte, balance *big.Int) error {
	if balance == nil || balance.Sign() < 0 {
		return ErrInvalidAmount
	}
	if balance.Sign() == 0 {
		return l.mgr.deleteKey(tokenBalanceKey(symbol, addr))
	}
	return l.mgr.putRLP(tokenBalanceKey(symbol, addr), balance)
}

// Transfer moves amount of the given currency between accounts, failing when
// the source balance is insufficient.
func (l *Ledger) Transfer(currency economy.CurrencyID, from, to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	if currency == economy.NativeCurrency {
		source, err := l.GetAccount(from)
		if err != nil {
			return err
		}
		if source.Balance.Cmp(amount) < 0 {
			return ErrInsufficientBalance
		}
		dest, err := l.GetAccount(to)
		if err != nil {
			return err
		}
		source.Balance = new(big.Int).Sub(source.Balance, amount)
		dest.Balance = new(big.Int).Add(dest.Balance, amount)
		if err := l.PutAccount(from, source); err != nil {
			return err
		}
		return l.PutAccount(to, dest)
	}
	symbol := string(currency)
	source, err := l.TokenBalance(symbol, from)
	if err != nil {
		return err
	}
	if source.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	dest, err := l.TokenBalance(symbol, to)
	if err != nil {
		return err
	}
	if err := l.SetTokenBalance(symbol, from, new(big.Int).Sub(source, amount)); err != nil {
		return err
	}
	return l.SetTokenBalance(symbol, to, new(big.Int).Add(dest, amount))
}

// Mint credits amount of the given currency to addr. It exists for genesis
// initialisation and for funding the reward holding account in tests.
func (l *Ledger) Mint(currency economy.CurrencyID, addr [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if currency == economy.NativeCurrency {
		account, err := l.GetAccount(addr)
		if err != nil {
			return err
		}
		account.Balance = new(big.Int).Add(account.Balance, amount)
		return l.PutAccount(addr, account)
	}
	symbol := string(currency)
	balance, err := l.TokenBalance(symbol, addr)
	if err != nil {
		return err
	}
	return l.SetTokenBalance(symbol, addr, new(big.Int).Add(balance, amount))
}
