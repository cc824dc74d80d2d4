package economy

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Balances are 128-bit unsigned quantities carried as *big.Int. Checked
// helpers reject results outside [0, maxBalance]; saturating helpers clamp,
// matching the pool's internal bookkeeping which may never abort mid-update.
var maxBalance = mustBigInt("340282366920938463463374607431768211455") // 2^128 - 1

func mustBigInt(value string) *big.Int {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		panic("invalid big integer constant")
	}
	return v
}

func copyBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func validAmount(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.Cmp(maxBalance) <= 0
}

func checkedAdd(a, b *big.Int) (*big.Int, error) {
	sum := new(big.Int).Add(copyBigInt(a), copyBigInt(b))
	if sum.Cmp(maxBalance) > 0 {
		return nil, ErrArithmeticOverflow
	}
	return sum, nil
}

func checkedSub(a, b *big.Int) (*big.Int, error) {
	diff := new(big.Int).Sub(copyBigInt(a), copyBigInt(b))
	if diff.Sign() < 0 {
		return nil, ErrArithmeticUnderflow
	}
	return diff, nil
}

func saturatingAdd(a, b *big.Int) *big.Int {
	sum := new(big.Int).Add(copyBigInt(a), copyBigInt(b))
	if sum.Cmp(maxBalance) > 0 {
		return new(big.Int).Set(maxBalance)
	}
	return sum
}

func saturatingSub(a, b *big.Int) *big.Int {
	diff := new(big.Int).Sub(copyBigInt(a), copyBigInt(b))
	if diff.Sign() < 0 {
		return big.NewInt(0)
	}
	return diff
}

func saturatingMulUint64(a *big.Int, b uint64) *big.Int {
	product := new(big.Int).Mul(copyBigInt(a), new(big.Int).SetUint64(b))
	if product.Cmp(maxBalance) > 0 {
		return new(big.Int).Set(maxBalance)
	}
	return product
}

// mulDiv computes floor(a*b/den) in 256-bit width. The product of two 128-bit
// balances always fits, so the division is exact integer floor division. A zero
// denominator yields zero, and the narrowed result saturates at the balance
// ceiling.
func mulDiv(a, b, den *big.Int) *big.Int {
	if a == nil || b == nil || den == nil || den.Sign() == 0 {
		return big.NewInt(0)
	}
	x, overflow := uint256.FromBig(copyBigInt(a))
	if overflow {
		x = new(uint256.Int).SetAllOne()
	}
	y, overflow := uint256.FromBig(copyBigInt(b))
	if overflow {
		y = new(uint256.Int).SetAllOne()
	}
	d, overflow := uint256.FromBig(copyBigInt(den))
	if overflow {
		d = new(uint256.Int).SetAllOne()
	}
	quotient := new(uint256.Int).Mul(x, y)
	quotient.Div(quotient, d)
	result := quotient.ToBig()
	if result.Cmp(maxBalance) > 0 {
		return new(big.Int).Set(maxBalance)
	}
	return result
}

func minBigInt(a, b *big.Int) *big.Int {
	if copyBigInt(a).Cmp(copyBigInt(b)) <= 0 {
		return copyBigInt(a)
	}
	return copyBigInt(b)
}
