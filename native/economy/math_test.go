package economy

import (
	"errors"
	"math/big"
	"testing"
)

func TestCheckedAddOverflow(t *testing.T) {
	if _, err := checkedAdd(maxBalance, big.NewInt(1)); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("err = %v, want ErrArithmeticOverflow", err)
	}
	sum, err := checkedAdd(maxBalance, big.NewInt(0))
	if err != nil {
		t.Fatalf("add at ceiling: %v", err)
	}
	if sum.Cmp(maxBalance) != 0 {
		t.Fatalf("sum = %s, want max balance", sum)
	}
}

func TestCheckedSubUnderflow(t *testing.T) {
	if _, err := checkedSub(big.NewInt(1), big.NewInt(2)); !errors.Is(err, ErrArithmeticUnderflow) {
		t.Fatalf("err = %v, want ErrArithmeticUnderflow", err)
	}
	diff, err := checkedSub(big.NewInt(2), big.NewInt(2))
	if err != nil {
		t.Fatalf("sub to zero: %v", err)
	}
	if diff.Sign() != 0 {
		t.Fatalf("diff = %s, want 0", diff)
	}
}

func TestSaturatingHelpersClamp(t *testing.T) {
	if got := saturatingAdd(maxBalance, big.NewInt(5)); got.Cmp(maxBalance) != 0 {
		t.Fatalf("saturatingAdd = %s, want max balance", got)
	}
	if got := saturatingSub(big.NewInt(3), big.NewInt(5)); got.Sign() != 0 {
		t.Fatalf("saturatingSub = %s, want 0", got)
	}
	if got := saturatingMulUint64(maxBalance, 2); got.Cmp(maxBalance) != 0 {
		t.Fatalf("saturatingMulUint64 = %s, want max balance", got)
	}
}

func TestMulDivFloors(t *testing.T) {
	// floor(7 * 3 / 2) = 10
	if got := mulDiv(big.NewInt(7), big.NewInt(3), big.NewInt(2)); got.Int64() != 10 {
		t.Fatalf("mulDiv = %s, want 10", got)
	}
	if got := mulDiv(big.NewInt(7), big.NewInt(3), big.NewInt(0)); got.Sign() != 0 {
		t.Fatalf("mulDiv with zero denominator = %s, want 0", got)
	}
}

func TestMulDivWideIntermediate(t *testing.T) {
	// The intermediate product exceeds 128 bits but the quotient narrows back.
	got := mulDiv(maxBalance, maxBalance, maxBalance)
	if got.Cmp(maxBalance) != 0 {
		t.Fatalf("mulDiv = %s, want max balance", got)
	}
}

func TestValidAmountBounds(t *testing.T) {
	if validAmount(nil) {
		t.Fatalf("nil amount must be invalid")
	}
	if validAmount(big.NewInt(-1)) {
		t.Fatalf("negative amount must be invalid")
	}
	if !validAmount(big.NewInt(0)) || !validAmount(maxBalance) {
		t.Fatalf("zero and max balance must be valid")
	}
	above := new(big.Int).Add(maxBalance, big.NewInt(1))
	if validAmount(above) {
		t.Fatalf("amount above ceiling must be invalid")
	}
}
