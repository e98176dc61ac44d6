package dex

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// percentPlaces is the precision claimdrop percentages are shown with.
const percentPlaces = 2

// ClaimedPercent returns claimed/total as a percentage truncated to two
// places and clamped to [0,100].
func ClaimedPercent(claimed, total *big.Int) (decimal.Decimal, error) {
	if total == nil || total.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: total allocation must be positive", ErrInvalidAmount)
	}
	if claimed == nil || claimed.Sign() <= 0 {
		return decimal.Zero, nil
	}
	return clampPercent(truncatedPercent(claimed, total)), nil
}

// VestedPercent returns the linearly vested share of an allocation at now.
func VestedPercent(start, end, now time.Time) decimal.Decimal {
	if !now.After(start) {
		return decimal.Zero
	}
	if !now.Before(end) || !end.After(start) {
		return hundred
	}
	elapsed := big.NewInt(int64(now.Sub(start)))
	duration := big.NewInt(int64(end.Sub(start)))
	return clampPercent(truncatedPercent(elapsed, duration))
}

// ClaimableAmount returns floor(total * vestedPercent / 100) - claimed, never
// below zero.
func ClaimableAmount(total, claimed *big.Int, vestedPercent decimal.Decimal) *big.Int {
	if total == nil || total.Sign() <= 0 {
		return new(big.Int)
	}
	vested := decimal.NewFromBigInt(total, 0).Mul(clampPercent(vestedPercent)).Shift(-2).Truncate(0).BigInt()
	if claimed != nil {
		vested.Sub(vested, claimed)
	}
	if vested.Sign() < 0 {
		return new(big.Int)
	}
	return vested
}

// truncatedPercent returns floor(part * 100 * 10^percentPlaces / whole)
// scaled back by percentPlaces, so the result never rounds up.
func truncatedPercent(part, whole *big.Int) decimal.Decimal {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(percentPlaces+2), nil)
	q := new(big.Int).Mul(part, scale)
	q.Quo(q, whole)
	return decimal.NewFromBigInt(q, -percentPlaces)
}

func clampPercent(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
