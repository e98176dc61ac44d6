package dex

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyPool       = errors.New("empty pool")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidSlippage = errors.New("slippage out of range")
	ErrTokenNotInPair  = errors.New("token not in pair")
)

var hundred = decimal.NewFromInt(100)

// ImpliedCounterpartAmount returns how much of the other token must accompany
// fixedAmount of the fixed token to keep the pool ratio:
// floor(fixedAmount * 10^fixedDecimals * reserveOther / reserveFixed),
// formatted with exactly otherDecimals fractional digits.
func ImpliedCounterpartAmount(fixedAmount string, fixedDecimals uint8, reserveFixed, reserveOther *big.Int, otherDecimals uint8) (string, error) {
	if reserveFixed == nil || reserveFixed.Sign() == 0 {
		return "", ErrEmptyPool
	}
	if reserveFixed.Sign() < 0 || reserveOther == nil || reserveOther.Sign() < 0 {
		return "", fmt.Errorf("%w: negative reserve", ErrInvalidAmount)
	}
	amount, err := parseAmount(fixedAmount)
	if err != nil {
		return "", err
	}

	scaled := amount.Shift(int32(fixedDecimals)).BigInt()
	raw := new(big.Int).Mul(scaled, reserveOther)
	raw.Quo(raw, reserveFixed)

	return decimal.NewFromBigInt(raw, -int32(otherDecimals)).StringFixed(int32(otherDecimals)), nil
}

// ApplySlippage scales amount to smallest units and moves it by
// slippagePercent: down for a minimum, up for a maximum. The result is
// truncated. Callers validate the percentage with ValidateSlippage.
func ApplySlippage(amount string, decimals uint8, slippagePercent decimal.Decimal, isMinimum bool) (*big.Int, error) {
	value, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}
	scaled := value.Shift(int32(decimals))
	delta := scaled.Mul(slippagePercent).Shift(-2)
	if isMinimum {
		scaled = scaled.Sub(delta)
	} else {
		scaled = scaled.Add(delta)
	}
	return scaled.Truncate(0).BigInt(), nil
}

// ValidateSlippage checks that pct lies in [0,100].
func ValidateSlippage(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return fmt.Errorf("%w: %s", ErrInvalidSlippage, pct.String())
	}
	return nil
}

// Deadline returns the unix timestamp minutes after now.
func Deadline(now time.Time, minutes int64) int64 {
	return now.Add(time.Duration(minutes) * time.Minute).Unix()
}

// FormatUnits renders a smallest-unit amount with decimals fractional digits.
func FormatUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return decimal.Zero.StringFixed(int32(decimals))
	}
	return decimal.NewFromBigInt(value, -int32(decimals)).StringFixed(int32(decimals))
}

// ParseUnits converts a human amount into smallest units, truncating digits
// beyond decimals.
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	value, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}
	return value.Shift(int32(decimals)).BigInt(), nil
}

func parseAmount(input string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative %q", ErrInvalidAmount, input)
	}
	return value, nil
}
