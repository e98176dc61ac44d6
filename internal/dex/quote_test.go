package dex

import (
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

func TestImpliedCounterpartAmountExactRatio(t *testing.T) {
	// 1 HELI (18 decimals) against reserves of 1 HELI : 2000 USDC (6 decimals)
	reserveHeli := pow10(18)
	reserveUSDC := new(big.Int).Mul(big.NewInt(2000), pow10(6))

	got, err := ImpliedCounterpartAmount("1", 18, reserveHeli, reserveUSDC, 6)
	require.NoError(t, err)
	assert.Equal(t, "2000.000000", got)

	// and back again
	got, err = ImpliedCounterpartAmount("2000", 6, reserveUSDC, reserveHeli, 18)
	require.NoError(t, err)
	assert.Equal(t, "1.000000000000000000", got)
}

func TestImpliedCounterpartAmountRoundsDown(t *testing.T) {
	got, err := ImpliedCounterpartAmount("1", 0, big.NewInt(3), big.NewInt(200), 2)
	require.NoError(t, err)
	assert.Equal(t, "0.66", got)
}

func TestImpliedCounterpartAmountLargeValues(t *testing.T) {
	// amounts well beyond 2^53 in smallest units
	reserveFixed := new(big.Int).Mul(big.NewInt(123456789), pow10(18))
	reserveOther := new(big.Int).Mul(big.NewInt(987654321), pow10(18))
	got, err := ImpliedCounterpartAmount("123456789", 18, reserveFixed, reserveOther, 18)
	require.NoError(t, err)
	assert.Equal(t, "987654321.000000000000000000", got)
}

func TestImpliedCounterpartAmountErrors(t *testing.T) {
	_, err := ImpliedCounterpartAmount("1", 18, big.NewInt(0), big.NewInt(5), 6)
	assert.ErrorIs(t, err, ErrEmptyPool)

	_, err = ImpliedCounterpartAmount("1", 18, nil, big.NewInt(5), 6)
	assert.ErrorIs(t, err, ErrEmptyPool)

	_, err = ImpliedCounterpartAmount("abc", 18, big.NewInt(1), big.NewInt(5), 6)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ImpliedCounterpartAmount("-1", 18, big.NewInt(1), big.NewInt(5), 6)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestApplySlippageMinimum(t *testing.T) {
	got, err := ApplySlippage("100", 18, decimal.RequireFromString("0.5"), true)
	require.NoError(t, err)
	want := new(big.Int).Mul(big.NewInt(995), pow10(17))
	assert.Equal(t, want.String(), got.String())
}

func TestApplySlippageMaximum(t *testing.T) {
	got, err := ApplySlippage("100", 6, decimal.RequireFromString("0.5"), false)
	require.NoError(t, err)
	assert.Equal(t, "100500000", got.String())
}

func TestApplySlippageTruncates(t *testing.T) {
	got, err := ApplySlippage("1", 0, decimal.RequireFromString("33.3333"), true)
	require.NoError(t, err)
	assert.Equal(t, "0", got.String())

	got, err = ApplySlippage("1", 0, decimal.RequireFromString("99"), false)
	require.NoError(t, err)
	assert.Equal(t, "1", got.String())
}

func TestValidateSlippage(t *testing.T) {
	assert.NoError(t, ValidateSlippage(decimal.Zero))
	assert.NoError(t, ValidateSlippage(decimal.NewFromInt(100)))
	assert.ErrorIs(t, ValidateSlippage(decimal.NewFromInt(-1)), ErrInvalidSlippage)
	assert.ErrorIs(t, ValidateSlippage(decimal.RequireFromString("100.01")), ErrInvalidSlippage)
}

func TestDeadline(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.Equal(t, int64(1700001200), Deadline(now, 20))
}

func TestFormatAndParseUnits(t *testing.T) {
	assert.Equal(t, "1.234500", FormatUnits(big.NewInt(1234500), 6))
	assert.Equal(t, "0.00", FormatUnits(nil, 2))

	got, err := ParseUnits("1.2345678", 6)
	require.NoError(t, err)
	assert.Equal(t, "1234567", got.String())
}
