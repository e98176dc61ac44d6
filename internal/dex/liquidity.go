package dex

import (
	"math/big"

	"github.com/shopspring/decimal"

	"farmScope/internal/model"
)

// LiquidityQuote is everything an add-liquidity call needs besides
// signatures: desired amounts, slippage floors and the deadline.
type LiquidityQuote struct {
	Fixed        model.TokenRef
	Other        model.TokenRef
	FixedAmount  string
	OtherAmount  string
	FixedDesired *big.Int
	OtherDesired *big.Int
	FixedMin     *big.Int
	OtherMin     *big.Int
	Slippage     decimal.Decimal
	Deadline     int64
}

// BuildLiquidityQuote derives the counterpart amount from the pool ratio and
// applies slippage to both sides.
func BuildLiquidityQuote(fixed, other model.TokenRef, amount string, reserveFixed, reserveOther *big.Int, slippage decimal.Decimal, deadline int64) (LiquidityQuote, error) {
	if err := ValidateSlippage(slippage); err != nil {
		return LiquidityQuote{}, err
	}

	otherAmount, err := ImpliedCounterpartAmount(amount, fixed.Decimals, reserveFixed, reserveOther, other.Decimals)
	if err != nil {
		return LiquidityQuote{}, err
	}

	q := LiquidityQuote{
		Fixed:       fixed,
		Other:       other,
		FixedAmount: amount,
		OtherAmount: otherAmount,
		Slippage:    slippage,
		Deadline:    deadline,
	}
	if q.FixedDesired, err = ParseUnits(amount, fixed.Decimals); err != nil {
		return LiquidityQuote{}, err
	}
	if q.OtherDesired, err = ParseUnits(otherAmount, other.Decimals); err != nil {
		return LiquidityQuote{}, err
	}
	if q.FixedMin, err = ApplySlippage(amount, fixed.Decimals, slippage, true); err != nil {
		return LiquidityQuote{}, err
	}
	if q.OtherMin, err = ApplySlippage(otherAmount, other.Decimals, slippage, true); err != nil {
		return LiquidityQuote{}, err
	}
	return q, nil
}
