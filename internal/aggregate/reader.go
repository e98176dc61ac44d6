package aggregate

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"farmScope/internal/address"
)

// ErrBalanceQueryFailed marks a balance read that was degraded to zero.
var ErrBalanceQueryFailed = errors.New("balance query failed")

// BalanceReader reads the balance owner holds of token. For farms the token
// argument is the farm contract.
type BalanceReader interface {
	BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error)
}

// RoutingReader sends token-service tokens to the ledger query service and
// everything else to contract calls.
type RoutingReader struct {
	Contract     BalanceReader
	TokenService BalanceReader
}

func (r RoutingReader) BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	if r.TokenService != nil && address.IsTokenServiceAddress(token.Hex()) {
		return r.TokenService.BalanceOf(ctx, token, owner)
	}
	if r.Contract == nil {
		return nil, fmt.Errorf("no contract reader for %s", token.Hex())
	}
	return r.Contract.BalanceOf(ctx, token, owner)
}
