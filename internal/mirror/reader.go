package mirror

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"farmScope/internal/address"
)

// BalanceReader adapts the REST client to address-keyed balance reads for
// token-service tokens.
type BalanceReader struct {
	client *Client
}

func NewBalanceReader(client *Client) *BalanceReader {
	return &BalanceReader{client: client}
}

func (r *BalanceReader) BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	tokenID, account, err := nativeIDs(token, owner)
	if err != nil {
		return nil, err
	}
	return r.client.TokenBalance(ctx, account, tokenID)
}

// Allowance returns how much spender may move of owner's token.
func (r *BalanceReader) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	tokenID, account, err := nativeIDs(token, owner)
	if err != nil {
		return nil, err
	}
	spenderID, err := accountID(spender)
	if err != nil {
		return nil, err
	}
	return r.client.TokenAllowance(ctx, account, spenderID, tokenID)
}

func nativeIDs(token, owner common.Address) (string, string, error) {
	tokenID, err := address.ToNativeID(token.Hex())
	if err != nil {
		return "", "", fmt.Errorf("token %s: %w", token.Hex(), err)
	}
	account, err := accountID(owner)
	if err != nil {
		return "", "", err
	}
	return tokenID, account, nil
}

// accountID prefers the numeric identifier; the query service accepts the
// hex address for accounts that only have an alias.
func accountID(a common.Address) (string, error) {
	if address.IsTokenServiceAddress(a.Hex()) {
		id, err := address.ToNativeID(a.Hex())
		if err != nil {
			return "", fmt.Errorf("account %s: %w", a.Hex(), err)
		}
		return id, nil
	}
	return a.Hex(), nil
}
