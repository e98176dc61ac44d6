package dex

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

type fakeCaller struct {
	t       *testing.T
	parsed  abi.ABI
	outputs map[string][]interface{}
	fail    map[common.Address]error
	calls   int
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls++
	if err, ok := f.fail[*msg.To]; ok {
		return nil, err
	}
	for name, values := range f.outputs {
		method := f.parsed.Methods[name]
		if bytes.Equal(msg.Data[:4], method.ID) {
			out, err := method.Outputs.Pack(values...)
			if err != nil {
				f.t.Fatalf("pack %s: %v", name, err)
			}
			return out, nil
		}
	}
	return nil, errors.New("execution reverted")
}

func newPairCaller(t *testing.T, outputs map[string][]interface{}) *fakeCaller {
	parsed, err := PairABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	return &fakeCaller{t: t, parsed: parsed, outputs: outputs}
}

func TestContractReaderReserves(t *testing.T) {
	token0 := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	token1 := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	pair := common.HexToAddress("0x1111111111111111111111111111111111111111")

	caller := newPairCaller(t, map[string][]interface{}{
		"getReserves": {big.NewInt(1000), big.NewInt(2000), uint32(1700000000)},
		"token0":      {token0},
		"token1":      {token1},
	})
	reader := NewContractReader(caller, zap.NewNop())

	reserves, err := reader.GetReserves(context.Background(), pair)
	if err != nil {
		t.Fatalf("get reserves: %v", err)
	}
	if reserves.Reserve0.Int64() != 1000 || reserves.Reserve1.Int64() != 2000 || reserves.BlockTimestampLast != 1700000000 {
		t.Fatalf("reserves mismatch: %+v", reserves)
	}

	got1, err := reader.Token1(context.Background(), pair)
	if err != nil {
		t.Fatalf("token1: %v", err)
	}
	if got1 != token1 {
		t.Fatalf("token1 mismatch: %s", got1.Hex())
	}

	fixed, other, err := reader.OrientedReserves(context.Background(), pair, token1)
	if err != nil {
		t.Fatalf("oriented reserves: %v", err)
	}
	if fixed.Int64() != 2000 || other.Int64() != 1000 {
		t.Fatalf("orientation mismatch: %s %s", fixed, other)
	}

	fixed, other, err = reader.OrientedReserves(context.Background(), pair, token0)
	if err != nil {
		t.Fatalf("oriented reserves: %v", err)
	}
	if fixed.Int64() != 1000 || other.Int64() != 2000 {
		t.Fatalf("orientation mismatch: %s %s", fixed, other)
	}

	stranger := common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")
	if _, _, err := reader.OrientedReserves(context.Background(), pair, stranger); !errors.Is(err, ErrTokenNotInPair) {
		t.Fatalf("expected ErrTokenNotInPair, got %v", err)
	}
}

func TestContractReaderBalances(t *testing.T) {
	owner := common.HexToAddress("0x2222222222222222222222222222222222222222")
	lp := common.HexToAddress("0x1111111111111111111111111111111111111111")
	brokenFarm := common.HexToAddress("0x9999999999999999999999999999999999999999")

	caller := newPairCaller(t, map[string][]interface{}{
		"balanceOf": {big.NewInt(42)},
	})
	caller.fail = map[common.Address]error{brokenFarm: errors.New("contract not found")}
	reader := NewContractReader(caller, nil)

	bal, err := reader.BalanceOf(context.Background(), lp, owner)
	if err != nil {
		t.Fatalf("balanceOf: %v", err)
	}
	if bal.Int64() != 42 {
		t.Fatalf("balance mismatch: %s", bal)
	}

	staked, err := reader.FarmReader().BalanceOf(context.Background(), lp, owner)
	if err != nil {
		t.Fatalf("staked balance: %v", err)
	}
	if staked.Int64() != 42 {
		t.Fatalf("staked mismatch: %s", staked)
	}

	if _, err := reader.FarmReader().BalanceOf(context.Background(), brokenFarm, owner); err == nil {
		t.Fatalf("expected error for broken farm")
	}
}

func TestContractReaderTokenMetaCached(t *testing.T) {
	parsed, err := TokenABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	caller := &fakeCaller{t: t, parsed: parsed, outputs: map[string][]interface{}{
		"decimals": {uint8(6)},
		"symbol":   {"USDC"},
		"name":     {"USD Coin"},
	}}
	reader := NewContractReader(caller, zap.NewNop())
	token := common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")

	meta, err := reader.TokenMeta(context.Background(), token)
	if err != nil {
		t.Fatalf("token meta: %v", err)
	}
	if meta.Decimals != 6 || meta.Symbol != "USDC" || meta.Name != "USD Coin" {
		t.Fatalf("meta mismatch: %+v", meta)
	}

	calls := caller.calls
	if _, err := reader.TokenMeta(context.Background(), token); err != nil {
		t.Fatalf("token meta: %v", err)
	}
	if caller.calls != calls {
		t.Fatalf("expected cached metadata, calls %d -> %d", calls, caller.calls)
	}
}
