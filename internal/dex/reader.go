package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"farmScope/internal/model"
)

// Caller is the eth_call surface used for contract reads.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Reserves is the decoded getReserves() result of a pair.
type Reserves struct {
	Reserve0           *big.Int
	Reserve1           *big.Int
	BlockTimestampLast uint32
}

// TokenMetaCache caches token metadata by address.
type TokenMetaCache struct {
	mu   sync.RWMutex
	data map[common.Address]model.TokenRef
}

func NewTokenMetaCache() *TokenMetaCache {
	return &TokenMetaCache{data: make(map[common.Address]model.TokenRef)}
}

func (c *TokenMetaCache) Get(address common.Address) (model.TokenRef, bool) {
	c.mu.RLock()
	meta, ok := c.data[address]
	c.mu.RUnlock()
	return meta, ok
}

func (c *TokenMetaCache) Set(address common.Address, meta model.TokenRef) {
	c.mu.Lock()
	c.data[address] = meta
	c.mu.Unlock()
}

// ContractReader issues read-only calls against pair, farm and token contracts.
type ContractReader struct {
	caller Caller
	tokens *TokenMetaCache
	logger *zap.Logger
}

func NewContractReader(caller Caller, logger *zap.Logger) *ContractReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractReader{
		caller: caller,
		tokens: NewTokenMetaCache(),
		logger: logger,
	}
}

// BalanceOf returns the ERC20 balance of owner, used for liquidity tokens.
func (r *ContractReader) BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	parsed, err := PairABI()
	if err != nil {
		return nil, fmt.Errorf("parse pair abi: %w", err)
	}
	values, err := r.call(ctx, token, parsed, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

// StakedBalance returns the amount owner has staked in farm.
func (r *ContractReader) StakedBalance(ctx context.Context, farm, owner common.Address) (*big.Int, error) {
	parsed, err := FarmABI()
	if err != nil {
		return nil, fmt.Errorf("parse farm abi: %w", err)
	}
	values, err := r.call(ctx, farm, parsed, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

// FarmReader exposes staked balances through the BalanceOf shape.
func (r *ContractReader) FarmReader() FarmReader {
	return FarmReader{reader: r}
}

// FarmReader reads farm stakes; the token argument is the farm address.
type FarmReader struct {
	reader *ContractReader
}

func (f FarmReader) BalanceOf(ctx context.Context, farm, owner common.Address) (*big.Int, error) {
	return f.reader.StakedBalance(ctx, farm, owner)
}

// GetReserves returns the pair's reserves in token0/token1 order.
func (r *ContractReader) GetReserves(ctx context.Context, pair common.Address) (Reserves, error) {
	parsed, err := PairABI()
	if err != nil {
		return Reserves{}, fmt.Errorf("parse pair abi: %w", err)
	}
	values, err := r.call(ctx, pair, parsed, "getReserves")
	if err != nil {
		return Reserves{}, err
	}
	if len(values) != 3 {
		return Reserves{}, fmt.Errorf("getReserves return size %d", len(values))
	}
	reserve0, err := asBigInt(values[0])
	if err != nil {
		return Reserves{}, fmt.Errorf("reserve0: %w", err)
	}
	reserve1, err := asBigInt(values[1])
	if err != nil {
		return Reserves{}, fmt.Errorf("reserve1: %w", err)
	}
	ts, err := asBigInt(values[2])
	if err != nil {
		return Reserves{}, fmt.Errorf("block timestamp: %w", err)
	}
	return Reserves{Reserve0: reserve0, Reserve1: reserve1, BlockTimestampLast: uint32(ts.Uint64())}, nil
}

// Token0 returns the pair's token0 address.
func (r *ContractReader) Token0(ctx context.Context, pair common.Address) (common.Address, error) {
	return r.pairToken(ctx, pair, "token0")
}

// Token1 returns the pair's token1 address.
func (r *ContractReader) Token1(ctx context.Context, pair common.Address) (common.Address, error) {
	return r.pairToken(ctx, pair, "token1")
}

func (r *ContractReader) pairToken(ctx context.Context, pair common.Address, method string) (common.Address, error) {
	parsed, err := PairABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse pair abi: %w", err)
	}
	values, err := r.call(ctx, pair, parsed, method)
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(values[0])
}

// OrientedReserves returns (reserve of fixedToken, reserve of the other token).
func (r *ContractReader) OrientedReserves(ctx context.Context, pair, fixedToken common.Address) (*big.Int, *big.Int, error) {
	reserves, err := r.GetReserves(ctx, pair)
	if err != nil {
		return nil, nil, err
	}
	token0, err := r.Token0(ctx, pair)
	if err != nil {
		return nil, nil, err
	}
	if token0 == fixedToken {
		return reserves.Reserve0, reserves.Reserve1, nil
	}
	token1, err := r.Token1(ctx, pair)
	if err != nil {
		return nil, nil, err
	}
	if token1 != fixedToken {
		return nil, nil, fmt.Errorf("%w: %s in pair %s", ErrTokenNotInPair, fixedToken.Hex(), pair.Hex())
	}
	return reserves.Reserve1, reserves.Reserve0, nil
}

// Allowance returns how much spender may move on behalf of owner.
func (r *ContractReader) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	parsed, err := TokenABI()
	if err != nil {
		return nil, fmt.Errorf("parse token abi: %w", err)
	}
	values, err := r.call(ctx, token, parsed, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

// TokenMeta loads token metadata via ERC20 calls, caching results.
func (r *ContractReader) TokenMeta(ctx context.Context, token common.Address) (model.TokenRef, error) {
	if meta, ok := r.tokens.Get(token); ok {
		return meta, nil
	}

	meta := model.TokenRef{Address: token.Hex()}
	stringABI, err := TokenABI()
	if err != nil {
		return meta, fmt.Errorf("parse token abi: %w", err)
	}
	bytes32ABI, err := legacyTokenABIInstance()
	if err != nil {
		return meta, fmt.Errorf("parse legacy token abi: %w", err)
	}

	values, err := r.call(ctx, token, stringABI, "decimals")
	if err != nil {
		return meta, err
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return meta, err
	}
	meta.Decimals = decimals

	if values, err := r.call(ctx, token, stringABI, "symbol"); err == nil {
		if symbol, ok := values[0].(string); ok {
			meta.Symbol = symbol
		}
	} else if values, err := r.call(ctx, token, bytes32ABI, "symbol"); err == nil {
		if symbol, ok := bytes32ToString(values[0]); ok {
			meta.Symbol = symbol
		}
	} else {
		r.logger.Debug("symbol call failed", zap.String("token", token.Hex()), zap.Error(err))
	}

	if values, err := r.call(ctx, token, stringABI, "name"); err == nil {
		if name, ok := values[0].(string); ok {
			meta.Name = name
		}
	} else if values, err := r.call(ctx, token, bytes32ABI, "name"); err == nil {
		if name, ok := bytes32ToString(values[0]); ok {
			meta.Name = name
		}
	}

	r.tokens.Set(token, meta)
	return meta, nil
}

func (r *ContractReader) call(ctx context.Context, contract common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	if r.caller == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &contract, Data: data}
	resp, err := r.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, contract.Hex(), err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s on %s: %w", method, contract.Hex(), err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s on %s returned nothing", method, contract.Hex())
	}
	return values, nil
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case *big.Int:
		if !v.IsUint64() || v.Uint64() > 255 {
			return 0, fmt.Errorf("decimals out of range: %s", v)
		}
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}
