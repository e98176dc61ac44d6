package match

import (
	"farmScope/internal/address"
	"farmScope/internal/model"
)

// farmKeys holds the canonical forms of the two fields that can tie a farm
// to a pool. Fields that fail to normalize are left empty.
type farmKeys struct {
	stakingToken string
	poolPair     string
}

func keysOf(farm model.FarmRecord) farmKeys {
	var keys farmKeys
	if c, ok := address.Canonical(farm.StakingTokenAddress); ok {
		keys.stakingToken = c
	}
	if c, ok := address.Canonical(farm.PoolPairAddress()); ok {
		keys.poolPair = c
	}
	return keys
}

func pairKeyOf(pool model.PoolRecord) string {
	c, _ := address.Canonical(pool.PairAddress)
	return c
}

// related is the only pool/farm relation. Both lookup directions and the
// index go through it.
func related(pairKey string, keys farmKeys) bool {
	if pairKey == "" {
		return false
	}
	return keys.stakingToken == pairKey || keys.poolPair == pairKey
}

// Matches reports whether farm stakes the liquidity token of pool.
func Matches(pool model.PoolRecord, farm model.FarmRecord) bool {
	return related(pairKeyOf(pool), keysOf(farm))
}

// FindMatchingFarms returns every farm staking the pool's liquidity token,
// in input order. An empty result means no staking venue exists.
func FindMatchingFarms(pool model.PoolRecord, farms []model.FarmRecord) []model.FarmRecord {
	pairKey := pairKeyOf(pool)
	out := make([]model.FarmRecord, 0)
	if pairKey == "" {
		return out
	}
	for _, farm := range farms {
		if related(pairKey, keysOf(farm)) {
			out = append(out, farm)
		}
	}
	return out
}

// FindMatchingPools returns every pool whose liquidity token the farm stakes.
func FindMatchingPools(farm model.FarmRecord, pools []model.PoolRecord) []model.PoolRecord {
	keys := keysOf(farm)
	out := make([]model.PoolRecord, 0)
	for _, pool := range pools {
		if related(pairKeyOf(pool), keys) {
			out = append(out, pool)
		}
	}
	return out
}
