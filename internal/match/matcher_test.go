package match

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmScope/internal/model"
)

const (
	pairA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	pairB = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	pairC = "0xcccccccccccccccccccccccccccccccccccccccc"
)

func fixturePools() []model.PoolRecord {
	return []model.PoolRecord{
		{PairAddress: pairA, Token0Symbol: "HELI", Token1Symbol: "USDC"},
		{PairAddress: common.HexToAddress(pairB).Hex(), Token0Symbol: "HELI", Token1Symbol: "HBAR"},
		{PairAddress: pairC, Token0Symbol: "USDC", Token1Symbol: "HBAR"},
		{PairAddress: "", Token0Symbol: "BROKEN"},
	}
}

func fixtureFarms() []model.FarmRecord {
	return []model.FarmRecord{
		// staking token only, checksum cased
		{Address: "0xf000000000000000000000000000000000000001", StakingTokenAddress: common.HexToAddress(pairA).Hex()},
		// deprecated farm superseded by the next one, same staking token
		{Address: "0xf000000000000000000000000000000000000002", StakingTokenAddress: strings.TrimPrefix(pairB, "0x"), IsFarmDeprecated: true},
		{Address: "0xf000000000000000000000000000000000000003", StakingTokenAddress: pairB},
		// staking token missing, pool snapshot present
		{Address: "0xf000000000000000000000000000000000000004", PoolData: &model.FarmPoolData{PairAddress: strings.ToUpper(pairA[2:])}},
		// staking token and pool snapshot disagree
		{Address: "0xf000000000000000000000000000000000000005", StakingTokenAddress: pairC, PoolData: &model.FarmPoolData{PairAddress: pairB}},
		// nothing usable
		{Address: "0xf000000000000000000000000000000000000006"},
	}
}

func farmAddresses(farms []model.FarmRecord) []string {
	out := make([]string, 0, len(farms))
	for _, f := range farms {
		out = append(out, f.Address)
	}
	return out
}

func TestFindMatchingFarmsReturnsAll(t *testing.T) {
	pools := fixturePools()
	farms := fixtureFarms()

	got := FindMatchingFarms(pools[0], farms)
	assert.Equal(t, []string{
		"0xf000000000000000000000000000000000000001",
		"0xf000000000000000000000000000000000000004",
	}, farmAddresses(got))

	got = FindMatchingFarms(pools[1], farms)
	assert.Equal(t, []string{
		"0xf000000000000000000000000000000000000002",
		"0xf000000000000000000000000000000000000003",
		"0xf000000000000000000000000000000000000005",
	}, farmAddresses(got))
}

func TestFindMatchingFarmsNoMatch(t *testing.T) {
	got := FindMatchingFarms(model.PoolRecord{PairAddress: "0x1234567890123456789012345678901234567890"}, fixtureFarms())
	require.NotNil(t, got)
	assert.Empty(t, got)

	// an empty pair address never matches farms with empty fields
	got = FindMatchingFarms(fixturePools()[3], fixtureFarms())
	assert.Empty(t, got)
}

func TestFindMatchingPoolsUsesBothSignals(t *testing.T) {
	pools := fixturePools()
	farm := fixtureFarms()[4]

	got := FindMatchingPools(farm, pools)
	require.Len(t, got, 2)
	assert.Equal(t, pools[1].PairAddress, got[0].PairAddress)
	assert.Equal(t, pairC, got[1].PairAddress)
}

func TestMatchingIsSymmetric(t *testing.T) {
	pools := fixturePools()
	farms := fixtureFarms()

	for _, pool := range pools {
		forward := FindMatchingFarms(pool, farms)
		for _, farm := range farms {
			inForward := containsFarm(forward, farm.Address)
			inBackward := containsPool(FindMatchingPools(farm, pools), pool.PairAddress)
			assert.Equal(t, inForward, inBackward, "pool %s farm %s", pool.PairAddress, farm.Address)
			assert.Equal(t, inForward, Matches(pool, farm))
		}
	}
}

func TestIndexAgreesWithMatcher(t *testing.T) {
	pools := fixturePools()
	farms := fixtureFarms()
	idx := NewIndex(pools, farms)

	for i, pool := range pools {
		assert.Equal(t, farmAddresses(FindMatchingFarms(pool, farms)), farmAddresses(idx.FarmsForPool(i)))
	}
	for j, farm := range farms {
		assert.Equal(t, len(FindMatchingPools(farm, pools)), len(idx.PoolsForFarm(j)))
	}
}

func TestMatchesNativeIdentifier(t *testing.T) {
	pool := model.PoolRecord{PairAddress: "0x0000000000000000000000000000000000001234"}
	farm := model.FarmRecord{Address: "0xf1", StakingTokenAddress: "0.0.4660"}
	assert.True(t, Matches(pool, farm))
}

func containsFarm(farms []model.FarmRecord, addr string) bool {
	for _, f := range farms {
		if f.Address == addr {
			return true
		}
	}
	return false
}

func containsPool(pools []model.PoolRecord, pair string) bool {
	for _, p := range pools {
		if p.PairAddress == pair {
			return true
		}
	}
	return false
}
