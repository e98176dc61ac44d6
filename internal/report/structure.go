package report

import (
	"farmScope/internal/match"
	"farmScope/internal/model"
)

// PoolMatches is a pool with the addresses of the farms that stake it.
type PoolMatches struct {
	Pool  model.PoolRecord `json:"pool"`
	Farms []string         `json:"farms"`
}

// FarmMatches is a farm with the pair addresses of the pools it stakes.
type FarmMatches struct {
	Farm  model.FarmRecord `json:"farm"`
	Pools []string         `json:"pools"`
}

// Structure is the chain-free half of the report: how pools and farms relate.
type Structure struct {
	PerPool         []PoolMatches      `json:"per_pool"`
	UnmatchedPools  []model.PoolRecord `json:"unmatched_pools"`
	PerFarm         []FarmMatches      `json:"per_farm"`
	UnmatchedFarms  []model.FarmRecord `json:"unmatched_farms"`
	MultiMatchPools []PoolMatches      `json:"multi_match_pools"`
	MultiMatchFarms []FarmMatches      `json:"multi_match_farms"`
	DeprecatedFarms []model.FarmRecord `json:"deprecated_farms"`
}

// BuildStructure classifies every pool and farm by how many counterparts it
// matches. Zero matches and multiple matches are reported separately.
func BuildStructure(pools []model.PoolRecord, farms []model.FarmRecord) Structure {
	return buildStructure(match.NewIndex(pools, farms))
}

func buildStructure(idx *match.Index) Structure {
	s := Structure{
		PerPool:         make([]PoolMatches, 0),
		UnmatchedPools:  make([]model.PoolRecord, 0),
		PerFarm:         make([]FarmMatches, 0),
		UnmatchedFarms:  make([]model.FarmRecord, 0),
		MultiMatchPools: make([]PoolMatches, 0),
		MultiMatchFarms: make([]FarmMatches, 0),
		DeprecatedFarms: make([]model.FarmRecord, 0),
	}

	for i, pool := range idx.Pools() {
		matched := idx.FarmsForPool(i)
		if len(matched) == 0 {
			s.UnmatchedPools = append(s.UnmatchedPools, pool)
			continue
		}
		entry := PoolMatches{Pool: pool, Farms: make([]string, 0, len(matched))}
		for _, farm := range matched {
			entry.Farms = append(entry.Farms, farm.Address)
		}
		s.PerPool = append(s.PerPool, entry)
		if len(matched) > 1 {
			s.MultiMatchPools = append(s.MultiMatchPools, entry)
		}
	}

	for j, farm := range idx.Farms() {
		if farm.IsFarmDeprecated {
			s.DeprecatedFarms = append(s.DeprecatedFarms, farm)
		}
		matched := idx.PoolsForFarm(j)
		if len(matched) == 0 {
			s.UnmatchedFarms = append(s.UnmatchedFarms, farm)
			continue
		}
		entry := FarmMatches{Farm: farm, Pools: make([]string, 0, len(matched))}
		for _, pool := range matched {
			entry.Pools = append(entry.Pools, pool.PairAddress)
		}
		s.PerFarm = append(s.PerFarm, entry)
		if len(matched) > 1 {
			s.MultiMatchFarms = append(s.MultiMatchFarms, entry)
		}
	}

	return s
}
