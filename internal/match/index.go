package match

import "farmScope/internal/model"

// Index holds the pool/farm match relation for a fixed snapshot, computed
// once so batch callers do not renormalize addresses per lookup.
type Index struct {
	pools       []model.PoolRecord
	farms       []model.FarmRecord
	farmsByPool [][]int
	poolsByFarm [][]int
}

func NewIndex(pools []model.PoolRecord, farms []model.FarmRecord) *Index {
	idx := &Index{
		pools:       pools,
		farms:       farms,
		farmsByPool: make([][]int, len(pools)),
		poolsByFarm: make([][]int, len(farms)),
	}

	pairKeys := make([]string, len(pools))
	for i, pool := range pools {
		pairKeys[i] = pairKeyOf(pool)
	}
	keys := make([]farmKeys, len(farms))
	for j, farm := range farms {
		keys[j] = keysOf(farm)
	}

	for i := range pools {
		for j := range farms {
			if related(pairKeys[i], keys[j]) {
				idx.farmsByPool[i] = append(idx.farmsByPool[i], j)
				idx.poolsByFarm[j] = append(idx.poolsByFarm[j], i)
			}
		}
	}
	return idx
}

func (idx *Index) Pools() []model.PoolRecord { return idx.pools }

func (idx *Index) Farms() []model.FarmRecord { return idx.farms }

// FarmsForPool returns the farms matching pools[i].
func (idx *Index) FarmsForPool(i int) []model.FarmRecord {
	out := make([]model.FarmRecord, 0, len(idx.farmsByPool[i]))
	for _, j := range idx.farmsByPool[i] {
		out = append(out, idx.farms[j])
	}
	return out
}

// PoolsForFarm returns the pools matching farms[j].
func (idx *Index) PoolsForFarm(j int) []model.PoolRecord {
	out := make([]model.PoolRecord, 0, len(idx.poolsByFarm[j]))
	for _, i := range idx.poolsByFarm[j] {
		out = append(out, idx.pools[i])
	}
	return out
}
