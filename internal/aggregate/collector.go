package aggregate

import (
	"sort"

	"github.com/puzpuzpuz/xsync/v4"

	"farmScope/internal/model"
)

type itemKey struct {
	pool int
	user int
}

type itemResult struct {
	position *model.Position
	failures []model.BalanceFailure
}

// collector gathers per-item results from concurrent workers. Items land in
// any order; results are sorted by pool then user on read.
type collector struct {
	items *xsync.Map[itemKey, itemResult]
}

func newCollector() *collector {
	return &collector{items: xsync.NewMap[itemKey, itemResult]()}
}

func (c *collector) addPosition(key itemKey, pos model.Position) {
	c.items.Compute(key, func(old itemResult, _ bool) (itemResult, xsync.ComputeOp) {
		old.position = &pos
		return old, xsync.UpdateOp
	})
}

func (c *collector) addFailure(key itemKey, failure model.BalanceFailure) {
	c.items.Compute(key, func(old itemResult, _ bool) (itemResult, xsync.ComputeOp) {
		old.failures = append(old.failures, failure)
		return old, xsync.UpdateOp
	})
}

func (c *collector) result() *Result {
	keys := make([]itemKey, 0, c.items.Size())
	c.items.Range(func(key itemKey, _ itemResult) bool {
		keys = append(keys, key)
		return true
	})
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].pool != keys[j].pool {
			return keys[i].pool < keys[j].pool
		}
		return keys[i].user < keys[j].user
	})

	res := &Result{}
	for _, key := range keys {
		item, ok := c.items.Load(key)
		if !ok {
			continue
		}
		if item.position != nil {
			res.Positions = append(res.Positions, *item.position)
		}
		res.Failures = append(res.Failures, item.failures...)
	}
	return res
}
