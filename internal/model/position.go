package model

import (
	"encoding/json"
	"math/big"
)

// Position is a user's liquidity in one pool, held directly and staked in
// every farm that matches the pool.
type Position struct {
	Pool              string
	PoolLabel         string
	User              string
	Unstaked          *big.Int
	Staked            *big.Int
	Total             *big.Int
	StakedByFarm      map[string]*big.Int
	ContributingFarms []string
	Failures          []BalanceFailure
}

// IsZero reports whether the position holds nothing.
func (p Position) IsZero() bool {
	return p.Total == nil || p.Total.Sign() == 0
}

// Degraded reports whether at least one read behind the position failed.
func (p Position) Degraded() bool {
	return len(p.Failures) > 0
}

type positionJSON struct {
	Pool              string            `json:"pool"`
	PoolLabel         string            `json:"pool_label,omitempty"`
	User              string            `json:"user"`
	Unstaked          string            `json:"unstaked"`
	Staked            string            `json:"staked"`
	Total             string            `json:"total"`
	StakedByFarm      map[string]string `json:"staked_by_farm,omitempty"`
	ContributingFarms []string          `json:"contributing_farms"`
	Failures          []BalanceFailure  `json:"failures,omitempty"`
}

// MarshalJSON encodes amounts as decimal strings.
func (p Position) MarshalJSON() ([]byte, error) {
	out := positionJSON{
		Pool:              p.Pool,
		PoolLabel:         p.PoolLabel,
		User:              p.User,
		Unstaked:          intString(p.Unstaked),
		Staked:            intString(p.Staked),
		Total:             intString(p.Total),
		ContributingFarms: p.ContributingFarms,
		Failures:          p.Failures,
	}
	if out.ContributingFarms == nil {
		out.ContributingFarms = []string{}
	}
	if len(p.StakedByFarm) > 0 {
		out.StakedByFarm = make(map[string]string, len(p.StakedByFarm))
		for farm, amount := range p.StakedByFarm {
			out.StakedByFarm[farm] = intString(amount)
		}
	}
	return json.Marshal(out)
}

func intString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
