package report

import (
	"context"
	"fmt"

	"farmScope/internal/aggregate"
	"farmScope/internal/model"
)

// PositionSource aggregates positions over a pool/farm/user cross product.
type PositionSource interface {
	Positions(ctx context.Context, pools []model.PoolRecord, farms []model.FarmRecord, users []string) (*aggregate.Result, error)
}

// Summary counts (pool, user) items by outcome.
type Summary struct {
	Pools          int `json:"pools"`
	Farms          int `json:"farms"`
	Users          int `json:"users"`
	PositionsFound int `json:"positions_found"`
	NoPosition     int `json:"no_position"`
	QueryFailed    int `json:"query_failed"`
}

// Report is the full diagnostic output.
type Report struct {
	Structure
	PerUser  []model.Position       `json:"per_user"`
	Failures []model.BalanceFailure `json:"failures"`
	Summary  Summary                `json:"summary"`

	// Evaluated holds every position that was read, zero ones included.
	// Sinks persist it so a drained position overwrites its previous row.
	Evaluated []model.Position `json:"-"`
}

// Build assembles the structural report and the non-zero positions of every
// user across all pools.
//
// Each (pool, user) item lands in exactly one summary bucket: a non-zero
// position is found even when some reads degraded; a zero position with a
// degraded read, or an item that could not be evaluated, is a failed query;
// anything else holds no position.
func Build(ctx context.Context, pools []model.PoolRecord, farms []model.FarmRecord, users []string, source PositionSource) (Report, error) {
	r := Report{
		Structure: BuildStructure(pools, farms),
		PerUser:   make([]model.Position, 0),
		Evaluated: make([]model.Position, 0),
		Failures:  make([]model.BalanceFailure, 0),
		Summary: Summary{
			Pools: len(pools),
			Farms: len(farms),
			Users: len(users),
		},
	}
	if len(users) == 0 {
		return r, nil
	}
	if source == nil {
		return r, fmt.Errorf("position source is nil")
	}

	res, err := source.Positions(ctx, pools, farms, users)
	if err != nil {
		return r, fmt.Errorf("aggregate positions: %w", err)
	}

	r.Evaluated = append(r.Evaluated, res.Positions...)
	for _, pos := range res.Positions {
		r.Failures = append(r.Failures, pos.Failures...)
		switch {
		case !pos.IsZero():
			r.PerUser = append(r.PerUser, pos)
			r.Summary.PositionsFound++
		case pos.Degraded():
			r.Summary.QueryFailed++
		default:
			r.Summary.NoPosition++
		}
	}
	r.Failures = append(r.Failures, res.Failures...)
	r.Summary.QueryFailed += len(res.Failures)

	return r, nil
}
