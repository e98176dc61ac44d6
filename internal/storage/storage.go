package storage

import (
	"context"

	"farmScope/internal/model"
)

// Provider supplies the pool and farm snapshots a run works over.
type Provider interface {
	ListPools(ctx context.Context) ([]model.PoolRecord, error)
	ListFarms(ctx context.Context) ([]model.FarmRecord, error)
}

// Sink persists aggregation output.
type Sink interface {
	PutPositions(ctx context.Context, positions []model.Position) error
	PutFailures(ctx context.Context, failures []model.BalanceFailure) error
}
