package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"farmScope/internal/aggregate"
	"farmScope/internal/chain"
	"farmScope/internal/config"
	"farmScope/internal/dex"
	"farmScope/internal/mirror"
	"farmScope/internal/model"
	"farmScope/internal/storage"
	"farmScope/internal/storage/postgres"
)

// snapshot holds the pools, farms and optional Postgres store of a run.
type snapshot struct {
	pools []model.PoolRecord
	farms []model.FarmRecord
	store *postgres.Store
}

func (s *snapshot) Close() {
	if s.store != nil {
		s.store.Close()
	}
}

// loadSnapshot reads pools and farms from the configured source. A Postgres
// store is opened whenever a DSN is set so it can also serve as a sink.
func loadSnapshot(ctx context.Context, cfg config.ReportConfig, logger *zap.Logger) (*snapshot, error) {
	if err := cfg.ValidateSource(); err != nil {
		return nil, err
	}

	snap := &snapshot{}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		snap.store = store
	}

	var provider storage.Provider
	if cfg.Source == config.SourcePostgres {
		provider = snap.store
	} else {
		provider = storage.NewSnapshot(cfg.PoolsFile, cfg.FarmsFile)
	}

	pools, err := provider.ListPools(ctx)
	if err != nil {
		snap.Close()
		return nil, fmt.Errorf("list pools: %w", err)
	}
	farms, err := provider.ListFarms(ctx)
	if err != nil {
		snap.Close()
		return nil, fmt.Errorf("list farms: %w", err)
	}
	snap.pools = pools
	snap.farms = farms

	logger.Info("snapshot loaded",
		zap.String("source", cfg.Source),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Int("pools", len(pools)),
		zap.Int("farms", len(farms)),
	)
	return snap, nil
}

// newAggregator wires contract reads, the REST query service and retries
// into an Aggregator. The returned func releases the chain connection.
func newAggregator(ctx context.Context, cfg config.ReportConfig, logger *zap.Logger) (*aggregate.Aggregator, func(), error) {
	if err := cfg.ValidateBalances(); err != nil {
		return nil, nil, err
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect rpc: %w", err)
	}
	chainID, err := chainClient.GetChainID(ctx)
	if err != nil {
		chainClient.Close()
		return nil, nil, fmt.Errorf("get chain id: %w", err)
	}
	logger.Info("rpc connected", zap.String("chain_id", chainID.String()), zap.Int("mirror_endpoints", len(cfg.MirrorURLs)))

	contracts := dex.NewContractReader(chainClient, logger)
	lpReader := aggregate.RoutingReader{Contract: contracts}
	if len(cfg.MirrorURLs) > 0 {
		client := mirror.NewClient(mirror.Opts{Endpoints: cfg.MirrorURLs, Timeout: cfg.MirrorTimeout})
		lpReader.TokenService = mirror.NewBalanceReader(client)
	}

	agg := aggregate.NewAggregator(aggregate.Config{
		BatchSize:    cfg.BatchSize,
		Concurrency:  cfg.Concurrency,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, lpReader, contracts.FarmReader(), logger)

	return agg, chainClient.Close, nil
}

// resolveUsers merges --user values with the users file.
func resolveUsers(cfg config.ReportConfig) ([]string, error) {
	users := append([]string(nil), cfg.Users...)
	if cfg.UsersFile != "" {
		fromFile, err := storage.LoadUsers(cfg.UsersFile)
		if err != nil {
			return nil, err
		}
		users = append(users, fromFile...)
	}
	return users, nil
}
