package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"farmScope/internal/model"
)

// Store reads pool/farm snapshots from Postgres and persists report output.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables the store reads and writes.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("create %s: %w", stmt.table, err)
		}
	}
	return nil
}

// ListPools returns every pool ordered by pair address.
func (s *Store) ListPools(ctx context.Context) ([]model.PoolRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pair_address, pair_name, pair_symbol,
			token0_address, token0_symbol, token0_decimals,
			token1_address, token1_symbol, token1_decimals
		FROM pools
		ORDER BY pair_address
	`)
	if err != nil {
		return nil, fmt.Errorf("query pools: %w", err)
	}
	defer rows.Close()

	pools := make([]model.PoolRecord, 0)
	for rows.Next() {
		var p model.PoolRecord
		var decimals0, decimals1 int16
		if err := rows.Scan(
			&p.PairAddress, &p.PairName, &p.PairSymbol,
			&p.Token0Address, &p.Token0Symbol, &decimals0,
			&p.Token1Address, &p.Token1Symbol, &decimals1,
		); err != nil {
			return nil, fmt.Errorf("scan pool: %w", err)
		}
		p.Token0Decimals = uint8(decimals0)
		p.Token1Decimals = uint8(decimals1)
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

// ListFarms returns every farm ordered by address.
func (s *Store) ListFarms(ctx context.Context) ([]model.FarmRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT address, staking_token_address, pool_pair_address, is_deprecated, rewards_data
		FROM farms
		ORDER BY address
	`)
	if err != nil {
		return nil, fmt.Errorf("query farms: %w", err)
	}
	defer rows.Close()

	farms := make([]model.FarmRecord, 0)
	for rows.Next() {
		var f model.FarmRecord
		var poolPair *string
		var rewards []byte
		if err := rows.Scan(&f.Address, &f.StakingTokenAddress, &poolPair, &f.IsFarmDeprecated, &rewards); err != nil {
			return nil, fmt.Errorf("scan farm: %w", err)
		}
		if poolPair != nil && *poolPair != "" {
			f.PoolData = &model.FarmPoolData{PairAddress: *poolPair}
		}
		if len(rewards) > 0 {
			f.RewardsData = json.RawMessage(rewards)
		}
		farms = append(farms, f)
	}
	return farms, rows.Err()
}

// PutPositions inserts or updates positions keyed by pool and user.
func (s *Store) PutPositions(ctx context.Context, positions []model.Position) error {
	if len(positions) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range positions {
		byFarm := make(map[string]string, len(p.StakedByFarm))
		for farm, amount := range p.StakedByFarm {
			byFarm[farm] = amount.String()
		}
		stakedByFarm, err := json.Marshal(byFarm)
		if err != nil {
			return fmt.Errorf("marshal staked_by_farm: %w", err)
		}
		batch.Queue(`
			INSERT INTO positions (
				pool_address, user_address, unstaked, staked, total,
				staked_by_farm, contributing_farms, degraded, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
			ON CONFLICT (pool_address, user_address)
			DO UPDATE SET
				unstaked = EXCLUDED.unstaked,
				staked = EXCLUDED.staked,
				total = EXCLUDED.total,
				staked_by_farm = EXCLUDED.staked_by_farm,
				contributing_farms = EXCLUDED.contributing_farms,
				degraded = EXCLUDED.degraded,
				updated_at = now()
		`,
			p.Pool,
			p.User,
			numeric(p.Unstaked),
			numeric(p.Staked),
			numeric(p.Total),
			stakedByFarm,
			nonNil(p.ContributingFarms),
			p.Degraded(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range positions {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// PutFailures appends failure records.
func (s *Store) PutFailures(ctx context.Context, failures []model.BalanceFailure) error {
	if len(failures) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, f := range failures {
		batch.Queue(`
			INSERT INTO balance_failures (pool_address, farm_address, user_address, source, error, created_at)
			VALUES ($1, $2, $3, $4, $5, now())
		`, f.Pool, f.Farm, f.User, f.Source, f.Error)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range failures {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func numeric(v *big.Int) pgtype.Numeric {
	if v == nil {
		v = new(big.Int)
	}
	return pgtype.Numeric{Int: v, Exp: 0, Valid: true}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
