package postgres

type tableDDL struct {
	table string
	sql   string
}

var schema = []tableDDL{
	{table: "pools", sql: `
		CREATE TABLE IF NOT EXISTS pools (
			pair_address TEXT PRIMARY KEY,
			pair_name TEXT NOT NULL DEFAULT '',
			pair_symbol TEXT NOT NULL DEFAULT '',
			token0_address TEXT NOT NULL DEFAULT '',
			token0_symbol TEXT NOT NULL DEFAULT '',
			token0_decimals SMALLINT NOT NULL DEFAULT 0,
			token1_address TEXT NOT NULL DEFAULT '',
			token1_symbol TEXT NOT NULL DEFAULT '',
			token1_decimals SMALLINT NOT NULL DEFAULT 0
		)`},
	{table: "farms", sql: `
		CREATE TABLE IF NOT EXISTS farms (
			address TEXT PRIMARY KEY,
			staking_token_address TEXT NOT NULL DEFAULT '',
			pool_pair_address TEXT,
			is_deprecated BOOLEAN NOT NULL DEFAULT FALSE,
			rewards_data JSONB
		)`},
	{table: "positions", sql: `
		CREATE TABLE IF NOT EXISTS positions (
			pool_address TEXT NOT NULL,
			user_address TEXT NOT NULL,
			unstaked NUMERIC(78, 0) NOT NULL,
			staked NUMERIC(78, 0) NOT NULL,
			total NUMERIC(78, 0) NOT NULL,
			staked_by_farm JSONB NOT NULL,
			contributing_farms TEXT[] NOT NULL,
			degraded BOOLEAN NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (pool_address, user_address)
		)`},
	{table: "balance_failures", sql: `
		CREATE TABLE IF NOT EXISTS balance_failures (
			id BIGSERIAL PRIMARY KEY,
			pool_address TEXT NOT NULL,
			farm_address TEXT NOT NULL,
			user_address TEXT NOT NULL,
			source TEXT NOT NULL,
			error TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`},
}
