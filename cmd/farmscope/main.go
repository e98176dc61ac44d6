package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "farmscope",
		Short:        "Farm/pool reconciliation and liquidity position diagnostics",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Match farms to pools and aggregate user positions",
		RunE:  runReport,
	}
	addSourceFlags(reportCmd)
	addBalanceFlags(reportCmd)
	reportCmd.Flags().String("users", "", "users file (JSON array or one identifier per line)")
	reportCmd.Flags().StringSlice("user", nil, "user identifiers (comma-separated)")
	reportCmd.Flags().String("out", "", "optional JSONL output path")
	root.AddCommand(reportCmd)

	matchCmd := &cobra.Command{
		Use:   "match",
		Short: "Report pool/farm matching without chain reads",
		RunE:  runMatch,
	}
	addSourceFlags(matchCmd)
	matchCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(matchCmd)

	positionCmd := &cobra.Command{
		Use:   "position",
		Short: "Show one user's positions across all pools",
		RunE:  runPosition,
	}
	addSourceFlags(positionCmd)
	addBalanceFlags(positionCmd)
	positionCmd.Flags().StringSlice("user", nil, "user identifier (native id or EVM address)")
	root.AddCommand(positionCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote <slippage-percent> <deadline-minutes>",
		Short: "Compute the counterpart amount, slippage bounds and deadline for adding liquidity",
		Args:  cobra.ExactArgs(2),
		RunE:  runQuote,
	}
	quoteCmd.Flags().String("rpc", "", "JSON-RPC URL")
	quoteCmd.Flags().StringSlice("mirror", nil, "ledger REST query service URLs (comma-separated)")
	quoteCmd.Flags().Duration("mirror-timeout", 15*time.Second, "REST query timeout")
	quoteCmd.Flags().String("pair", "", "pair contract address")
	quoteCmd.Flags().String("amount", "", "amount of the fixed token")
	quoteCmd.Flags().String("fixed-token", "", "token whose amount is fixed")
	quoteCmd.Flags().String("owner", "", "liquidity provider, for allowance checks")
	quoteCmd.Flags().String("spender", "", "router allowed to move the tokens")
	quoteCmd.Flags().Int("max-retries", 3, "maximum retry attempts per read")
	quoteCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(quoteCmd)

	claimCmd := &cobra.Command{
		Use:   "claim",
		Short: "Show claimed and vested shares of a claimdrop allocation",
		RunE:  runClaim,
	}
	claimCmd.Flags().String("total", "0", "total allocation")
	claimCmd.Flags().String("claimed", "0", "amount already claimed")
	claimCmd.Flags().Uint8("decimals", 8, "token decimals")
	claimCmd.Flags().String("vesting-start", "", "vesting start (unix seconds or RFC3339)")
	claimCmd.Flags().String("vesting-end", "", "vesting end (unix seconds or RFC3339)")
	root.AddCommand(claimCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "json", "snapshot source (json, postgres)")
	cmd.Flags().String("pools", "./data/pools.json", "pools snapshot JSON")
	cmd.Flags().String("farms", "./data/farms.json", "farms snapshot JSON")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN")
}

func addBalanceFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "JSON-RPC URL")
	cmd.Flags().StringSlice("mirror", nil, "ledger REST query service URLs (comma-separated)")
	cmd.Flags().Duration("mirror-timeout", 15*time.Second, "REST query timeout")
	cmd.Flags().Int("batch-size", 20, "pools per batch")
	cmd.Flags().Int("concurrency", 32, "concurrent (pool, user) aggregations")
	cmd.Flags().Int("max-retries", 3, "maximum retry attempts per read")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
