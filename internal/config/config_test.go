package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("report", pflag.ContinueOnError)
	fs.String("rpc", "", "")
	fs.StringSlice("mirror", nil, "")
	fs.String("source", "", "")
	fs.String("pools", "", "")
	fs.String("farms", "", "")
	fs.String("users", "", "")
	fs.StringSlice("user", nil, "")
	fs.String("pg-dsn", "", "")
	fs.Int("batch-size", 0, "")
	return fs
}

func TestLoadReportDefaults(t *testing.T) {
	cfg, err := LoadReport("", nil)
	require.NoError(t, err)

	assert.Equal(t, SourceJSON, cfg.Source)
	assert.Equal(t, 20, cfg.BatchSize)
	assert.Equal(t, 32, cfg.Concurrency)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryBackoff)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.ValidateSource())
	assert.Error(t, cfg.ValidateBalances(), "rpc is required for balance reads")
}

func TestLoadReportFlagsAndEnv(t *testing.T) {
	t.Setenv("FARMSCOPE_RPC", "http://env-rpc")
	t.Setenv("FARMSCOPE_MAX_RETRIES", "7")

	fs := reportFlags()
	require.NoError(t, fs.Parse([]string{
		"--mirror", "https://a.example, https://b.example",
		"--user", "0.0.1001",
		"--user", "0.0.1002",
		"--batch-size", "5",
	}))

	cfg, err := LoadReport("", fs)
	require.NoError(t, err)

	assert.Equal(t, "http://env-rpc", cfg.RPCURL)
	assert.Equal(t, 7, cfg.MaxRetries)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.MirrorURLs)
	assert.Equal(t, []string{"0.0.1001", "0.0.1002"}, cfg.Users)
	assert.NoError(t, cfg.ValidateBalances())
}

func TestLoadReportConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farmscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: postgres\npg-dsn: postgres://localhost/farms\nuser:\n  - 0.0.1001\n"), 0o644))

	cfg, err := LoadReport(path, nil)
	require.NoError(t, err)
	assert.Equal(t, SourcePostgres, cfg.Source)
	assert.Equal(t, []string{"0.0.1001"}, cfg.Users)
	assert.NoError(t, cfg.ValidateSource())

	cfg.PGDSN = ""
	assert.Error(t, cfg.ValidateSource())
	cfg.Source = "s3"
	assert.Error(t, cfg.ValidateSource())
}

func TestLoadReportMissingConfigFile(t *testing.T) {
	_, err := LoadReport(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadQuote(t *testing.T) {
	fs := pflag.NewFlagSet("quote", pflag.ContinueOnError)
	fs.String("rpc", "", "")
	fs.String("pair", "", "")
	fs.String("amount", "", "")
	fs.String("fixed-token", "", "")
	fs.String("spender", "", "")
	require.NoError(t, fs.Parse([]string{
		"--rpc", "http://rpc",
		"--pair", "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"--amount", "1",
		"--fixed-token", "0.0.4660",
	}))

	cfg, err := LoadQuote("", fs)
	require.NoError(t, err)
	assert.Equal(t, "0.0.4660", cfg.FixedToken)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.NoError(t, cfg.Validate())

	cfg.Spender = "0.0.2002"
	assert.Error(t, cfg.Validate(), "spender needs an owner")
	cfg.Amount = ""
	assert.Error(t, cfg.Validate())
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("1700000000")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), ts.Unix())

	ts, err = ParseTimestamp("2024-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), ts.UTC())

	ts, err = ParseTimestamp(" ")
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}
