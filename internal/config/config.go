package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	SourceJSON     = "json"
	SourcePostgres = "postgres"
)

// ReportConfig holds configuration for the report, match and position commands.
type ReportConfig struct {
	RPCURL        string
	MirrorURLs    []string
	MirrorTimeout time.Duration
	Source        string
	PoolsFile     string
	FarmsFile     string
	UsersFile     string
	Users         []string
	PGDSN         string
	Out           string
	BatchSize     int
	Concurrency   int
	MaxRetries    int
	RetryBackoff  time.Duration
	LogLevel      string
}

// LoadReport merges config file, environment variables, and flags into ReportConfig.
func LoadReport(cfgFile string, flags *pflag.FlagSet) (ReportConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("source", SourceJSON)
		v.SetDefault("pools", "./data/pools.json")
		v.SetDefault("farms", "./data/farms.json")
		v.SetDefault("batch-size", 20)
		v.SetDefault("concurrency", 32)
		v.SetDefault("max-retries", 3)
		v.SetDefault("retry-backoff", 500*time.Millisecond)
		v.SetDefault("mirror-timeout", 15*time.Second)
	})
	if err != nil {
		return ReportConfig{}, err
	}

	cfg := ReportConfig{
		RPCURL:        v.GetString("rpc"),
		MirrorURLs:    getStringSlice(v, "mirror"),
		MirrorTimeout: v.GetDuration("mirror-timeout"),
		Source:        strings.ToLower(strings.TrimSpace(v.GetString("source"))),
		PoolsFile:     v.GetString("pools"),
		FarmsFile:     v.GetString("farms"),
		UsersFile:     v.GetString("users"),
		Users:         getStringSlice(v, "user"),
		PGDSN:         v.GetString("pg-dsn"),
		Out:           v.GetString("out"),
		BatchSize:     v.GetInt("batch-size"),
		Concurrency:   v.GetInt("concurrency"),
		MaxRetries:    v.GetInt("max-retries"),
		RetryBackoff:  v.GetDuration("retry-backoff"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}

// ValidateSource checks the snapshot source settings.
func (c ReportConfig) ValidateSource() error {
	switch c.Source {
	case SourceJSON:
		if c.PoolsFile == "" || c.FarmsFile == "" {
			return fmt.Errorf("--pools and --farms are required for the json source")
		}
	case SourcePostgres:
		if c.PGDSN == "" {
			return fmt.Errorf("--pg-dsn is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}
	return nil
}

// ValidateBalances checks the settings needed for balance reads.
func (c ReportConfig) ValidateBalances() error {
	if err := c.ValidateSource(); err != nil {
		return err
	}
	if c.RPCURL == "" {
		return fmt.Errorf("--rpc is required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be > 0")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be > 0")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be >= 0")
	}
	return nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults func(v *viper.Viper)) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("FARMSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")
	if defaults != nil {
		defaults(v)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
