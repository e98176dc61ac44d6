package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// QuoteConfig holds configuration for the quote command.
type QuoteConfig struct {
	RPCURL        string
	MirrorURLs    []string
	MirrorTimeout time.Duration
	Pair          string
	Amount        string
	FixedToken    string
	Owner         string
	Spender       string
	MaxRetries    int
	RetryBackoff  time.Duration
	LogLevel      string
}

// LoadQuote merges config file, environment variables, and flags into QuoteConfig.
func LoadQuote(cfgFile string, flags *pflag.FlagSet) (QuoteConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("max-retries", 3)
		v.SetDefault("retry-backoff", 500*time.Millisecond)
		v.SetDefault("mirror-timeout", 15*time.Second)
	})
	if err != nil {
		return QuoteConfig{}, err
	}

	cfg := QuoteConfig{
		RPCURL:        v.GetString("rpc"),
		MirrorURLs:    getStringSlice(v, "mirror"),
		MirrorTimeout: v.GetDuration("mirror-timeout"),
		Pair:          v.GetString("pair"),
		Amount:        v.GetString("amount"),
		FixedToken:    v.GetString("fixed-token"),
		Owner:         v.GetString("owner"),
		Spender:       v.GetString("spender"),
		MaxRetries:    v.GetInt("max-retries"),
		RetryBackoff:  v.GetDuration("retry-backoff"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks required quote settings.
func (c QuoteConfig) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("--rpc is required")
	}
	if c.Pair == "" {
		return fmt.Errorf("--pair is required")
	}
	if c.Amount == "" {
		return fmt.Errorf("--amount is required")
	}
	if c.FixedToken == "" {
		return fmt.Errorf("--fixed-token is required")
	}
	if c.Spender != "" && c.Owner == "" {
		return fmt.Errorf("--owner is required with --spender")
	}
	return nil
}
