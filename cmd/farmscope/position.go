package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"farmScope/internal/address"
	"farmScope/internal/config"
	"farmScope/internal/report"
)

func runPosition(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReport(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if len(cfg.Users) == 0 {
		return fmt.Errorf("--user is required")
	}
	if _, err := address.ParseAddresses(cfg.Users); err != nil {
		return fmt.Errorf("user: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := loadSnapshot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer snap.Close()

	agg, closeChain, err := newAggregator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeChain()

	r, err := report.Build(ctx, snap.pools, snap.farms, cfg.Users, agg)
	if err != nil {
		return err
	}
	if err := report.RenderPositions(cmd.OutOrStdout(), r); err != nil {
		return err
	}

	logger.Info("position complete",
		zap.Strings("users", cfg.Users),
		zap.Int("positions_found", r.Summary.PositionsFound),
		zap.Int("query_failed", r.Summary.QueryFailed),
	)
	return nil
}
