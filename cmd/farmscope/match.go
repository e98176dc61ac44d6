package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"farmScope/internal/config"
	"farmScope/internal/report"
)

func runMatch(cmd *cobra.Command, _ []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := loadSnapshot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer snap.Close()

	s := report.BuildStructure(snap.pools, snap.farms)
	if err := report.RenderStructure(cmd.OutOrStdout(), s); err != nil {
		return err
	}

	logger.Info("match complete",
		zap.Int("matched_pools", len(s.PerPool)),
		zap.Int("unmatched_pools", len(s.UnmatchedPools)),
		zap.Int("unmatched_farms", len(s.UnmatchedFarms)),
		zap.Int("multi_match_pools", len(s.MultiMatchPools)),
		zap.Int("multi_match_farms", len(s.MultiMatchFarms)),
	)
	return nil
}
