package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"farmScope/internal/config"
	"farmScope/internal/report"
	"farmScope/internal/storage"
)

func runReport(cmd *cobra.Command, _ []string) error {
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

	users, err := resolveUsers(cfg)
	if err != nil {
		return err
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

	logger.Info("report start",
		zap.Int("pools", len(snap.pools)),
		zap.Int("farms", len(snap.farms)),
		zap.Int("users", len(users)),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Int("concurrency", cfg.Concurrency),
		zap.String("out", cfg.Out),
	)

	r, err := report.Build(ctx, snap.pools, snap.farms, users, agg)
	if err != nil {
		return err
	}

	sinks := make([]storage.Sink, 0, 2)
	if cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.Out))
	}
	if snap.store != nil {
		sinks = append(sinks, snap.store)
	}
	for _, sink := range sinks {
		if err := sink.PutPositions(ctx, r.Evaluated); err != nil {
			return fmt.Errorf("write positions: %w", err)
		}
		if err := sink.PutFailures(ctx, r.Failures); err != nil {
			return fmt.Errorf("write failures: %w", err)
		}
	}

	if err := report.Render(cmd.OutOrStdout(), r); err != nil {
		return err
	}

	logger.Info("report complete",
		zap.Int("positions_found", r.Summary.PositionsFound),
		zap.Int("no_position", r.Summary.NoPosition),
		zap.Int("query_failed", r.Summary.QueryFailed),
		zap.Int("unmatched_pools", len(r.UnmatchedPools)),
		zap.Int("unmatched_farms", len(r.UnmatchedFarms)),
	)
	return nil
}
