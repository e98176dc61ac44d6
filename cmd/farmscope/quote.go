package main

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"farmScope/internal/address"
	"farmScope/internal/chain"
	"farmScope/internal/config"
	"farmScope/internal/dex"
	"farmScope/internal/mirror"
	"farmScope/internal/model"
)

func runQuote(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuote(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	slippage, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("parse slippage %q: %w", args[0], err)
	}
	if err := dex.ValidateSlippage(slippage); err != nil {
		return err
	}
	minutes, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || minutes <= 0 {
		return fmt.Errorf("deadline minutes must be a positive integer: %q", args[1])
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	pair, err := address.Normalize(cfg.Pair)
	if err != nil {
		return fmt.Errorf("pair: %w", err)
	}
	fixedToken, err := address.Normalize(cfg.FixedToken)
	if err != nil {
		return fmt.Errorf("fixed token: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	reader := dex.NewContractReader(chainClient, logger)
	retry := func(fn func(context.Context) error) error {
		return chain.WithRetry(ctx, cfg.MaxRetries, cfg.RetryBackoff, fn)
	}

	var token0, token1 common.Address
	if err := retry(func(ctx context.Context) error {
		var err error
		if token0, err = reader.Token0(ctx, pair); err != nil {
			return err
		}
		token1, err = reader.Token1(ctx, pair)
		return err
	}); err != nil {
		return fmt.Errorf("read pair tokens: %w", err)
	}

	var otherToken common.Address
	switch fixedToken {
	case token0:
		otherToken = token1
	case token1:
		otherToken = token0
	default:
		return fmt.Errorf("%w: fixed token %s, pair %s", dex.ErrTokenNotInPair, fixedToken.Hex(), pair.Hex())
	}

	var fixedMeta, otherMeta model.TokenRef
	var reserveFixed, reserveOther *big.Int
	if err := retry(func(ctx context.Context) error {
		var err error
		if fixedMeta, err = reader.TokenMeta(ctx, fixedToken); err != nil {
			return err
		}
		if otherMeta, err = reader.TokenMeta(ctx, otherToken); err != nil {
			return err
		}
		reserveFixed, reserveOther, err = reader.OrientedReserves(ctx, pair, fixedToken)
		return err
	}); err != nil {
		return fmt.Errorf("read pool state: %w", err)
	}

	q, err := dex.BuildLiquidityQuote(fixedMeta, otherMeta, cfg.Amount, reserveFixed, reserveOther, slippage, dex.Deadline(time.Now(), minutes))
	if err != nil {
		return err
	}

	logger.Info("quote computed",
		zap.String("pair", pair.Hex()),
		zap.String("fixed", fixedMeta.Symbol),
		zap.String("other", otherMeta.Symbol),
		zap.String("reserve_fixed", reserveFixed.String()),
		zap.String("reserve_other", reserveOther.String()),
	)

	out := cmd.OutOrStdout()
	if err := renderQuote(out, q); err != nil {
		return err
	}

	if cfg.Spender == "" {
		return nil
	}
	owner, err := address.Normalize(cfg.Owner)
	if err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	spender, err := address.Normalize(cfg.Spender)
	if err != nil {
		return fmt.Errorf("spender: %w", err)
	}

	allowances := allowanceReader{contracts: reader}
	if len(cfg.MirrorURLs) > 0 {
		allowances.tokenService = mirror.NewBalanceReader(mirror.NewClient(mirror.Opts{
			Endpoints: cfg.MirrorURLs,
			Timeout:   cfg.MirrorTimeout,
		}))
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\n== Allowances for %s\n", spender.Hex())
	for _, side := range []struct {
		token  common.Address
		meta   model.TokenRef
		needed *big.Int
	}{
		{fixedToken, q.Fixed, q.FixedDesired},
		{otherToken, q.Other, q.OtherDesired},
	} {
		var allowance *big.Int
		err := retry(func(ctx context.Context) error {
			var err error
			allowance, err = allowances.Allowance(ctx, side.token, owner, spender)
			return err
		})
		if err != nil {
			logger.Warn("allowance read failed", zap.String("token", side.token.Hex()), zap.Error(err))
			fmt.Fprintf(tw, "  WARN\t%s\tallowance unavailable\t%v\n", side.meta.Symbol, err)
			continue
		}
		status := "ok"
		if allowance.Cmp(side.needed) < 0 {
			status = "approval required"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", side.meta.Symbol, dex.FormatUnits(allowance, side.meta.Decimals), status)
	}
	return tw.Flush()
}

func renderQuote(w io.Writer, q dex.LiquidityQuote) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "== Add liquidity\n")
	fmt.Fprintf(tw, "  %s\t%s\tmin %s\n", q.Fixed.Symbol, q.FixedAmount, dex.FormatUnits(q.FixedMin, q.Fixed.Decimals))
	fmt.Fprintf(tw, "  %s\t%s\tmin %s\n", q.Other.Symbol, q.OtherAmount, dex.FormatUnits(q.OtherMin, q.Other.Decimals))
	fmt.Fprintf(tw, "  slippage\t%s%%\n", q.Slippage.String())
	fmt.Fprintf(tw, "  deadline\t%d\t%s\n", q.Deadline, time.Unix(q.Deadline, 0).UTC().Format(time.RFC3339))
	return tw.Flush()
}

// allowanceReader reads token-service allowances from the REST query
// service and everything else from the token contract.
type allowanceReader struct {
	contracts    *dex.ContractReader
	tokenService *mirror.BalanceReader
}

func (r allowanceReader) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	if r.tokenService != nil && address.IsTokenServiceAddress(token.Hex()) {
		return r.tokenService.Allowance(ctx, token, owner, spender)
	}
	return r.contracts.Allowance(ctx, token, owner, spender)
}
