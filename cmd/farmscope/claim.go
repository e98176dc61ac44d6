package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"farmScope/internal/config"
	"farmScope/internal/dex"
)

func runClaim(cmd *cobra.Command, _ []string) error {
	totalFlag, _ := cmd.Flags().GetString("total")
	claimedFlag, _ := cmd.Flags().GetString("claimed")
	decimals, _ := cmd.Flags().GetUint8("decimals")
	startFlag, _ := cmd.Flags().GetString("vesting-start")
	endFlag, _ := cmd.Flags().GetString("vesting-end")

	total, err := dex.ParseUnits(totalFlag, decimals)
	if err != nil {
		return fmt.Errorf("total: %w", err)
	}
	claimed, err := dex.ParseUnits(claimedFlag, decimals)
	if err != nil {
		return fmt.Errorf("claimed: %w", err)
	}
	claimedPct, err := dex.ClaimedPercent(claimed, total)
	if err != nil {
		return err
	}

	start, err := config.ParseTimestamp(startFlag)
	if err != nil {
		return fmt.Errorf("vesting start: %w", err)
	}
	end, err := config.ParseTimestamp(endFlag)
	if err != nil {
		return fmt.Errorf("vesting end: %w", err)
	}

	vestedPct := dex.VestedPercent(start, end, time.Now())
	claimable := dex.ClaimableAmount(total, claimed, vestedPct)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "== Claimdrop\n")
	fmt.Fprintf(tw, "  allocation\t%s\n", dex.FormatUnits(total, decimals))
	fmt.Fprintf(tw, "  claimed\t%s\t%s%%\n", dex.FormatUnits(claimed, decimals), claimedPct.StringFixed(2))
	fmt.Fprintf(tw, "  vested\t%s%%\n", vestedPct.StringFixed(2))
	fmt.Fprintf(tw, "  claimable\t%s\n", dex.FormatUnits(claimable, decimals))
	return tw.Flush()
}
