package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"farmScope/internal/dex"
)

// lpDecimals is the precision of pair liquidity tokens.
const lpDecimals = 18

// RenderStructure writes the pool/farm matching sections.
func RenderStructure(w io.Writer, s Structure) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "== Pools with farms (%d)\n", len(s.PerPool))
	for _, entry := range s.PerPool {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", entry.Pool.Label(), entry.Pool.PairAddress, strings.Join(entry.Farms, ", "))
	}

	fmt.Fprintf(tw, "\n== Pools without farms (%d)\n", len(s.UnmatchedPools))
	for _, pool := range s.UnmatchedPools {
		fmt.Fprintf(tw, "  WARN\t%s\t%s\tno staking venue\n", pool.Label(), pool.PairAddress)
	}

	fmt.Fprintf(tw, "\n== Farms without pools (%d)\n", len(s.UnmatchedFarms))
	for _, farm := range s.UnmatchedFarms {
		fmt.Fprintf(tw, "  WARN\t%s\tstaking=%s\tpool=%s\n", farm.Address, orDash(farm.StakingTokenAddress), orDash(farm.PoolPairAddress()))
	}

	fmt.Fprintf(tw, "\n== Pools matched by several farms (%d)\n", len(s.MultiMatchPools))
	for _, entry := range s.MultiMatchPools {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", entry.Pool.Label(), entry.Pool.PairAddress, strings.Join(entry.Farms, ", "))
	}

	fmt.Fprintf(tw, "\n== Farms matching several pools (%d)\n", len(s.MultiMatchFarms))
	for _, entry := range s.MultiMatchFarms {
		fmt.Fprintf(tw, "  %s\t%s\n", entry.Farm.Address, strings.Join(entry.Pools, ", "))
	}

	fmt.Fprintf(tw, "\n== Deprecated farms (%d)\n", len(s.DeprecatedFarms))
	for _, farm := range s.DeprecatedFarms {
		fmt.Fprintf(tw, "  %s\tstaking=%s\n", farm.Address, orDash(farm.StakingTokenAddress))
	}

	return tw.Flush()
}

// Render writes the full report as text.
func Render(w io.Writer, r Report) error {
	if err := RenderStructure(w, r.Structure); err != nil {
		return err
	}
	return RenderPositions(w, r)
}

// RenderPositions writes the balance half of the report and the summary.
func RenderPositions(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n== Positions (%d)\n", len(r.PerUser))
	for _, pos := range r.PerUser {
		flag := ""
		if pos.Degraded() {
			flag = "\tWARN partial"
		}
		fmt.Fprintf(tw, "  %s\t%s\tunstaked=%s\tstaked=%s\ttotal=%s%s\n",
			pos.User,
			pos.PoolLabel,
			dex.FormatUnits(pos.Unstaked, lpDecimals),
			dex.FormatUnits(pos.Staked, lpDecimals),
			dex.FormatUnits(pos.Total, lpDecimals),
			flag,
		)
		for _, farm := range pos.ContributingFarms {
			fmt.Fprintf(tw, "  \t  farm %s\t%s\n", farm, dex.FormatUnits(pos.StakedByFarm[farm], lpDecimals))
		}
	}

	fmt.Fprintf(tw, "\n== Failed queries (%d)\n", len(r.Failures))
	for _, f := range r.Failures {
		fmt.Fprintf(tw, "  WARN\t%s\tpool=%s\tfarm=%s\tuser=%s\t%s\n", f.Source, f.Pool, orDash(f.Farm), f.User, f.Error)
	}

	s := r.Summary
	fmt.Fprintf(tw, "\n== Summary\n")
	fmt.Fprintf(tw, "  pools\t%d\n", s.Pools)
	fmt.Fprintf(tw, "  farms\t%d\n", s.Farms)
	fmt.Fprintf(tw, "  users\t%d\n", s.Users)
	fmt.Fprintf(tw, "  unmatched pools\t%d\n", len(r.UnmatchedPools))
	fmt.Fprintf(tw, "  unmatched farms\t%d\n", len(r.UnmatchedFarms))
	fmt.Fprintf(tw, "  position found\t%d\n", s.PositionsFound)
	fmt.Fprintf(tw, "  no position\t%d\n", s.NoPosition)
	fmt.Fprintf(tw, "  query failed\t%d\n", s.QueryFailed)

	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
