package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/plcheng/screener/internal/contracts"
	"github.com/plcheng/screener/pkg/config"
	"github.com/plcheng/screener/pkg/logger"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run a one-shot screening from the command line",
	Long: `Runs a single screening pass without starting the API server.

Weights take the form FACTOR=WEIGHT:DIRECTION where DIRECTION is
"higher" or "lower" (whether a higher raw value is better).

Factors: roic, rd_to_sales, net_debt_to_ebitda, ev_to_fcf, revenue_cagr_3y

Example:
  go run ./cmd/screener screen --tickers AAPL,MSFT,GOOG \
    --weight roic=2:higher --weight ev_to_fcf=1:lower`,
	RunE: runScreen,
}

var (
	screenTickers []string
	screenWeights []string
)

func init() {
	rootCmd.AddCommand(screenCmd)

	// Flags
	screenCmd.Flags().StringSliceVar(&screenTickers, "tickers", nil, "comma-separated ticker symbols")
	screenCmd.Flags().StringArrayVar(&screenWeights, "weight", nil, "factor weight as FACTOR=WEIGHT:higher|lower (repeatable)")
	screenCmd.MarkFlagRequired("tickers")
	screenCmd.MarkFlagRequired("weight")
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	weights, err := parseWeightFlags(screenWeights)
	if err != nil {
		return err
	}

	svc := newScreener(cfg, log)
	if len(screenTickers) > svc.MaxTickers() {
		return fmt.Errorf("too many tickers: %d requested, maximum is %d", len(screenTickers), svc.MaxTickers())
	}

	start := time.Now()
	ranked, err := svc.Run(context.Background(), screenTickers, weights)
	if err != nil {
		return err
	}

	printRanking(ranked, weights)
	fmt.Printf("\nScreened %d tickers in %.1fs\n", len(screenTickers), time.Since(start).Seconds())
	return nil
}

// parseWeightFlags turns FACTOR=WEIGHT:DIRECTION flags into a weight
// configuration
func parseWeightFlags(flags []string) (contracts.WeightConfig, error) {
	weights := make(contracts.WeightConfig, len(flags))

	for _, flag := range flags {
		factor, spec, ok := strings.Cut(flag, "=")
		if !ok {
			return nil, fmt.Errorf("invalid weight %q (expected FACTOR=WEIGHT:higher|lower)", flag)
		}
		if !contracts.IsFactorName(factor) {
			return nil, fmt.Errorf("unknown factor %q (valid: %v)", factor, contracts.FactorNames())
		}

		value, direction, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, fmt.Errorf("invalid weight %q (expected FACTOR=WEIGHT:higher|lower)", flag)
		}

		weight, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight value %q: %w", value, err)
		}

		var higherIsBetter bool
		switch direction {
		case "higher":
			higherIsBetter = true
		case "lower":
			higherIsBetter = false
		default:
			return nil, fmt.Errorf("invalid direction %q (expected higher or lower)", direction)
		}

		weights[factor] = contracts.FactorWeight{Weight: weight, HigherIsBetter: higherIsBetter}
	}

	return weights, nil
}

// printRanking prints the ranked result as a fixed-width table
func printRanking(ranked []contracts.RankedRecord, weights contracts.WeightConfig) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Screening Result")
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  %-4s %-8s %-28s %10s\n", "#", "Ticker", "Name", "Score")

	for _, rec := range ranked {
		name := rec.Name
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		fmt.Printf("  %-4d %-8s %-28s %10.2f\n", rec.Position, rec.Ticker, name, rec.CompositeScore)

		for _, factor := range contracts.FactorNames() {
			if _, weighted := weights[factor]; !weighted {
				continue
			}
			metric, _ := rec.Factor(factor)
			if v, ok := metric.Float(); ok {
				fmt.Printf("       %-22s %12.4f  (rank %.1f)\n", factor, v, rec.FactorRanks[factor])
			} else {
				fmt.Printf("       %-22s %12s  (rank %.1f)\n", factor, "n/a", rec.FactorRanks[factor])
			}
		}
	}

	fmt.Println("═══════════════════════════════════════════════════════════")
}
