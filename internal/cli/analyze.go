package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/wavescope/internal/analyze"
	"github.com/Alias1177/wavescope/internal/report"
	"github.com/Alias1177/wavescope/models"
)

type analyzeFlags struct {
	symbol    string
	timeframe string
	bars      int
	chart     bool
	json      bool
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze [SYMBOL]",
		Short: "Run a single full analysis for one pair",
		Long: `Fetch bars for one pair and timeframe, then report Elliott waves, trends,
chart patterns, divergences, convergences and pip movements.
Example: wavescope analyze EURUSD --timeframe H4 --bars 500 --chart`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				f.symbol = args[0]
			}
			return a.runAnalyze(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.symbol, "symbol", "s", "", "Currency pair (defaults to the first configured pair)")
	cmd.Flags().StringVarP(&f.timeframe, "timeframe", "t", "H1", "Timeframe: M1 M5 M15 M30 H1 H4 D1 W1 MN1")
	cmd.Flags().IntVarP(&f.bars, "bars", "n", 0, "Number of bars (defaults to config)")
	cmd.Flags().BoolVar(&f.chart, "chart", false, "Write an HTML chart to the chart directory")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the result as JSON")

	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, f analyzeFlags) error {
	tf, err := models.ParseTimeframe(f.timeframe)
	if err != nil {
		return err
	}
	symbol := normalizeSymbol(f.symbol)
	if symbol == "" {
		symbol = a.defaultSymbol()
	}
	bars := f.bars
	if bars <= 0 {
		bars = a.cfg.Bars
	}

	src, err := a.source()
	if err != nil {
		return err
	}
	candles, err := src.FetchCandles(cmd.Context(), symbol, tf, bars)
	if err != nil {
		return fmt.Errorf("fetch %s %s: %w", symbol, tf, err)
	}
	log.Info().Str("symbol", symbol).Str("timeframe", tf.String()).Int("bars", len(candles)).Msg("Analyzing")

	res := analyze.Run(candles, a.analysisOptions(symbol, tf))
	out := cmd.OutOrStdout()

	if f.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else {
		report.Render(out, res)
	}

	if f.chart {
		path, err := report.WriteChartFile(a.cfg.ChartDir, res)
		if err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("Chart written")
	}
	return nil
}
