package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/wavescope/internal/multitf"
	"github.com/Alias1177/wavescope/internal/report"
	"github.com/Alias1177/wavescope/models"
)

type mtfOutput struct {
	Pair        string                       `json:"pair"`
	Timeframes  []multitf.TimeframeMovements `json:"timeframes"`
	Convergence []models.TimeframeSignal     `json:"convergence"`
}

func newMTFCmd(a *app) *cobra.Command {
	var (
		symbol   string
		days     int
		resample string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "mtf [SYMBOL]",
		Short: "Find pip-interval movements on every configured timeframe and their convergence",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				symbol = args[0]
			}
			symbol = normalizeSymbol(symbol)
			if symbol == "" {
				symbol = a.defaultSymbol()
			}

			src, err := a.source()
			if err != nil {
				return err
			}
			tfs := a.cfg.Timeframes()
			data, err := fetchTimeframes(cmd.Context(), src, symbol, tfs, days, resample)
			if err != nil {
				return err
			}

			p := a.cfg.AnalysisSettings.PipIntervals
			corr := multitf.NewCorrelator(symbol, p.MinPips, p.MaxPips, tfs)
			results, err := corr.AnalyzeAll(cmd.Context(), data)
			if err != nil {
				return err
			}
			signals := corr.Convergence(results)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(mtfOutput{Pair: symbol, Timeframes: results, Convergence: signals})
			}
			for _, r := range results {
				fmt.Fprintf(out, "%s %s: %d movements (%.0f-%.0f pips)\n", symbol, r.Timeframe, len(r.Movements), corr.MinPips, corr.MaxPips)
				report.PipMovements(out, r.Movements[max(0, len(r.Movements)-5):])
			}
			report.TimeframeSignals(out, signals[max(0, len(signals)-report.Limit):])
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "Currency pair")
	cmd.Flags().IntVar(&days, "days", 10, "History depth in days per timeframe")
	cmd.Flags().StringVar(&resample, "resample-from", "", "Fetch only this base timeframe and aggregate the others from it")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

// fetchTimeframes loads days of history for every timeframe. With a base
// timeframe set, one fetch is aggregated into all of them instead.
func fetchTimeframes(ctx context.Context, src models.CandleSource, symbol string, tfs []models.Timeframe, days int, base string) (map[models.Timeframe][]models.Candle, error) {
	data := make(map[models.Timeframe][]models.Candle, len(tfs))

	if base != "" {
		baseTF, err := models.ParseTimeframe(base)
		if err != nil {
			return nil, err
		}
		candles, err := src.FetchCandles(ctx, symbol, baseTF, models.CandlesForDays(baseTF, days))
		if err != nil {
			return nil, fmt.Errorf("fetch %s %s: %w", symbol, baseTF, err)
		}
		for _, tf := range tfs {
			data[tf] = multitf.Resample(candles, baseTF, tf)
			log.Debug().Str("timeframe", tf.String()).Int("bars", len(data[tf])).Msg("Resampled")
		}
		return data, nil
	}

	for _, tf := range tfs {
		candles, err := src.FetchCandles(ctx, symbol, tf, models.CandlesForDays(tf, days))
		if err != nil {
			return nil, fmt.Errorf("fetch %s %s: %w", symbol, tf, err)
		}
		data[tf] = candles
	}
	return data, nil
}
