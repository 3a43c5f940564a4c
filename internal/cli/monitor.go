package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/wavescope/internal/monitor"
	"github.com/Alias1177/wavescope/internal/report"
	"github.com/Alias1177/wavescope/models"
)

const maxMonitoredSymbols = 3

func newMonitorCmd(a *app) *cobra.Command {
	var (
		symbols   []string
		timeframe string
		interval  int
		bars      int
		chart     bool
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Re-run the analysis for several pairs on a fixed interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := models.ParseTimeframe(timeframe)
			if err != nil {
				return err
			}
			symbols = monitoredSymbols(symbols, a.cfg.MajorPairs)
			poll := a.cfg.Poll()
			if interval > 0 {
				poll = time.Duration(interval) * time.Second
			}
			if bars <= 0 {
				bars = a.cfg.Bars
			}

			src, err := a.source()
			if err != nil {
				return err
			}
			m := monitor.New(src, monitor.Settings{
				Symbols:   symbols,
				Timeframe: tf,
				Bars:      bars,
				Interval:  poll,
				Analysis:  a.analysisOptions("", tf),
			})

			out := cmd.OutOrStdout()
			m.OnCycle = func(c monitor.Cycle) {
				fmt.Fprintf(out, "\nAnalysis cycle #%d (%s) %s\n", c.Number, c.RunID, c.Started.Format("15:04:05"))
				for _, res := range c.Results {
					report.Render(out, res)
					if chart {
						if path, err := report.WriteChartFile(a.cfg.ChartDir, res); err != nil {
							log.Error().Err(err).Str("symbol", res.Pair).Msg("Failed to write chart")
						} else {
							log.Debug().Str("path", path).Msg("Chart written")
						}
					}
				}
				fmt.Fprintf(out, "Next update in %s\n", poll)
			}

			return m.Start(cmd.Context())
		},
	}

	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "Pairs to monitor (defaults to the first three configured)")
	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "H1", "Timeframe to analyze")
	cmd.Flags().IntVar(&interval, "interval", 0, "Update interval in seconds (defaults to config)")
	cmd.Flags().IntVarP(&bars, "bars", "n", 0, "Number of bars per cycle")
	cmd.Flags().BoolVar(&chart, "chart", false, "Rewrite the HTML chart after every cycle")

	return cmd
}

// monitoredSymbols normalizes the requested symbols into a fresh slice, falling
// back to the first configured major pairs. pairs is never written to.
func monitoredSymbols(requested, pairs []string) []string {
	if len(requested) == 0 {
		requested = pairs[:min(maxMonitoredSymbols, len(pairs))]
	}
	out := make([]string, len(requested))
	for i, s := range requested {
		out[i] = normalizeSymbol(s)
	}
	return out
}
