package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/wavescope/internal/feed"
	"github.com/Alias1177/wavescope/models"
)

// newGenerateCmd writes seeded synthetic bars as CSV files the csv source can read back.
func newGenerateCmd(a *app) *cobra.Command {
	var (
		outDir     string
		symbols    []string
		timeframes []string
		bars       int
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic bar tables as CSV files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(symbols) == 0 {
				symbols = a.cfg.MajorPairs
			}
			if len(timeframes) == 0 {
				timeframes = a.cfg.AnalysisSettings.Timeframes
			}
			if outDir == "" {
				outDir = a.cfg.DataSource.CSVDir
			}
			if bars <= 0 {
				bars = a.cfg.Bars
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.DataSource.Seed
			}

			gen := feed.NewSynthetic(seed)
			dir := feed.NewCSVDir(outDir)
			for _, s := range symbols {
				symbol := normalizeSymbol(s)
				for _, t := range timeframes {
					tf, err := models.ParseTimeframe(t)
					if err != nil {
						return err
					}
					candles, err := gen.FetchCandles(cmd.Context(), symbol, tf, bars)
					if err != nil {
						return fmt.Errorf("generate %s %s: %w", symbol, tf, err)
					}
					path := dir.Path(symbol, tf)
					if err := feed.WriteCSVFile(path, candles); err != nil {
						return err
					}
					log.Info().Str("path", path).Int("bars", len(candles)).Msg("Wrote synthetic bars")
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (defaults to data_source.csv_dir)")
	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "Pairs to generate")
	cmd.Flags().StringSliceVar(&timeframes, "timeframes", nil, "Timeframes to generate")
	cmd.Flags().IntVarP(&bars, "bars", "n", 0, "Bars per file")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Generator seed")

	return cmd
}
