// Package cli wires configuration, candle sources and the analysis packages
// into the wavescope command tree.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/wavescope/internal/analyze"
	"github.com/Alias1177/wavescope/internal/config"
	"github.com/Alias1177/wavescope/internal/feed"
	"github.com/Alias1177/wavescope/models"
)

const defaultConfigPath = "config/pairs.json"

var version = "dev"

// app is shared by every subcommand; cfg is filled in PersistentPreRunE.
type app struct {
	configPath string
	logLevel   string
	provider   string
	csvDir     string
	cfg        *config.Config
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "wavescope",
		Short:         "Forex structure recognition: Elliott waves, chart patterns, divergences",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// config.Load logs, so the flag level has to be in place before it
			setupLogging(a.logLevel)
			a.cfg = config.Load(a.configPath)
			if !cmd.Flags().Changed("log-level") {
				setupLogging(a.cfg.LogLevel)
			}
			if a.provider != "" {
				a.cfg.DataSource.Provider = a.provider
			}
			if a.csvDir != "" {
				a.cfg.DataSource.CSVDir = a.csvDir
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath, "Configuration file path (JSON or YAML)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.provider, "source", "", "Candle source: synthetic, csv or twelvedata")
	rootCmd.PersistentFlags().StringVar(&a.csvDir, "csv-dir", "", "Directory with <SYMBOL>_<TF>.csv files")

	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newMonitorCmd(a))
	rootCmd.AddCommand(newMTFCmd(a))
	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil || logLevel == "" {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}

func (a *app) source() (models.CandleSource, error) {
	ds := a.cfg.DataSource
	src, err := feed.New(feed.Options{
		Provider: ds.Provider,
		APIKey:   ds.APIKey,
		BaseURL:  ds.BaseURL,
		CSVDir:   ds.CSVDir,
		Seed:     ds.Seed,
		Twelve: feed.ClientOptions{
			RequestTimeout: a.cfg.Timeout(),
			RequestsPerSec: 5,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("candle source: %w", err)
	}
	log.Debug().Str("provider", ds.Provider).Msg("Candle source ready")
	return src, nil
}

func (a *app) analysisOptions(pair string, tf models.Timeframe) analyze.Options {
	p := a.cfg.AnalysisSettings.PipIntervals
	return analyze.Options{
		Pair:        pair,
		Timeframe:   tf,
		PivotWindow: a.cfg.PivotWindow,
		MinPips:     p.MinPips,
		MaxPips:     p.MaxPips,
	}
}

func (a *app) defaultSymbol() string {
	return a.cfg.MajorPairs[0]
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "/", ""))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wavescope %s\n", version)
		},
	}
}
