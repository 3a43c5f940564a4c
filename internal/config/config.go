package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/Alias1177/wavescope/internal/multitf"
	"github.com/Alias1177/wavescope/models"
)

const (
	DefaultBars         = 200
	DefaultPivotWindow  = 5
	DefaultPollInterval = 300 // seconds
	DefaultTimeout      = 30  // seconds
)

// PipIntervals bounds the close-to-close moves the correlator records.
type PipIntervals struct {
	MinPips float64 `json:"min_pips" yaml:"min_pips"`
	MaxPips float64 `json:"max_pips" yaml:"max_pips"`
}

type AnalysisSettings struct {
	PipIntervals PipIntervals `json:"pip_intervals" yaml:"pip_intervals"`
	Timeframes   []string     `json:"timeframes" yaml:"timeframes"`
}

type DataSource struct {
	Provider string `json:"provider" yaml:"provider"`
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	CSVDir   string `json:"csv_dir,omitempty" yaml:"csv_dir,omitempty"`
	Seed     int64  `json:"seed" yaml:"seed"`
}

// Config holds all application configuration
type Config struct {
	MajorPairs       []string         `json:"major_pairs" yaml:"major_pairs"`
	AnalysisSettings AnalysisSettings `json:"analysis_settings" yaml:"analysis_settings"`
	PivotWindow      int              `json:"pivot_window,omitempty" yaml:"pivot_window,omitempty"`
	Bars             int              `json:"bars,omitempty" yaml:"bars,omitempty"`
	PollInterval     int              `json:"poll_interval_seconds,omitempty" yaml:"poll_interval_seconds,omitempty"`
	RequestTimeout   int              `json:"request_timeout_seconds,omitempty" yaml:"request_timeout_seconds,omitempty"`
	DataSource       DataSource       `json:"data_source" yaml:"data_source"`
	ChartDir         string           `json:"chart_dir,omitempty" yaml:"chart_dir,omitempty"`
	LogLevel         string           `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file is available.
func Default() *Config {
	return &Config{
		MajorPairs: []string{"EURUSD", "GBPUSD", "USDJPY"},
		AnalysisSettings: AnalysisSettings{
			PipIntervals: PipIntervals{MinPips: multitf.DefaultMinPips, MaxPips: multitf.DefaultMaxPips},
			Timeframes:   []string{"M15", "H1", "H4"},
		},
		PivotWindow:    DefaultPivotWindow,
		Bars:           DefaultBars,
		PollInterval:   DefaultPollInterval,
		RequestTimeout: DefaultTimeout,
		DataSource:     DataSource{Provider: "synthetic", CSVDir: "data"},
		ChartDir:       "charts",
		LogLevel:       "info",
	}
}

// Load reads path (JSON or YAML by extension) and applies environment
// overrides. A missing or broken file falls back to defaults with a warning.
func Load(path string) *Config {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := Default()
	if path != "" {
		fileCfg, err := ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Could not load config, using defaults")
		} else {
			cfg = fileCfg
		}
	}

	cfg.applyEnv()
	cfg.Validate()
	return cfg
}

// ReadFile decodes a config file over the defaults, so absent keys keep
// their default values.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TWELVE_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	c.DataSource.Provider = getEnvWithDefault("DATA_PROVIDER", c.DataSource.Provider)
	c.LogLevel = getEnvWithDefault("LOG_LEVEL", c.LogLevel)
	c.Bars = getEnvIntWithDefault("BARS", c.Bars)
	c.PollInterval = getEnvIntWithDefault("POLL_INTERVAL", c.PollInterval)
	c.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", c.RequestTimeout)
}

// Validate repairs values the analysis cannot work with and logs each fix.
func (c *Config) Validate() {
	d := Default()

	if len(c.MajorPairs) == 0 {
		c.MajorPairs = d.MajorPairs
	}
	p := &c.AnalysisSettings.PipIntervals
	if p.MinPips <= 0 || p.MaxPips < p.MinPips {
		log.Warn().Float64("min_pips", p.MinPips).Float64("max_pips", p.MaxPips).Msg("Invalid pip interval, using defaults")
		*p = d.AnalysisSettings.PipIntervals
	}

	var tfs []string
	for _, s := range c.AnalysisSettings.Timeframes {
		tf, err := models.ParseTimeframe(s)
		if err != nil {
			log.Warn().Str("timeframe", s).Msg("Skipping unknown timeframe")
			continue
		}
		tfs = append(tfs, tf.String())
	}
	if len(tfs) == 0 {
		tfs = d.AnalysisSettings.Timeframes
	}
	c.AnalysisSettings.Timeframes = tfs

	if c.PivotWindow < 1 {
		c.PivotWindow = d.PivotWindow
	}
	if c.Bars < 1 {
		c.Bars = d.Bars
	}
	if c.PollInterval < 1 {
		c.PollInterval = d.PollInterval
	}
	if c.RequestTimeout < 1 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = d.DataSource.Provider
	}
}

// Timeframes returns the parsed analysis timeframes. Validate has already
// dropped unknown codes.
func (c *Config) Timeframes() []models.Timeframe {
	out := make([]models.Timeframe, 0, len(c.AnalysisSettings.Timeframes))
	for _, s := range c.AnalysisSettings.Timeframes {
		if tf, err := models.ParseTimeframe(s); err == nil {
			out = append(out, tf)
		}
	}
	return out
}

func (c *Config) Poll() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer in environment, ignoring")
	}
	return defaultValue
}
