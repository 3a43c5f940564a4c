// Package feed supplies candle tables from Twelve Data, CSV files or a seeded
// generator.
package feed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Alias1177/wavescope/models"
)

var ErrNoData = errors.New("no candles")

const (
	ProviderSynthetic  = "synthetic"
	ProviderCSV        = "csv"
	ProviderTwelveData = "twelvedata"
)

// Options selects and configures a source.
type Options struct {
	Provider string
	APIKey   string
	BaseURL  string
	CSVDir   string
	Seed     int64
	Twelve   ClientOptions
}

// New returns the source named by opts.Provider.
func New(opts Options) (models.CandleSource, error) {
	switch strings.ToLower(opts.Provider) {
	case "", ProviderSynthetic:
		return NewSynthetic(opts.Seed), nil
	case ProviderCSV:
		return NewCSVDir(opts.CSVDir), nil
	case ProviderTwelveData:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("twelvedata provider needs an api key")
		}
		co := opts.Twelve
		co.APIKey = opts.APIKey
		if opts.BaseURL != "" {
			co.BaseURL = opts.BaseURL
		}
		return NewClient(co), nil
	}
	return nil, fmt.Errorf("unknown data provider %q", opts.Provider)
}
