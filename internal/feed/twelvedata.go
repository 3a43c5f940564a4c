package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/Alias1177/wavescope/internal/platform/http"
	"github.com/Alias1177/wavescope/models"
)

const defaultBaseURL = "https://api.twelvedata.com"

var intervals = map[models.Timeframe]string{
	models.M1:  "1min",
	models.M5:  "5min",
	models.M15: "15min",
	models.M30: "30min",
	models.H1:  "1h",
	models.H4:  "4h",
	models.D1:  "1day",
	models.W1:  "1week",
	models.MN1: "1month",
}

// Client is the TwelveData API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new TwelveData client
type ClientOptions struct {
	APIKey          string
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new TwelveData API client
func NewClient(options ClientOptions) *Client {
	httpOpts := httpClient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetries:      options.MaxRetries,
		MaxRetryTimeout: options.MaxRetryTimeout,
	}
	if options.BaseURL == "" {
		options.BaseURL = defaultBaseURL
	}

	return &Client{
		apiKey:     options.APIKey,
		baseURL:    strings.TrimRight(options.BaseURL, "/"),
		httpClient: httpClient.NewClient(httpOpts),
		logger:     log.With().Str("component", "twelvedata_client").Logger(),
	}
}

type timeSeriesResponse struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
	} `json:"meta"`
	Values []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume,omitempty"`
	} `json:"values"`
	Status  string `json:"status"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// APISymbol turns "EURUSD" into the "EUR/USD" form the API expects.
func APISymbol(pair string) string {
	p := strings.ToUpper(strings.TrimSpace(pair))
	if len(p) == 6 && !strings.Contains(p, "/") {
		return p[:3] + "/" + p[3:]
	}
	return p
}

// FetchCandles fetches up to count most recent candles, oldest first.
func (c *Client) FetchCandles(ctx context.Context, symbol string, tf models.Timeframe, count int) ([]models.Candle, error) {
	interval, ok := intervals[tf]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownTimeframe, tf)
	}

	q := url.Values{}
	q.Set("symbol", APISymbol(symbol))
	q.Set("interval", interval)
	q.Set("outputsize", strconv.Itoa(count))
	q.Set("timezone", "UTC")
	q.Set("apikey", c.apiKey)
	endpoint := c.baseURL + "/time_series?" + q.Encode()

	c.logger.Debug().Str("symbol", symbol).Str("interval", interval).Int("count", count).Msg("Fetching candles")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var data timeSeriesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if data.Status == "error" {
		c.logger.Error().Int("code", data.Code).Str("message", data.Message).Msg("Twelve Data API error")
		return nil, fmt.Errorf("twelve data api error %d: %s", data.Code, data.Message)
	}
	if len(data.Values) == 0 {
		c.logger.Warn().Str("symbol", symbol).Msg("No candles in response")
		return nil, ErrNoData
	}

	candles := make([]models.Candle, 0, len(data.Values))
	for _, v := range data.Values {
		candle, err := parseValue(v.Datetime, v.Open, v.High, v.Low, v.Close, v.Volume)
		if err != nil {
			return nil, fmt.Errorf("parsing candle %s: %w", v.Datetime, err)
		}
		candles = append(candles, candle)
	}

	// Sort candles by datetime (oldest first for proper calculations)
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	c.logger.Debug().Int("count", len(candles)).Msg("Fetched candles")
	return candles, nil
}

func parseValue(datetime, open, high, low, closePrice, volume string) (models.Candle, error) {
	ts, err := parseTime(datetime)
	if err != nil {
		return models.Candle{}, err
	}

	var c models.Candle
	c.Timestamp = ts
	fields := []struct {
		dst *float64
		src string
	}{{&c.Open, open}, {&c.High, high}, {&c.Low, low}, {&c.Close, closePrice}}
	for _, f := range fields {
		v, err := strconv.ParseFloat(f.src, 64)
		if err != nil {
			return models.Candle{}, err
		}
		*f.dst = v
	}
	if volume != "" {
		if v, err := strconv.ParseInt(volume, 10, 64); err == nil {
			c.Volume = v
		}
	}
	return c, nil
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
