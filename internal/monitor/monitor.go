// Package monitor re-runs the full analysis for a set of symbols on a fixed
// interval.
package monitor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Alias1177/wavescope/internal/analyze"
	"github.com/Alias1177/wavescope/models"
)

const maxParallel = 4

// Settings configures a monitor.
type Settings struct {
	Symbols   []string
	Timeframe models.Timeframe
	Bars      int
	Interval  time.Duration
	Analysis  analyze.Options
}

// Cycle is the outcome of one pass over every symbol.
type Cycle struct {
	RunID   string
	Number  int64
	Started time.Time
	Results []*analyze.Result
	Failed  map[string]error
}

// Monitor polls a candle source and analyses each symbol.
type Monitor struct {
	source   models.CandleSource
	settings Settings
	logger   zerolog.Logger
	cycles   atomic.Int64

	// OnCycle, when set, receives every completed cycle.
	OnCycle func(Cycle)
}

func New(source models.CandleSource, s Settings) *Monitor {
	if s.Interval < time.Second {
		s.Interval = time.Second
	}
	if s.Timeframe == "" {
		s.Timeframe = models.H1
	}
	return &Monitor{
		source:   source,
		settings: s,
		logger:   log.With().Str("component", "monitor").Logger(),
	}
}

// RunOnce fetches and analyses every symbol concurrently. A symbol that fails
// is recorded in Cycle.Failed and does not stop the others.
func (m *Monitor) RunOnce(ctx context.Context) Cycle {
	cycle := Cycle{
		RunID:   uuid.NewString(),
		Number:  m.cycles.Add(1),
		Started: time.Now(),
		Results: make([]*analyze.Result, len(m.settings.Symbols)),
		Failed:  map[string]error{},
	}
	logger := m.logger.With().Str("run_id", cycle.RunID).Int64("cycle", cycle.Number).Logger()
	logger.Info().Strs("symbols", m.settings.Symbols).Str("timeframe", m.settings.Timeframe.String()).Msg("Analysis cycle started")

	errs := make([]error, len(m.settings.Symbols))
	var g errgroup.Group
	g.SetLimit(maxParallel)
	for i, symbol := range m.settings.Symbols {
		g.Go(func() error {
			res, err := m.analyzeSymbol(ctx, symbol)
			if err != nil {
				errs[i] = err
				return nil
			}
			cycle.Results[i] = res
			return nil
		})
	}
	g.Wait()

	results := cycle.Results[:0]
	for i, res := range cycle.Results {
		if errs[i] != nil {
			cycle.Failed[m.settings.Symbols[i]] = errs[i]
			logger.Error().Err(errs[i]).Str("symbol", m.settings.Symbols[i]).Msg("Error analyzing symbol")
			continue
		}
		results = append(results, res)
	}
	cycle.Results = results

	logger.Info().
		Int("analyzed", len(cycle.Results)).
		Int("failed", len(cycle.Failed)).
		Dur("took", time.Since(cycle.Started)).
		Msg("Analysis cycle finished")

	if m.OnCycle != nil {
		m.OnCycle(cycle)
	}
	return cycle
}

func (m *Monitor) analyzeSymbol(ctx context.Context, symbol string) (*analyze.Result, error) {
	candles, err := m.source.FetchCandles(ctx, symbol, m.settings.Timeframe, m.settings.Bars)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	opts := m.settings.Analysis
	opts.Pair = symbol
	opts.Timeframe = m.settings.Timeframe
	return analyze.Run(candles, opts), nil
}

// Start runs a cycle immediately, then every Interval until ctx is done.
// Overlapping ticks are skipped while a cycle is still running.
func (m *Monitor) Start(ctx context.Context) error {
	cl := cronLogger{m.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	schedule := fmt.Sprintf("@every %s", m.settings.Interval)
	if _, err := c.AddFunc(schedule, func() { m.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("register monitor job: %w", err)
	}

	m.logger.Info().Dur("interval", m.settings.Interval).Msg("Live monitoring started")
	m.RunOnce(ctx)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	m.logger.Info().Int64("cycles", m.cycles.Load()).Msg("Live monitoring stopped")
	return nil
}

// cronLogger routes cron's messages through zerolog.
type cronLogger struct {
	l zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
