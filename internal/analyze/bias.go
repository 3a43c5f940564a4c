package analyze

import (
	"fmt"

	"github.com/Alias1177/wavescope/internal/patterns"
	"github.com/Alias1177/wavescope/models"
)

// Bias is the overall lean of a run.
type Bias int

const (
	Neutral Bias = iota
	Bullish
	Bearish
)

func (b Bias) String() string {
	switch b {
	case Neutral:
		return "neutral"
	case Bullish:
		return "bullish"
	case Bearish:
		return "bearish"
	}
	return fmt.Sprintf("Bias(%d)", int(b))
}

func (b Bias) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

const (
	biasWaves  = 5 // последние волны, которые учитываются
	trendVotes = 2
	biasMargin = 2
)

// ComputeBias counts one vote per direction of the last five waves and two
// for the latest trend. One side must lead by more than two votes.
func ComputeBias(ws []models.Wave, trends []patterns.TrendMove) Bias {
	bullish, bearish := 0, 0

	from := max(0, len(ws)-biasWaves)
	for _, w := range ws[from:] {
		if w.Direction == models.Up {
			bullish++
		} else {
			bearish++
		}
	}

	if len(trends) > 0 {
		switch trends[len(trends)-1].Direction {
		case patterns.Uptrend:
			bullish += trendVotes
		case patterns.Downtrend:
			bearish += trendVotes
		}
	}

	switch {
	case bullish > bearish+biasMargin:
		return Bullish
	case bearish > bullish+biasMargin:
		return Bearish
	}
	return Neutral
}
