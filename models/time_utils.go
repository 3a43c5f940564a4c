package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownTimeframe = errors.New("unknown timeframe")

// Timeframe is a bar period code such as "M15" or "H4".
type Timeframe string

const (
	M1  Timeframe = "M1"
	M5  Timeframe = "M5"
	M15 Timeframe = "M15"
	M30 Timeframe = "M30"
	H1  Timeframe = "H1"
	H4  Timeframe = "H4"
	D1  Timeframe = "D1"
	W1  Timeframe = "W1"
	MN1 Timeframe = "MN1"
)

var timeframeDurations = map[Timeframe]time.Duration{
	M1:  time.Minute,
	M5:  5 * time.Minute,
	M15: 15 * time.Minute,
	M30: 30 * time.Minute,
	H1:  time.Hour,
	H4:  4 * time.Hour,
	D1:  24 * time.Hour,
	W1:  7 * 24 * time.Hour,
	MN1: 30 * 24 * time.Hour,
}

// ParseTimeframe accepts the codes case-insensitively.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := timeframeDurations[tf]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTimeframe, s)
	}
	return tf, nil
}

// Duration returns the nominal bar length, 0 for unknown codes.
func (tf Timeframe) Duration() time.Duration {
	return timeframeDurations[tf]
}

func (tf Timeframe) String() string { return string(tf) }

// CandlesForDays estimates how many bars cover the given number of days,
// with a 10% buffer for gaps.
func CandlesForDays(tf Timeframe, days int) int {
	if days < 1 {
		days = 1
	}
	var candlesPerDay float64
	switch tf {
	case W1:
		// недельные свечи: примерно 1/7 свечи в день
		candlesPerDay = 1.0 / 7
	case MN1:
		candlesPerDay = 1.0 / 30
	default:
		d := tf.Duration()
		if d == 0 {
			return 0
		}
		candlesPerDay = float64(24*time.Hour) / float64(d)
	}

	n := int(candlesPerDay * float64(days) * 1.1)
	if n < 1 {
		n = 1
	}
	return n
}
