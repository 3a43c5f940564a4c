package models

import "fmt"

// PivotKind tells a swing high from a swing low.
type PivotKind int

const (
	PivotHigh PivotKind = iota
	PivotLow
)

func (k PivotKind) String() string {
	switch k {
	case PivotHigh:
		return "high"
	case PivotLow:
		return "low"
	}
	return fmt.Sprintf("PivotKind(%d)", int(k))
}

func (k PivotKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Direction of a leg or movement.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// DirectionOf returns Up when to is above from.
func DirectionOf(from, to float64) Direction {
	if to > from {
		return Up
	}
	return Down
}

// WaveType separates motive from corrective structure.
type WaveType int

const (
	Impulse WaveType = iota
	Correction
)

func (t WaveType) String() string {
	switch t {
	case Impulse:
		return "impulse"
	case Correction:
		return "correction"
	}
	return fmt.Sprintf("WaveType(%d)", int(t))
}

func (t WaveType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// WaveDegree is ordered from smallest to largest.
type WaveDegree int

const (
	Minuette WaveDegree = iota
	Minute
	Minor
	Intermediate
	Primary
)

func (d WaveDegree) String() string {
	switch d {
	case Minuette:
		return "Minuette"
	case Minute:
		return "Minute"
	case Minor:
		return "Minor"
	case Intermediate:
		return "Intermediate"
	case Primary:
		return "Primary"
	}
	return fmt.Sprintf("WaveDegree(%d)", int(d))
}

func (d WaveDegree) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// PatternType enumerates the recognised chart formations.
type PatternType int

const (
	HeadAndShoulders PatternType = iota
	InverseHeadAndShoulders
	DoubleTop
	DoubleBottom
	TriangleAscending
	TriangleDescending
	TriangleSymmetrical
	WedgeRising
	WedgeFalling
	FlagBull
	FlagBear
)

func (t PatternType) String() string {
	switch t {
	case HeadAndShoulders:
		return "head_and_shoulders"
	case InverseHeadAndShoulders:
		return "inverse_head_and_shoulders"
	case DoubleTop:
		return "double_top"
	case DoubleBottom:
		return "double_bottom"
	case TriangleAscending:
		return "triangle_ascending"
	case TriangleDescending:
		return "triangle_descending"
	case TriangleSymmetrical:
		return "triangle_symmetrical"
	case WedgeRising:
		return "wedge_rising"
	case WedgeFalling:
		return "wedge_falling"
	case FlagBull:
		return "flag_bull"
	case FlagBear:
		return "flag_bear"
	}
	return fmt.Sprintf("PatternType(%d)", int(t))
}

func (t PatternType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Bullish reports whether the formation implies an upside break.
func (t PatternType) Bullish() bool {
	switch t {
	case InverseHeadAndShoulders, DoubleBottom, TriangleAscending, WedgeFalling, FlagBull:
		return true
	case HeadAndShoulders, DoubleTop, TriangleDescending, TriangleSymmetrical, WedgeRising, FlagBear:
		return false
	}
	return false
}

// DivergenceType covers regular and hidden divergences in both directions.
type DivergenceType int

const (
	BullishRegular DivergenceType = iota
	BearishRegular
	BullishHidden
	BearishHidden
)

func (t DivergenceType) String() string {
	switch t {
	case BullishRegular:
		return "bullish_regular"
	case BearishRegular:
		return "bearish_regular"
	case BullishHidden:
		return "bullish_hidden"
	case BearishHidden:
		return "bearish_hidden"
	}
	return fmt.Sprintf("DivergenceType(%d)", int(t))
}

func (t DivergenceType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ConvergenceType names the rule that produced a Convergence.
type ConvergenceType int

const (
	MACDSignalCross ConvergenceType = iota
	MultiIndicator
)

func (t ConvergenceType) String() string {
	switch t {
	case MACDSignalCross:
		return "macd_signal"
	case MultiIndicator:
		return "multi_indicator"
	}
	return fmt.Sprintf("ConvergenceType(%d)", int(t))
}

func (t ConvergenceType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Signal is a trade direction hint.
type Signal int

const (
	Buy Signal = iota
	Sell
)

func (s Signal) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return fmt.Sprintf("Signal(%d)", int(s))
}

func (s Signal) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
