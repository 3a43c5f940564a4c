// Package waves labels Elliott impulse and corrective legs over an
// alternating pivot sequence.
package waves

import (
	"sort"

	"github.com/Alias1177/wavescope/internal/indicators"
	"github.com/Alias1177/wavescope/models"
)

var (
	upImpulse   = []models.PivotKind{models.PivotLow, models.PivotHigh, models.PivotLow, models.PivotHigh, models.PivotLow}
	downImpulse = []models.PivotKind{models.PivotHigh, models.PivotLow, models.PivotHigh, models.PivotLow, models.PivotHigh}
	zigzagUp    = []models.PivotKind{models.PivotLow, models.PivotHigh, models.PivotLow}
	zigzagDown  = []models.PivotKind{models.PivotHigh, models.PivotLow, models.PivotHigh}
)

var impulseLabels = []string{"1", "2", "3", "4"}
var correctiveLabels = []string{"A", "B"}

// Identify scans every 5-pivot window for an impulse and every 3-pivot window
// for a correction. Windows are independent, so overlapping counts are all
// returned. closes sets the degree scale and may be nil.
func Identify(pivots []models.PivotPoint, closes []float64) []models.Wave {
	std := indicators.StdDev(closes)

	var waves []models.Wave
	for i := 0; i+5 <= len(pivots); i++ {
		seq := pivots[i : i+5]
		if ValidImpulse(seq) {
			waves = append(waves, legs(seq, models.Impulse, impulseLabels, std)...)
		}
	}
	for i := 0; i+3 <= len(pivots); i++ {
		seq := pivots[i : i+3]
		if matchKinds(seq, zigzagUp) || matchKinds(seq, zigzagDown) {
			waves = append(waves, legs(seq, models.Correction, correctiveLabels, std)...)
		}
	}

	sort.SliceStable(waves, func(a, b int) bool { return waves[a].StartIndex < waves[b].StartIndex })
	linkParents(waves)
	return waves
}

// ValidImpulse applies the three hard rules to a 5-pivot window: wave 3 is not
// the shortest, wave 4 stays clear of wave 1 and wave 2 holds the origin.
func ValidImpulse(seq []models.PivotPoint) bool {
	if len(seq) != 5 {
		return false
	}
	up := matchKinds(seq, upImpulse)
	if !up && !matchKinds(seq, downImpulse) {
		return false
	}

	p := make([]float64, 5)
	for i, pt := range seq {
		p[i] = pt.Value
	}

	w1 := abs(p[1] - p[0])
	w3 := abs(p[3] - p[2])
	w5 := abs(p[4] - p[3])
	if w3 < w1 && w3 < w5 {
		return false
	}

	if up {
		return p[3] > p[1] && p[2] > p[0]
	}
	return p[3] < p[1] && p[2] < p[0]
}

func matchKinds(seq []models.PivotPoint, kinds []models.PivotKind) bool {
	if len(seq) != len(kinds) {
		return false
	}
	for i := range seq {
		if seq[i].Kind != kinds[i] {
			return false
		}
	}
	return true
}

func legs(seq []models.PivotPoint, typ models.WaveType, labels []string, std float64) []models.Wave {
	out := make([]models.Wave, 0, len(labels))
	for i, label := range labels {
		from, to := seq[i], seq[i+1]
		w := models.Wave{
			StartIndex: from.Index,
			EndIndex:   to.Index,
			StartPrice: from.Value,
			EndPrice:   to.Value,
			Type:       typ,
			Direction:  models.DirectionOf(from.Value, to.Value),
			Label:      label,
			Parent:     -1,
		}
		w.Degree = DegreeOf(w.Length(), std)
		if i > 0 {
			if prev := abs(seq[i].Value - seq[i-1].Value); prev > 0 {
				w.FibonacciRatio = models.Float(w.Length() / prev)
			}
		}
		out = append(out, w)
	}
	return out
}

// DegreeOf buckets a leg by its size in standard deviations of the close.
func DegreeOf(length, std float64) models.WaveDegree {
	if std <= 0 {
		return models.Minuette
	}
	ratio := length / std
	switch {
	case ratio > 5:
		return models.Primary
	case ratio > 3:
		return models.Intermediate
	case ratio > 2:
		return models.Minor
	case ratio > 1:
		return models.Minute
	}
	return models.Minuette
}

// linkParents points each wave at the tightest enclosing wave of a strictly
// higher degree.
func linkParents(waves []models.Wave) {
	for i := range waves {
		best := -1
		for j := range waves {
			if i == j || waves[j].Degree <= waves[i].Degree {
				continue
			}
			if waves[j].StartIndex > waves[i].StartIndex || waves[j].EndIndex < waves[i].EndIndex {
				continue
			}
			if best < 0 || waves[j].Duration() < waves[best].Duration() {
				best = j
			}
		}
		waves[i].Parent = best
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
