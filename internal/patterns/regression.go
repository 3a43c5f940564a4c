package patterns

import "github.com/Alias1177/wavescope/models"

// linearFit is an ordinary least-squares line y = slope*x + intercept.
// r2 is 0 when y has no variance.
func linearFit(xs, ys []float64) (slope, intercept, r2 float64) {
	n := float64(len(xs))
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, 0, 0
	}

	var sx, sy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
	}
	mx, my := sx/n, sy/n

	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 {
		return 0, my, 0
	}
	slope = sxy / sxx
	intercept = my - slope*mx
	if syy > 0 {
		r2 = (sxy * sxy) / (sxx * syy)
	}
	return slope, intercept, r2
}

func pivotSlope(points []models.PivotPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Index)
		ys[i] = p.Value
	}
	s, _, _ := linearFit(xs, ys)
	return s
}
