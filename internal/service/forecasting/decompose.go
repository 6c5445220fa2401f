package forecasting

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Decomposition holds the classical additive decomposition of a series.
type Decomposition struct {
	Trend    []float64
	Seasonal []float64
	Residual []float64
	Period   int
}

// Decompose splits a series into trend, seasonal, and residual components
// using a centered moving average and per-position seasonal means.
// Requires period >= 2 and at least two full cycles of data.
func Decompose(data []float64, period int) (*Decomposition, error) {
	n := len(data)
	if period < 2 {
		return nil, fitFailedf("decompose", "period must be at least 2")
	}
	if n < 2*period {
		return nil, insufficientf("decompose", 2*period, n)
	}

	d := &Decomposition{
		Trend:    centeredMovingAverage(data, period),
		Seasonal: make([]float64, n),
		Residual: make([]float64, n),
		Period:   period,
	}

	// Detrend, then average each seasonal position and center around 0.
	detrended := make([]float64, n)
	for i := range data {
		detrended[i] = data[i] - d.Trend[i]
	}

	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		pattern[i%period] += v
		counts[i%period]++
	}
	var patternMean float64
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
		patternMean += pattern[i]
	}
	patternMean /= float64(period)
	for i := range pattern {
		pattern[i] -= patternMean
	}

	for i := range data {
		d.Seasonal[i] = pattern[i%period]
		d.Residual[i] = data[i] - d.Trend[i] - d.Seasonal[i]
	}

	return d, nil
}

// SeasonalStrength computes std(seasonal component) / std(raw series)
// via classical decomposition. Any failure yields 0.0 rather than an
// error: strength is advisory, never load-bearing.
func SeasonalStrength(data []float64, period int) float64 {
	if period < 2 || len(data) < 2*period {
		return 0
	}
	d, err := Decompose(data, period)
	if err != nil {
		return 0
	}
	rawStd := stat.StdDev(data, nil)
	if rawStd == 0 || math.IsNaN(rawStd) {
		return 0
	}
	seasonalStd := stat.StdDev(d.Seasonal, nil)
	if math.IsNaN(seasonalStd) {
		return 0
	}
	return seasonalStd / rawStd
}

// centeredMovingAverage smooths the series with a window of the given
// size, shrinking the window near the edges.
func centeredMovingAverage(data []float64, window int) []float64 {
	n := len(data)
	if window%2 == 0 {
		window++
	}
	half := window / 2

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i - half
		if start < 0 {
			start = 0
		}
		end := i + half + 1
		if end > n {
			end = n
		}
		var sum float64
		for j := start; j < end; j++ {
			sum += data[j]
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
