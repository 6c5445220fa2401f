package forecasting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecompositionModelTooFewPoints(t *testing.T) {
	series := makeSeries(9, func(i int) float64 { return float64(i) })

	_, err := NewDecompositionModel().FitPredict(series, 30)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestDecompositionModelWeeklyWave(t *testing.T) {
	// Linear trend plus weekly wave, 400 points.
	series := makeSeries(400, func(i int) float64 {
		return 100 + 10*math.Sin(2*math.Pi*float64(i)/7) + 0.5*float64(i)
	})

	pred, err := NewDecompositionModel().FitPredict(series, 90)
	require.NoError(t, err)
	require.Len(t, pred.Points, 90)
	requireBounds(t, pred.Points)

	require.Greater(t, pred.Seasonality["seasonal_strength"], 0.0)

	// The trend is upward, so the far forecast should exceed the last
	// observed value region.
	require.Greater(t, pred.Points[89].Value, series[399].Value)
}

func TestDecompositionModelTrendOnly(t *testing.T) {
	// 12 points selects no seasonal period; the model degrades to
	// double exponential smoothing and must still forecast.
	series := makeSeries(12, func(i int) float64 { return 10 + float64(i) })

	pred, err := NewDecompositionModel().FitPredict(series, 5)
	require.NoError(t, err)
	require.Len(t, pred.Points, 5)
	requireBounds(t, pred.Points)
	require.Equal(t, 0.0, pred.Seasonality["seasonal_strength"])
}

func TestDecompositionModelDeterministic(t *testing.T) {
	series := makeSeries(120, func(i int) float64 {
		return 50 + 5*math.Sin(2*math.Pi*float64(i)/7) + 0.2*float64(i)
	})

	m := NewDecompositionModel()
	a, err := m.FitPredict(series, 30)
	require.NoError(t, err)
	b, err := m.FitPredict(series, 30)
	require.NoError(t, err)

	for i := range a.Points {
		require.Equal(t, a.Points[i].Value, b.Points[i].Value)
	}
}

func TestSeasonalPeriodLadder(t *testing.T) {
	cases := []struct {
		n, want int
	}{
		{5, 1},
		{13, 1},
		{14, 7},
		{59, 7},
		{60, 30},
		{729, 30},
		{730, 365},
		{1200, 365},
	}
	for _, c := range cases {
		require.Equal(t, c.want, seasonalPeriod(c.n), "n=%d", c.n)
	}
}
