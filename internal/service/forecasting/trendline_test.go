package forecasting

import (
	"math"
	"testing"
	"time"

	"SalesPulse/internal/domain/models"

	"github.com/stretchr/testify/require"
)

func makeSeries(n int, f func(i int) float64) []models.HistoricalPoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]models.HistoricalPoint, n)
	for i := 0; i < n; i++ {
		series[i] = models.HistoricalPoint{
			Date:  start.AddDate(0, 0, i),
			Value: f(i),
		}
	}
	return series
}

func requireBounds(t *testing.T, points []PredictionPoint) {
	t.Helper()
	for i, p := range points {
		require.False(t, math.IsNaN(p.Value), "point %d value is NaN", i)
		require.GreaterOrEqual(t, p.Lower, 0.0, "point %d lower below zero", i)
		require.LessOrEqual(t, p.Lower, p.Value, "point %d lower above value", i)
		require.GreaterOrEqual(t, p.Upper, p.Value, "point %d upper below value", i)
	}
}

func TestTrendEstimatorLine(t *testing.T) {
	// Exact line: y = 10 + 2i. The extrapolation must follow it.
	series := makeSeries(5, func(i int) float64 { return 10 + 2*float64(i) })

	m := NewTrendEstimator()
	pred, err := m.FitPredict(series, 3)
	require.NoError(t, err)
	require.Len(t, pred.Points, 3)

	for i, p := range pred.Points {
		want := 10 + 2*float64(5+i)
		require.InDelta(t, want, p.Value, 1e-9)
	}
	requireBounds(t, pred.Points)
	require.Empty(t, pred.Seasonality)
}

func TestTrendEstimatorSinglePoint(t *testing.T) {
	series := makeSeries(1, func(int) float64 { return 42 })

	pred, err := NewTrendEstimator().FitPredict(series, 4)
	require.NoError(t, err)
	require.Len(t, pred.Points, 4)
	for _, p := range pred.Points {
		require.InDelta(t, 42.0, p.Value, 1e-9)
	}
}

func TestTrendEstimatorClampsNegative(t *testing.T) {
	// Steep downward line goes negative within the horizon.
	series := makeSeries(10, func(i int) float64 { return 50 - 10*float64(i) })

	pred, err := NewTrendEstimator().FitPredict(series, 10)
	require.NoError(t, err)
	for _, p := range pred.Points {
		require.GreaterOrEqual(t, p.Value, 0.0)
	}
	requireBounds(t, pred.Points)
}

func TestTrendEstimatorEmptySeries(t *testing.T) {
	_, err := NewTrendEstimator().FitPredict(nil, 5)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestTrendEstimatorDates(t *testing.T) {
	series := makeSeries(3, func(i int) float64 { return float64(i) + 1 })

	pred, err := NewTrendEstimator().FitPredict(series, 2)
	require.NoError(t, err)

	last := series[2].Date
	require.Equal(t, last.AddDate(0, 0, 1), pred.Points[0].Date)
	require.Equal(t, last.AddDate(0, 0, 2), pred.Points[1].Date)
}
