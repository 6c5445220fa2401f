package forecasting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeasonalRegressionTooFewPoints(t *testing.T) {
	series := makeSeries(5, func(i int) float64 { return float64(i) + 1 })

	_, err := NewSeasonalRegressionModel().FitPredict(series, 30)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestSeasonalRegressionWeeklyPattern(t *testing.T) {
	series := makeSeries(200, func(i int) float64 {
		return 100 + 15*math.Sin(2*math.Pi*float64(i)/7) + 0.3*float64(i)
	})

	pred, err := NewSeasonalRegressionModel().FitPredict(series, 90)
	require.NoError(t, err)
	require.Len(t, pred.Points, 90)
	requireBounds(t, pred.Points)

	// The weekly wave dominates the residual, so its strength must
	// register clearly.
	require.Greater(t, pred.Seasonality["weekly"], 0.01)

	// 200 points is short of a yearly cycle; no yearly component.
	_, ok := pred.Seasonality["yearly"]
	require.False(t, ok)
}

func TestSeasonalRegressionYearlyComponent(t *testing.T) {
	series := makeSeries(800, func(i int) float64 {
		return 500 +
			50*math.Sin(2*math.Pi*float64(i)/365.25) +
			10*math.Sin(2*math.Pi*float64(i)/7) +
			0.1*float64(i)
	})

	pred, err := NewSeasonalRegressionModel().FitPredict(series, 30)
	require.NoError(t, err)
	require.Greater(t, pred.Seasonality["yearly"], 0.0)
	require.Greater(t, pred.Seasonality["weekly"], 0.0)
	requireBounds(t, pred.Points)
}

func TestSeasonalRegressionAdditiveFallback(t *testing.T) {
	// A steep downward trend crosses zero inside the window, which
	// forces the additive seasonality mode. The fit must still succeed.
	series := makeSeries(100, func(i int) float64 {
		v := 50 - 0.6*float64(i) + 3*math.Sin(2*math.Pi*float64(i)/7)
		if v < 0 {
			v = 0
		}
		return v
	})

	pred, err := NewSeasonalRegressionModel().FitPredict(series, 30)
	require.NoError(t, err)
	require.Len(t, pred.Points, 30)
	requireBounds(t, pred.Points)
}

func TestSeasonalRegressionComponents(t *testing.T) {
	n := 120
	series := makeSeries(n, func(i int) float64 {
		return 80 + 8*math.Sin(2*math.Pi*float64(i)/7) + 0.2*float64(i)
	})

	table, err := NewSeasonalRegressionModel().Components(series, 30)
	require.NoError(t, err)
	require.Len(t, table.Dates, n+30)
	require.Len(t, table.Yhat, n+30)
	require.Len(t, table.Weekly, n+30)
	require.Nil(t, table.Yearly)
	require.Empty(t, table.Daily)

	// Historical rows keep their original dates.
	for i := 0; i < n; i++ {
		require.Equal(t, series[i].Date, table.Dates[i])
	}

	// The weekly component repeats with period 7 over future rows,
	// where the trend multiplier changes slowly.
	require.InDelta(t, table.Weekly[n]/table.Yhat[n], table.Weekly[n+7]/table.Yhat[n+7], 0.02)
}

func TestSeasonalRegressionDeterministic(t *testing.T) {
	series := makeSeries(150, func(i int) float64 {
		return 60 + 6*math.Sin(2*math.Pi*float64(i)/7) + 0.25*float64(i)
	})

	m := NewSeasonalRegressionModel()
	a, err := m.FitPredict(series, 45)
	require.NoError(t, err)
	b, err := m.FitPredict(series, 45)
	require.NoError(t, err)

	for i := range a.Points {
		require.Equal(t, a.Points[i].Value, b.Points[i].Value)
		require.Equal(t, a.Points[i].Lower, b.Points[i].Lower)
		require.Equal(t, a.Points[i].Upper, b.Points[i].Upper)
	}
}
