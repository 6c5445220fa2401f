package forecasting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecomposeWave(t *testing.T) {
	n := 70
	data := make([]float64, n)
	for i := range data {
		data[i] = 100 + 10*math.Sin(2*math.Pi*float64(i)/7)
	}

	d, err := Decompose(data, 7)
	require.NoError(t, err)
	require.Len(t, d.Seasonal, n)

	// Seasonal pattern repeats exactly with the period.
	for i := 7; i < n; i++ {
		require.InDelta(t, d.Seasonal[i-7], d.Seasonal[i], 1e-9)
	}

	// The seasonal pattern sums to roughly zero over one cycle.
	var sum float64
	for i := 0; i < 7; i++ {
		sum += d.Seasonal[i]
	}
	require.InDelta(t, 0, sum, 1e-6)
}

func TestDecomposeTooShort(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	_, err := Decompose(data, 7)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestDecomposeBadPeriod(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	_, err := Decompose(data, 1)
	require.ErrorIs(t, err, ErrModelFit)
}

func TestSeasonalStrengthWave(t *testing.T) {
	n := 140
	data := make([]float64, n)
	for i := range data {
		data[i] = 100 + 10*math.Sin(2*math.Pi*float64(i)/7)
	}

	strength := SeasonalStrength(data, 7)
	require.Greater(t, strength, 0.5)
}

func TestSeasonalStrengthFlat(t *testing.T) {
	data := make([]float64, 50)
	for i := range data {
		data[i] = 10
	}
	require.Equal(t, 0.0, SeasonalStrength(data, 7))
}

func TestSeasonalStrengthTooShort(t *testing.T) {
	require.Equal(t, 0.0, SeasonalStrength([]float64{1, 2, 3}, 7))
}
