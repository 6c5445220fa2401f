package forecasting

import (
	"errors"
	"fmt"
	"time"

	"SalesPulse/internal/domain/models"
)

// Model method names, in fallback-chain order.
const (
	MethodSeasonalRegression = "additive-seasonal-regression"
	MethodDecomposition      = "seasonal-decomposition"
	MethodStateSpace         = "state-space-seasonal"
	MethodTrend              = "trend-estimator"
)

var (
	// ErrInsufficientData means the series is shorter than the model's minimum.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrModelFit means the fit did not converge or produced invalid numbers.
	ErrModelFit = errors.New("model fit failed")
)

// PredictionPoint is one raw model output for a future day.
type PredictionPoint struct {
	Date  time.Time
	Value float64
	Lower float64
	Upper float64
}

// Prediction is the raw output of a single model run, before the
// forecaster normalizes it into the canonical result shape.
type Prediction struct {
	Points      []PredictionPoint
	Seasonality map[string]float64
}

// Model is one forecasting strategy. Implementations must be
// deterministic: the same series and horizon always yield the same
// prediction.
type Model interface {
	Name() string

	// FitPredict fits the model over the series and predicts horizon
	// future days. The series is sorted ascending with at least one
	// point. Returns ErrInsufficientData or ErrModelFit on failure;
	// both are recoverable by falling back to a simpler model.
	FitPredict(series []models.HistoricalPoint, horizon int) (*Prediction, error)
}

// Chain returns the models in fixed fallback order, richest first.
func Chain() []Model {
	return []Model{
		NewSeasonalRegressionModel(),
		NewDecompositionModel(),
		NewStateSpaceModel(),
		NewTrendEstimator(),
	}
}

func insufficientf(name string, need, have int) error {
	return fmt.Errorf("%s: need %d points, have %d: %w", name, need, have, ErrInsufficientData)
}

func fitFailedf(name, reason string) error {
	return fmt.Errorf("%s: %s: %w", name, reason, ErrModelFit)
}

// seasonalPeriod picks the seasonal period the history can support.
// Two full cycles are required so decomposition and initialization
// always have enough data.
func seasonalPeriod(n int) int {
	switch {
	case n >= 730:
		return 365
	case n >= 60:
		return 30
	case n >= 14:
		return 7
	default:
		return 1
	}
}

// values extracts the raw observations from a series.
func values(series []models.HistoricalPoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Value
	}
	return out
}

// futureDates returns horizon consecutive days after the series end.
func futureDates(series []models.HistoricalPoint, horizon int) []time.Time {
	last := series[len(series)-1].Date
	dates := make([]time.Time, horizon)
	for i := 0; i < horizon; i++ {
		dates[i] = last.AddDate(0, 0, i+1)
	}
	return dates
}

// syntheticBounds applies the fixed ±10% band used by models without
// native prediction intervals. The lower bound is floored at zero.
func syntheticBounds(value float64) (lower, upper float64) {
	lower = value * 0.9
	if lower < 0 {
		lower = 0
	}
	upper = value * 1.1
	if upper < value {
		upper = value
	}
	return lower, upper
}
