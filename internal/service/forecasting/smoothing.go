package forecasting

import (
	"math"

	"SalesPulse/internal/domain/models"
)

// Fixed smoothing parameters. Estimating them per-request adds an
// optimizer dependency and nondeterminism for little accuracy gain on
// daily sales data.
const (
	smoothingAlpha = 0.3
	smoothingBeta  = 0.1
	smoothingGamma = 0.1
)

const decompositionMinPoints = 10

// DecompositionModel forecasts with additive trend+seasonal exponential
// smoothing (Holt-Winters). The seasonal period is auto-selected from
// the history length; with no supportable period it degrades to a
// trend-only double exponential smoothing.
type DecompositionModel struct{}

func NewDecompositionModel() *DecompositionModel {
	return &DecompositionModel{}
}

func (m *DecompositionModel) Name() string {
	return MethodDecomposition
}

func (m *DecompositionModel) FitPredict(series []models.HistoricalPoint, horizon int) (*Prediction, error) {
	n := len(series)
	if n < decompositionMinPoints {
		return nil, insufficientf(m.Name(), decompositionMinPoints, n)
	}

	vals := values(series)
	period := seasonalPeriod(n)

	level, trend, seasonal, err := m.fit(vals, period)
	if err != nil {
		return nil, err
	}

	dates := futureDates(series, horizon)
	points := make([]PredictionPoint, horizon)
	for h := 0; h < horizon; h++ {
		v := level + float64(h+1)*trend
		if period > 1 {
			v += seasonal[(n+h)%period]
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fitFailedf(m.Name(), "non-finite forecast value")
		}
		if v < 0 {
			v = 0
		}
		lower, upper := syntheticBounds(v)
		points[h] = PredictionPoint{Date: dates[h], Value: v, Lower: lower, Upper: upper}
	}

	strength := 0.0
	if period > 1 {
		strength = SeasonalStrength(vals, period)
	}

	return &Prediction{
		Points:      points,
		Seasonality: map[string]float64{"seasonal_strength": strength},
	}, nil
}

// fit runs the Holt-Winters recursions and returns the final level,
// trend, and per-position seasonal estimates. For period 1 the seasonal
// slice is nil and the fit reduces to Holt's linear method.
func (m *DecompositionModel) fit(vals []float64, period int) (level, trend float64, seasonal []float64, err error) {
	n := len(vals)

	if period <= 1 {
		level = vals[0]
		trend = vals[1] - vals[0]
		for i := 1; i < n; i++ {
			prevLevel := level
			level = smoothingAlpha*vals[i] + (1-smoothingAlpha)*(prevLevel+trend)
			trend = smoothingBeta*(level-prevLevel) + (1-smoothingBeta)*trend
		}
		if math.IsNaN(level) || math.IsNaN(trend) {
			return 0, 0, nil, fitFailedf(m.Name(), "non-finite state")
		}
		return level, trend, nil, nil
	}

	// seasonalPeriod guarantees two full cycles, which the
	// initialization below relies on.
	var firstCycle, secondCycle float64
	for i := 0; i < period; i++ {
		firstCycle += vals[i]
		secondCycle += vals[period+i]
	}
	firstCycle /= float64(period)
	secondCycle /= float64(period)

	level = firstCycle
	trend = (secondCycle - firstCycle) / float64(period)
	seasonal = make([]float64, period)
	for i := 0; i < period; i++ {
		seasonal[i] = vals[i] - firstCycle
	}

	for i := period; i < n; i++ {
		pos := i % period
		prevLevel := level
		level = smoothingAlpha*(vals[i]-seasonal[pos]) + (1-smoothingAlpha)*(prevLevel+trend)
		trend = smoothingBeta*(level-prevLevel) + (1-smoothingBeta)*trend
		seasonal[pos] = smoothingGamma*(vals[i]-level) + (1-smoothingGamma)*seasonal[pos]
	}

	if math.IsNaN(level) || math.IsNaN(trend) {
		return 0, 0, nil, fitFailedf(m.Name(), "non-finite state")
	}
	return level, trend, seasonal, nil
}
