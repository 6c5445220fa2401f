package forecasting

import (
	"SalesPulse/internal/domain/models"

	"gonum.org/v1/gonum/stat"
)

// TrendEstimator is the terminal fallback: a least-squares line over the
// point index. It succeeds for any non-empty series, which guarantees
// the fallback chain always terminates with a usable forecast.
type TrendEstimator struct{}

func NewTrendEstimator() *TrendEstimator {
	return &TrendEstimator{}
}

func (m *TrendEstimator) Name() string {
	return MethodTrend
}

func (m *TrendEstimator) FitPredict(series []models.HistoricalPoint, horizon int) (*Prediction, error) {
	n := len(series)
	if n == 0 {
		return nil, insufficientf(m.Name(), 1, 0)
	}

	var intercept, slope float64
	if n == 1 {
		intercept = series[0].Value
	} else {
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = float64(i)
		}
		intercept, slope = stat.LinearRegression(xs, values(series), nil, false)
	}

	dates := futureDates(series, horizon)
	points := make([]PredictionPoint, horizon)
	for i := 0; i < horizon; i++ {
		v := intercept + slope*float64(n+i)
		if v < 0 {
			v = 0
		}
		lower, upper := syntheticBounds(v)
		points[i] = PredictionPoint{Date: dates[i], Value: v, Lower: lower, Upper: upper}
	}

	return &Prediction{
		Points:      points,
		Seasonality: map[string]float64{},
	}, nil
}
