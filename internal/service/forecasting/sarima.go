package forecasting

import (
	"math"

	"SalesPulse/internal/domain/models"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const stateSpaceMinPoints = 10

// stateSpaceZ is the 95% normal quantile used for prediction intervals.
const stateSpaceZ = 1.96

// StateSpaceModel forecasts with a seasonal ARIMA-style model of fixed
// order (1,1,1)(1,1,1,m). Coefficients are estimated with the
// Hannan-Rissanen two-stage procedure: a long autoregression via
// Yule-Walker gives innovation estimates, then the ARMA terms are fit
// by least squares against lagged values and innovations.
type StateSpaceModel struct{}

func NewStateSpaceModel() *StateSpaceModel {
	return &StateSpaceModel{}
}

func (m *StateSpaceModel) Name() string {
	return MethodStateSpace
}

func (m *StateSpaceModel) FitPredict(series []models.HistoricalPoint, horizon int) (*Prediction, error) {
	n := len(series)
	if n < stateSpaceMinPoints {
		return nil, insufficientf(m.Name(), stateSpaceMinPoints, n)
	}

	vals := values(series)
	period := seasonalPeriod(n)
	if period == 1 {
		// Below the weekly threshold the model fits without a
		// seasonal order rather than with a degenerate period of one.
		period = 0
	}

	w := difference(vals, period)
	if len(w) < 4 {
		return nil, insufficientf(m.Name(), period+5, n)
	}

	coef, resid, err := m.estimate(w, period)
	if err != nil {
		return nil, err
	}

	sigma := stat.StdDev(resid, nil)
	if math.IsNaN(sigma) {
		return nil, fitFailedf(m.Name(), "non-finite residual variance")
	}

	// Forecast on the differenced scale, future innovations set to zero.
	wAll := make([]float64, len(w), len(w)+horizon)
	copy(wAll, w)
	eAll := make([]float64, len(resid), len(resid)+horizon)
	copy(eAll, resid)

	for h := 0; h < horizon; h++ {
		t := len(wAll)
		f := coef.phi*at(wAll, t-1) + coef.theta*at(eAll, t-1)
		if period > 0 {
			f += coef.sphi*at(wAll, t-period) + coef.stheta*at(eAll, t-period)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fitFailedf(m.Name(), "non-finite forecast value")
		}
		wAll = append(wAll, f)
		eAll = append(eAll, 0)
	}

	forecasts := integrate(vals, wAll[len(w):], period)

	dates := futureDates(series, horizon)
	points := make([]PredictionPoint, horizon)
	for h := 0; h < horizon; h++ {
		v := forecasts[h]
		if v < 0 {
			v = 0
		}
		se := sigma * math.Sqrt(float64(h+1))
		lower := v - stateSpaceZ*se
		if lower < 0 {
			lower = 0
		}
		upper := v + stateSpaceZ*se
		points[h] = PredictionPoint{Date: dates[h], Value: v, Lower: lower, Upper: upper}
	}

	strength := 0.0
	if period > 0 {
		strength = SeasonalStrength(vals, period)
	}

	return &Prediction{
		Points:      points,
		Seasonality: map[string]float64{"seasonal_strength": strength},
	}, nil
}

type stateSpaceCoef struct {
	phi    float64
	theta  float64
	sphi   float64
	stheta float64
}

// estimate fits the ARMA terms on the differenced series and returns
// the coefficients together with in-sample innovations.
func (m *StateSpaceModel) estimate(w []float64, period int) (stateSpaceCoef, []float64, error) {
	var coef stateSpaceCoef

	if stat.Variance(w, nil) == 0 {
		// Flat differenced series: forecasts stay flat, residuals zero.
		return coef, make([]float64, len(w)), nil
	}

	// Stage one: long AR via Yule-Walker for innovation estimates.
	order := len(w) / 4
	if order > 10 {
		order = 10
	}
	if order < 1 {
		order = 1
	}
	arCoeffs, err := yuleWalker(w, order)
	if err != nil {
		return coef, nil, err
	}

	resid := make([]float64, len(w))
	for t := order; t < len(w); t++ {
		pred := 0.0
		for i, c := range arCoeffs {
			pred += c * w[t-1-i]
		}
		resid[t] = w[t] - pred
	}

	// Stage two: least squares on lagged values and innovations.
	seasonal := period > 0 && len(w) > period+2
	cols := 2
	if seasonal {
		cols = 4
	}
	start := order + 1
	if seasonal && start < period {
		start = period
	}
	rows := len(w) - start
	if rows < cols+1 {
		// Too short for the regression; keep the AR(1) approximation.
		coef.phi = clampCoef(arCoeffs[0])
		return coef, resid, nil
	}

	x := mat.NewDense(rows, cols, nil)
	y := mat.NewDense(rows, 1, nil)
	for r := 0; r < rows; r++ {
		t := start + r
		x.Set(r, 0, w[t-1])
		x.Set(r, 1, resid[t-1])
		if seasonal {
			x.Set(r, 2, w[t-period])
			x.Set(r, 3, resid[t-period])
		}
		y.Set(r, 0, w[t])
	}

	var qr mat.QR
	qr.Factorize(x)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		return coef, nil, fitFailedf(m.Name(), "singular design matrix")
	}

	coef.phi = clampCoef(beta.At(0, 0))
	coef.theta = clampCoef(beta.At(1, 0))
	if seasonal {
		coef.sphi = clampCoef(beta.At(2, 0))
		coef.stheta = clampCoef(beta.At(3, 0))
	}

	// Refresh innovations against the fitted ARMA terms.
	for t := start; t < len(w); t++ {
		pred := coef.phi*w[t-1] + coef.theta*resid[t-1]
		if seasonal {
			pred += coef.sphi*w[t-period] + coef.stheta*resid[t-period]
		}
		resid[t] = w[t] - pred
	}

	return coef, resid, nil
}

// difference applies seasonal differencing at the given period (if any)
// followed by first-order regular differencing.
func difference(vals []float64, period int) []float64 {
	z := vals
	if period > 0 && len(vals) > period {
		z = make([]float64, len(vals)-period)
		for i := range z {
			z[i] = vals[i+period] - vals[i]
		}
	}
	if len(z) < 2 {
		return nil
	}
	w := make([]float64, len(z)-1)
	for i := range w {
		w[i] = z[i+1] - z[i]
	}
	return w
}

// integrate reverses the differencing, turning forecasted differences
// back into level forecasts.
func integrate(vals []float64, wf []float64, period int) []float64 {
	n := len(vals)

	// Rebuild the seasonally differenced history to undo the regular
	// difference first.
	z := vals
	if period > 0 {
		z = make([]float64, n-period)
		for i := range z {
			z[i] = vals[i+period] - vals[i]
		}
	}

	out := make([]float64, len(wf))
	zPrev := z[len(z)-1]

	// extended holds history plus forecasts so seasonal lags can
	// reference forecasted values once h exceeds the period.
	extended := make([]float64, n, n+len(wf))
	copy(extended, vals)

	for h := range wf {
		zf := zPrev + wf[h]
		zPrev = zf

		var yf float64
		if period > 0 {
			yf = extended[len(extended)-period] + zf
		} else {
			yf = zf
		}
		out[h] = yf
		extended = append(extended, yf)
	}
	return out
}

// yuleWalker solves the Yule-Walker equations with Levinson-Durbin
// recursion, returning AR coefficients of the given order.
func yuleWalker(w []float64, order int) ([]float64, error) {
	n := len(w)
	mean := stat.Mean(w, nil)

	var variance float64
	for _, v := range w {
		variance += (v - mean) * (v - mean)
	}
	if variance == 0 {
		return nil, fitFailedf("yule-walker", "zero variance")
	}

	acf := make([]float64, order)
	for lag := 1; lag <= order; lag++ {
		var cov float64
		for t := lag; t < n; t++ {
			cov += (w[t] - mean) * (w[t-lag] - mean)
		}
		acf[lag-1] = cov / variance
	}

	phi := make([][]float64, order+1)
	for i := range phi {
		phi[i] = make([]float64, order+1)
	}
	phi[1][1] = acf[0]
	v := 1 - acf[0]*acf[0]

	for k := 2; k <= order; k++ {
		if v == 0 {
			break
		}
		num := acf[k-1]
		for j := 1; j < k; j++ {
			num -= phi[k-1][j] * acf[k-1-j]
		}
		phi[k][k] = num / v
		for j := 1; j < k; j++ {
			phi[k][j] = phi[k-1][j] - phi[k][k]*phi[k-1][k-j]
		}
		v *= 1 - phi[k][k]*phi[k][k]
	}

	out := make([]float64, order)
	for i := 1; i <= order; i++ {
		out[i-1] = phi[order][i]
	}
	return out, nil
}

// clampCoef keeps estimated coefficients inside the invertible region
// so long-horizon forecasts stay bounded.
func clampCoef(c float64) float64 {
	if math.IsNaN(c) {
		return 0
	}
	if c > 0.99 {
		return 0.99
	}
	if c < -0.99 {
		return -0.99
	}
	return c
}

func at(s []float64, i int) float64 {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}
