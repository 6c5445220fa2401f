package forecasting

import (
	"math"
	"time"

	"SalesPulse/internal/domain/models"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	regressionMinPoints = 14
	weeklyHarmonics     = 3
	yearlyHarmonics     = 8
	yearlyMinPoints     = 730
	yearlyPeriodDays    = 365.25
)

// regressionZ is the 95% normal quantile for the uncertainty band.
const regressionZ = 1.96

// SeasonalRegressionModel is the primary forecasting method: a linear
// trend combined with weekly (and, given enough history, yearly)
// Fourier seasonality fit by least squares. Seasonality is combined
// multiplicatively when the fitted trend stays positive over the
// history, additively otherwise.
type SeasonalRegressionModel struct{}

func NewSeasonalRegressionModel() *SeasonalRegressionModel {
	return &SeasonalRegressionModel{}
}

func (m *SeasonalRegressionModel) Name() string {
	return MethodSeasonalRegression
}

func (m *SeasonalRegressionModel) FitPredict(series []models.HistoricalPoint, horizon int) (*Prediction, error) {
	fit, err := m.fit(series, horizon)
	if err != nil {
		return nil, err
	}

	n := len(series)
	points := make([]PredictionPoint, horizon)
	for i := 0; i < horizon; i++ {
		row := n + i
		v := fit.yhat[row]
		if v < 0 {
			v = 0
		}
		// Uncertainty widens with distance from the fitted window.
		se := fit.sigma * math.Sqrt(1+float64(i+1)/float64(n))
		lower := v - regressionZ*se
		if lower < 0 {
			lower = 0
		}
		upper := v + regressionZ*se
		points[i] = PredictionPoint{Date: fit.dates[row], Value: v, Lower: lower, Upper: upper}
	}

	return &Prediction{
		Points:      points,
		Seasonality: fit.strengths(),
	}, nil
}

// ComponentTable exposes the per-date decomposition of a fit, used by
// the seasonality analyzer to derive calendar patterns.
type ComponentTable struct {
	Dates  []time.Time
	Yhat   []float64
	Weekly []float64
	Yearly []float64
	Daily  []float64
}

// Components fits the model over the series plus a lookahead window and
// returns the full component decomposition, historical rows first.
func (m *SeasonalRegressionModel) Components(series []models.HistoricalPoint, lookahead int) (*ComponentTable, error) {
	fit, err := m.fit(series, lookahead)
	if err != nil {
		return nil, err
	}
	return &ComponentTable{
		Dates:  fit.dates,
		Yhat:   fit.yhat,
		Weekly: fit.weekly,
		Yearly: fit.yearly,
	}, nil
}

type regressionFit struct {
	dates  []time.Time
	yhat   []float64
	weekly []float64
	yearly []float64 // nil when history is too short for a yearly term
	sigma  float64
}

// strengths reports std(component)/mean(yhat) per fitted component.
func (f *regressionFit) strengths() map[string]float64 {
	out := map[string]float64{}
	meanYhat := stat.Mean(f.yhat, nil)
	if meanYhat == 0 || math.IsNaN(meanYhat) {
		return out
	}
	out["weekly"] = math.Abs(stat.StdDev(f.weekly, nil) / meanYhat)
	if f.yearly != nil {
		out["yearly"] = math.Abs(stat.StdDev(f.yearly, nil) / meanYhat)
	}
	return out
}

func (m *SeasonalRegressionModel) fit(series []models.HistoricalPoint, extra int) (*regressionFit, error) {
	n := len(series)
	if n < regressionMinPoints {
		return nil, insufficientf(m.Name(), regressionMinPoints, n)
	}

	// Day indices come from the calendar so gaps in the series do not
	// distort the periodic terms.
	first := series[0].Date
	xs := make([]float64, n)
	for i, p := range series {
		xs[i] = p.Date.Sub(first).Hours() / 24
	}
	ys := values(series)

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(intercept) || math.IsNaN(slope) {
		return nil, fitFailedf(m.Name(), "degenerate trend fit")
	}

	multiplicative := true
	for _, x := range xs {
		if intercept+slope*x <= 0 {
			multiplicative = false
			break
		}
	}

	// Seasonal target: trend-relative ratios in multiplicative mode,
	// plain residuals in additive mode.
	target := make([]float64, n)
	for i := range ys {
		tr := intercept + slope*xs[i]
		if multiplicative {
			target[i] = ys[i]/tr - 1
		} else {
			target[i] = ys[i] - tr
		}
	}

	withYearly := n >= yearlyMinPoints
	cols := 2 * weeklyHarmonics
	if withYearly {
		cols += 2 * yearlyHarmonics
	}

	x := mat.NewDense(n, cols, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x.SetRow(i, fourierRow(xs[i], withYearly))
		y.Set(i, 0, target[i])
	}

	var qr mat.QR
	qr.Factorize(x)
	var betaDense mat.Dense
	if err := qr.SolveTo(&betaDense, false, y); err != nil {
		return nil, fitFailedf(m.Name(), "singular seasonal design matrix")
	}
	beta := make([]float64, cols)
	for i := range beta {
		beta[i] = betaDense.At(i, 0)
		if math.IsNaN(beta[i]) || math.IsInf(beta[i], 0) {
			return nil, fitFailedf(m.Name(), "non-finite seasonal coefficients")
		}
	}

	// Evaluate trend and components over history plus the extra window.
	total := n + extra
	fit := &regressionFit{
		dates:  make([]time.Time, total),
		yhat:   make([]float64, total),
		weekly: make([]float64, total),
	}
	if withYearly {
		fit.yearly = make([]float64, total)
	}

	last := series[n-1].Date
	lastX := xs[n-1]
	for row := 0; row < total; row++ {
		var d time.Time
		var dx float64
		if row < n {
			d = series[row].Date
			dx = xs[row]
		} else {
			d = last.AddDate(0, 0, row-n+1)
			dx = lastX + float64(row-n+1)
		}

		tr := intercept + slope*dx
		sw := fourierEval(beta[:2*weeklyHarmonics], dx, 7, weeklyHarmonics)
		var sy float64
		if withYearly {
			sy = fourierEval(beta[2*weeklyHarmonics:], dx, yearlyPeriodDays, yearlyHarmonics)
		}

		fit.dates[row] = d
		if multiplicative {
			fit.yhat[row] = tr * (1 + sw + sy)
			fit.weekly[row] = tr * sw
			if withYearly {
				fit.yearly[row] = tr * sy
			}
		} else {
			fit.yhat[row] = tr + sw + sy
			fit.weekly[row] = sw
			if withYearly {
				fit.yearly[row] = sy
			}
		}
	}

	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		residuals[i] = ys[i] - fit.yhat[i]
	}
	fit.sigma = stat.StdDev(residuals, nil)
	if math.IsNaN(fit.sigma) {
		return nil, fitFailedf(m.Name(), "non-finite residual variance")
	}

	return fit, nil
}

// fourierRow builds the design-matrix row for one day index.
func fourierRow(x float64, withYearly bool) []float64 {
	cols := 2 * weeklyHarmonics
	if withYearly {
		cols += 2 * yearlyHarmonics
	}
	row := make([]float64, 0, cols)
	for k := 1; k <= weeklyHarmonics; k++ {
		arg := 2 * math.Pi * float64(k) * x / 7
		row = append(row, math.Sin(arg), math.Cos(arg))
	}
	if withYearly {
		for k := 1; k <= yearlyHarmonics; k++ {
			arg := 2 * math.Pi * float64(k) * x / yearlyPeriodDays
			row = append(row, math.Sin(arg), math.Cos(arg))
		}
	}
	return row
}

// fourierEval evaluates a fitted Fourier series at one day index.
func fourierEval(coeffs []float64, x, period float64, harmonics int) float64 {
	var sum float64
	for k := 1; k <= harmonics; k++ {
		arg := 2 * math.Pi * float64(k) * x / period
		sum += coeffs[2*(k-1)]*math.Sin(arg) + coeffs[2*(k-1)+1]*math.Cos(arg)
	}
	return sum
}
