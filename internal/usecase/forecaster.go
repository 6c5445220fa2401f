package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/domain/repository"
	"SalesPulse/internal/service/forecasting"
	"SalesPulse/pkg/cache"
	"SalesPulse/pkg/logger"
	"SalesPulse/pkg/util"
)

// Forecaster turns historical sales series into forecasts. It owns the
// model fallback chain and the normalization into the canonical result
// shape; data loading and caching are delegated to collaborators.
type Forecaster struct {
	store         repository.SalesStore
	cache         cache.Service
	metrics       repository.Metrics
	log           *logger.Logger
	chain         []forecasting.Model
	defaultMethod string
	forecastTTL   time.Duration
	seasonalTTL   time.Duration
}

// ForecasterOption configures a Forecaster.
type ForecasterOption func(*Forecaster)

// WithCache attaches a result cache.
func WithCache(c cache.Service, forecastTTL, seasonalTTL time.Duration) ForecasterOption {
	return func(f *Forecaster) {
		f.cache = c
		f.forecastTTL = forecastTTL
		f.seasonalTTL = seasonalTTL
	}
}

// WithDefaultMethod overrides the method used when none is requested.
func WithDefaultMethod(method string) ForecasterOption {
	return func(f *Forecaster) {
		if _, ok := methodIndex(method); ok {
			f.defaultMethod = method
		}
	}
}

// NewForecaster creates a forecaster over the given store.
func NewForecaster(store repository.SalesStore, metrics repository.Metrics, log *logger.Logger, opts ...ForecasterOption) *Forecaster {
	f := &Forecaster{
		store:         store,
		metrics:       metrics,
		log:           log,
		chain:         forecasting.Chain(),
		defaultMethod: forecasting.MethodSeasonalRegression,
		forecastTTL:   15 * time.Minute,
		seasonalTTL:   time.Hour,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func methodIndex(method string) (int, bool) {
	switch method {
	case forecasting.MethodSeasonalRegression:
		return 0, true
	case forecasting.MethodDecomposition:
		return 1, true
	case forecasting.MethodStateSpace:
		return 2, true
	case forecasting.MethodTrend:
		return 3, true
	default:
		return 0, false
	}
}

// resolveMethod maps the requested method to a chain index. Unknown
// names fall back to the default with a warning, never an error.
func (f *Forecaster) resolveMethod(method string) (string, int) {
	if method == "" {
		method = f.defaultMethod
	}
	idx, ok := methodIndex(method)
	if !ok {
		f.log.Warn("unknown forecast method, using default",
			logger.String("method", method),
			logger.String("default", f.defaultMethod),
		)
		f.metrics.RecordError("unknown_method")
		method = f.defaultMethod
		idx, _ = methodIndex(method)
	}
	return method, idx
}

// Forecast loads the matching series and produces a forecast over the
// requested horizon. Modeling failures degrade through the fallback
// chain; only a storage failure propagates.
func (f *Forecaster) Forecast(ctx context.Context, q models.SeriesQuery, horizon int, method string) (*models.ForecastResult, error) {
	method, idx := f.resolveMethod(method)

	key := cache.Key("forecast",
		formatQueryDate(q.StartDate), formatQueryDate(q.EndDate),
		q.Category, q.Region, horizon, method,
	)
	result, hit, err := cache.GetOrCompute(ctx, f.cache, key, f.forecastTTL, func() (*models.ForecastResult, error) {
		return f.compute(ctx, q, horizon, idx)
	})
	f.recordCache("forecast", hit)
	return result, err
}

// ForecastByCategory produces one forecast per distinct category,
// sequentially.
func (f *Forecaster) ForecastByCategory(ctx context.Context, q models.SeriesQuery, horizon int, method string) (map[string]*models.ForecastResult, error) {
	categories, err := f.store.Categories(ctx)
	if err != nil {
		f.metrics.RecordError("upstream_load")
		return nil, fmt.Errorf("list categories: %w", err)
	}

	results := make(map[string]*models.ForecastResult, len(categories))
	for _, category := range categories {
		cq := q
		cq.Category = category
		result, err := f.Forecast(ctx, cq, horizon, method)
		if err != nil {
			return nil, err
		}
		results[category] = result
	}
	return results, nil
}

// ForecastByRegion produces one forecast per distinct region,
// sequentially.
func (f *Forecaster) ForecastByRegion(ctx context.Context, q models.SeriesQuery, horizon int, method string) (map[string]*models.ForecastResult, error) {
	regions, err := f.store.Regions(ctx)
	if err != nil {
		f.metrics.RecordError("upstream_load")
		return nil, fmt.Errorf("list regions: %w", err)
	}

	results := make(map[string]*models.ForecastResult, len(regions))
	for _, region := range regions {
		rq := q
		rq.Region = region
		result, err := f.Forecast(ctx, rq, horizon, method)
		if err != nil {
			return nil, err
		}
		results[region] = result
	}
	return results, nil
}

func (f *Forecaster) compute(ctx context.Context, q models.SeriesQuery, horizon int, startIdx int) (*models.ForecastResult, error) {
	series, err := f.store.LoadDailySeries(ctx, q)
	if err != nil {
		f.metrics.RecordError("upstream_load")
		return nil, fmt.Errorf("load sales series: %w", err)
	}

	// An empty series is not an error: the dashboard renders the
	// canonical empty result.
	if len(series) == 0 {
		return models.EmptyForecastResult(), nil
	}

	prediction, _ := f.runChain(series, horizon, startIdx)
	return normalize(series, prediction), nil
}

// runChain tries models from startIdx onward until one succeeds. The
// trend estimator at the end of the chain cannot fail for a non-empty
// series, so a prediction is always returned.
func (f *Forecaster) runChain(series []models.HistoricalPoint, horizon, startIdx int) (*forecasting.Prediction, string) {
	for i := startIdx; i < len(f.chain); i++ {
		model := f.chain[i]
		begin := time.Now()
		prediction, err := model.FitPredict(series, horizon)
		if err == nil {
			f.metrics.RecordForecast(model.Name())
			f.metrics.RecordFitDuration(model.Name(), time.Since(begin).Seconds())
			return prediction, model.Name()
		}

		f.log.Warn("forecast model failed, falling back",
			logger.String("model", model.Name()),
			logger.Int("points", len(series)),
			logger.Error(err),
		)
		if i+1 < len(f.chain) {
			f.metrics.RecordFallback(model.Name(), f.chain[i+1].Name())
		}
	}

	// Unreachable: the trend estimator succeeds for any non-empty series.
	return &forecasting.Prediction{
		Points:      []forecasting.PredictionPoint{},
		Seasonality: map[string]float64{},
	}, forecasting.MethodTrend
}

// normalize converts a raw model prediction into the canonical result.
func normalize(series []models.HistoricalPoint, prediction *forecasting.Prediction) *models.ForecastResult {
	result := models.EmptyForecastResult()

	var historicalTotal float64
	for _, p := range series {
		historicalTotal += p.Value
	}
	result.HistoricalTotal = historicalTotal

	result.Forecast = make([]models.ForecastPoint, len(prediction.Points))
	var forecastTotal float64
	for i, p := range prediction.Points {
		result.Forecast[i] = models.ForecastPoint{
			Date:       p.Date.Format(util.DateLayout),
			Prediction: p.Value,
			LowerBound: p.Lower,
			UpperBound: p.Upper,
		}
		forecastTotal += p.Value
	}
	result.ForecastTotal = forecastTotal

	if prediction.Seasonality != nil {
		result.Seasonality = prediction.Seasonality
	}

	result.GrowthRate = growthRate(series, prediction.Points)
	result.TrendDirection = trendDirection(result.GrowthRate)
	result.Peaks, result.Troughs = findExtremes(result.Forecast)

	return result
}

// growthRate computes the compound monthly growth rate from the last
// historical value to the last forecast value. Months use a fixed
// 30-day divisor for behavioral parity with the dashboard's charts.
func growthRate(series []models.HistoricalPoint, points []forecasting.PredictionPoint) float64 {
	if len(series) == 0 || len(points) == 0 {
		return 0
	}
	start := series[len(series)-1].Value
	end := points[len(points)-1].Value

	days := int(points[len(points)-1].Date.Sub(series[len(series)-1].Date).Hours() / 24)
	months := days / 30
	if start <= 0 || months <= 0 {
		return 0
	}

	rate := math.Pow(end/start, 1/float64(months)) - 1
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	return rate
}

func trendDirection(growthRate float64) string {
	switch {
	case growthRate > 0:
		return models.TrendUpward
	case growthRate < 0:
		return models.TrendDownward
	default:
		return models.TrendStable
	}
}

// findExtremes flags strict local maxima and minima in the forecast and
// keeps the five most extreme of each.
func findExtremes(forecast []models.ForecastPoint) (peaks, troughs []models.ExtremePoint) {
	peaks = []models.ExtremePoint{}
	troughs = []models.ExtremePoint{}

	for i := 1; i < len(forecast)-1; i++ {
		prev, cur, next := forecast[i-1].Prediction, forecast[i].Prediction, forecast[i+1].Prediction
		switch {
		case cur > prev && cur > next:
			peaks = append(peaks, models.ExtremePoint{Date: forecast[i].Date, Value: cur})
		case cur < prev && cur < next:
			troughs = append(troughs, models.ExtremePoint{Date: forecast[i].Date, Value: cur})
		}
	}

	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].Value > peaks[j].Value })
	sort.SliceStable(troughs, func(i, j int) bool { return troughs[i].Value < troughs[j].Value })

	if len(peaks) > 5 {
		peaks = peaks[:5]
	}
	if len(troughs) > 5 {
		troughs = troughs[:5]
	}
	return peaks, troughs
}

// Health reports whether the sales store is reachable.
func (f *Forecaster) Health(ctx context.Context) error {
	return f.store.Health(ctx)
}

func (f *Forecaster) recordCache(prefix string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	f.metrics.RecordCache(prefix, outcome)
}

func formatQueryDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(util.DateLayout)
}
