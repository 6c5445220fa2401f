package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/service/forecasting"
	"SalesPulse/pkg/cache"
	"SalesPulse/pkg/logger"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	series     []models.HistoricalPoint
	err        error
	categories []string
	regions    []string
	loads      int
}

func (s *fakeStore) LoadDailySeries(_ context.Context, _ models.SeriesQuery) ([]models.HistoricalPoint, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.series, nil
}

func (s *fakeStore) Categories(_ context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.categories, nil
}

func (s *fakeStore) Regions(_ context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.regions, nil
}

func (s *fakeStore) Health(_ context.Context) error {
	return s.err
}

type fakeMetrics struct {
	forecasts int
	fallbacks int
	errors    map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{errors: map[string]int{}}
}

func (m *fakeMetrics) RecordForecast(string)             { m.forecasts++ }
func (m *fakeMetrics) RecordFallback(string, string)     { m.fallbacks++ }
func (m *fakeMetrics) RecordError(kind string)           { m.errors[kind]++ }
func (m *fakeMetrics) RecordCache(string, string)        {}
func (m *fakeMetrics) RecordFitDuration(string, float64) {}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return l
}

func testSeries(n int, f func(i int) float64) []models.HistoricalPoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]models.HistoricalPoint, n)
	for i := 0; i < n; i++ {
		series[i] = models.HistoricalPoint{Date: start.AddDate(0, 0, i), Value: f(i)}
	}
	return series
}

func newTestForecaster(t *testing.T, store *fakeStore, opts ...ForecasterOption) *Forecaster {
	t.Helper()
	return NewForecaster(store, newFakeMetrics(), newTestLogger(t), opts...)
}

func TestForecastEmptySeries(t *testing.T) {
	f := newTestForecaster(t, &fakeStore{})

	result, err := f.Forecast(context.Background(), models.SeriesQuery{}, 90, "")
	require.NoError(t, err)

	require.Empty(t, result.Forecast)
	require.Equal(t, 0.0, result.GrowthRate)
	require.Equal(t, models.TrendStable, result.TrendDirection)
	require.Empty(t, result.Seasonality)
	require.Equal(t, 0.0, result.ForecastTotal)
	require.Equal(t, 0.0, result.HistoricalTotal)
	require.Empty(t, result.Peaks)
	require.Empty(t, result.Troughs)
}

func TestForecastHorizonLength(t *testing.T) {
	store := &fakeStore{series: testSeries(120, func(i int) float64 {
		return 100 + 10*math.Sin(2*math.Pi*float64(i)/7) + 0.4*float64(i)
	})}
	f := newTestForecaster(t, store)

	for _, method := range []string{
		forecasting.MethodSeasonalRegression,
		forecasting.MethodDecomposition,
		forecasting.MethodStateSpace,
		forecasting.MethodTrend,
	} {
		result, err := f.Forecast(context.Background(), models.SeriesQuery{}, 45, method)
		require.NoError(t, err, method)
		require.Len(t, result.Forecast, 45, method)

		for _, p := range result.Forecast {
			require.GreaterOrEqual(t, p.LowerBound, 0.0, method)
			require.LessOrEqual(t, p.LowerBound, p.Prediction, method)
			require.GreaterOrEqual(t, p.UpperBound, p.Prediction, method)
		}
	}
}

func TestForecastFivePointsFallsToTrendLine(t *testing.T) {
	// y = 10 + 2i: every richer model refuses 5 points and the chain
	// ends at the least-squares line.
	store := &fakeStore{series: testSeries(5, func(i int) float64 { return 10 + 2*float64(i) })}
	f := newTestForecaster(t, store)

	result, err := f.Forecast(context.Background(), models.SeriesQuery{}, 10, forecasting.MethodSeasonalRegression)
	require.NoError(t, err)
	require.Len(t, result.Forecast, 10)
	require.Empty(t, result.Seasonality)

	for i, p := range result.Forecast {
		want := 10 + 2*float64(5+i)
		require.InDelta(t, want, p.Prediction, 1e-9)
	}
}

func TestForecastUnknownMethodMatchesDefault(t *testing.T) {
	store := &fakeStore{series: testSeries(150, func(i int) float64 {
		return 80 + 8*math.Sin(2*math.Pi*float64(i)/7) + 0.2*float64(i)
	})}
	f := newTestForecaster(t, store)

	unknown, err := f.Forecast(context.Background(), models.SeriesQuery{}, 30, "not-a-real-method")
	require.NoError(t, err)
	byDefault, err := f.Forecast(context.Background(), models.SeriesQuery{}, 30, "")
	require.NoError(t, err)

	require.Equal(t, byDefault, unknown)
}

func TestForecastScenarioWeeklyWave(t *testing.T) {
	store := &fakeStore{series: testSeries(400, func(i int) float64 {
		return 100 + 10*math.Sin(2*math.Pi*float64(i)/7) + 0.5*float64(i)
	})}
	f := newTestForecaster(t, store)

	result, err := f.Forecast(context.Background(), models.SeriesQuery{}, 90, forecasting.MethodDecomposition)
	require.NoError(t, err)
	require.Equal(t, models.TrendUpward, result.TrendDirection)
	require.Greater(t, result.Seasonality["seasonal_strength"], 0.0)

	// The last week of history averages near 100 + 0.5*396; the
	// forecast continues the trend, so the 90-day total lands in the
	// same region scaled up by the slope.
	lastWeekMean := 0.0
	for i := 393; i < 400; i++ {
		lastWeekMean += store.series[i].Value
	}
	lastWeekMean /= 7
	require.InDelta(t, 90*lastWeekMean, result.ForecastTotal, 0.3*90*lastWeekMean)
}

func TestForecastIdempotent(t *testing.T) {
	store := &fakeStore{series: testSeries(100, func(i int) float64 {
		return 50 + 5*math.Sin(2*math.Pi*float64(i)/7) + 0.3*float64(i)
	})}
	f := newTestForecaster(t, store)

	a, err := f.Forecast(context.Background(), models.SeriesQuery{}, 60, forecasting.MethodDecomposition)
	require.NoError(t, err)
	b, err := f.Forecast(context.Background(), models.SeriesQuery{}, 60, forecasting.MethodDecomposition)
	require.NoError(t, err)

	require.Equal(t, a.ForecastTotal, b.ForecastTotal)
	require.Equal(t, a.GrowthRate, b.GrowthRate)
}

func TestForecastCached(t *testing.T) {
	store := &fakeStore{series: testSeries(50, func(i int) float64 { return 20 + float64(i) })}
	mc := cache.NewMemoryCache()
	defer mc.Close()
	f := newTestForecaster(t, store, WithCache(mc, time.Minute, time.Minute))

	a, err := f.Forecast(context.Background(), models.SeriesQuery{}, 30, "")
	require.NoError(t, err)
	b, err := f.Forecast(context.Background(), models.SeriesQuery{}, 30, "")
	require.NoError(t, err)

	require.Equal(t, 1, store.loads)
	require.Equal(t, a.ForecastTotal, b.ForecastTotal)
	require.Len(t, b.Forecast, 30)
}

func TestForecastGrowthRateShortHorizon(t *testing.T) {
	store := &fakeStore{series: testSeries(60, func(i int) float64 { return 100 + float64(i) })}
	f := newTestForecaster(t, store)

	result, err := f.Forecast(context.Background(), models.SeriesQuery{}, 29, forecasting.MethodTrend)
	require.NoError(t, err)
	require.Equal(t, 0.0, result.GrowthRate)
	require.Equal(t, models.TrendStable, result.TrendDirection)
}

func TestGrowthRateZeroStart(t *testing.T) {
	series := testSeries(3, func(i int) float64 { return 0 })
	points := []forecasting.PredictionPoint{
		{Date: series[2].Date.AddDate(0, 0, 90), Value: 10},
	}
	require.Equal(t, 0.0, growthRate(series, points))
}

func TestGrowthRateCompound(t *testing.T) {
	series := testSeries(10, func(i int) float64 { return 100 })
	points := []forecasting.PredictionPoint{
		{Date: series[9].Date.AddDate(0, 0, 60), Value: 121},
	}
	// Two 30-day months, 100 -> 121 is 10% compounded monthly.
	require.InDelta(t, 0.10, growthRate(series, points), 1e-9)
}

func TestFindExtremes(t *testing.T) {
	forecast := []models.ForecastPoint{
		{Date: "2024-01-01", Prediction: 5},
		{Date: "2024-01-02", Prediction: 9}, // peak
		{Date: "2024-01-03", Prediction: 3}, // trough
		{Date: "2024-01-04", Prediction: 7}, // peak
		{Date: "2024-01-05", Prediction: 7}, // tie, never flagged
		{Date: "2024-01-06", Prediction: 2},
	}

	peaks, troughs := findExtremes(forecast)
	require.Len(t, peaks, 2)
	require.Len(t, troughs, 1)

	// Peaks sorted by value descending.
	require.Equal(t, 9.0, peaks[0].Value)
	require.Equal(t, 7.0, peaks[1].Value)
	require.Equal(t, 3.0, troughs[0].Value)
}

func TestFindExtremesTruncatesToFive(t *testing.T) {
	// Long alternating sequence yields many peaks and troughs.
	forecast := make([]models.ForecastPoint, 40)
	for i := range forecast {
		v := 10.0 + float64(i%2)*float64(i)
		forecast[i] = models.ForecastPoint{Date: "2024-01-01", Prediction: v}
	}

	peaks, troughs := findExtremes(forecast)
	require.LessOrEqual(t, len(peaks), 5)
	require.LessOrEqual(t, len(troughs), 5)

	for i := 1; i < len(peaks); i++ {
		require.GreaterOrEqual(t, peaks[i-1].Value, peaks[i].Value)
	}
	for i := 1; i < len(troughs); i++ {
		require.LessOrEqual(t, troughs[i-1].Value, troughs[i].Value)
	}
}

func TestForecastUpstreamFailurePropagates(t *testing.T) {
	wantErr := errors.New("clickhouse unavailable")
	f := newTestForecaster(t, &fakeStore{err: wantErr})

	_, err := f.Forecast(context.Background(), models.SeriesQuery{}, 90, "")
	require.ErrorIs(t, err, wantErr)
}

func TestForecastByCategory(t *testing.T) {
	store := &fakeStore{
		series:     testSeries(40, func(i int) float64 { return 30 + float64(i) }),
		categories: []string{"Furniture", "Technology"},
	}
	f := newTestForecaster(t, store)

	results, err := f.ForecastByCategory(context.Background(), models.SeriesQuery{}, 30, "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Contains(t, results, "Furniture")
	require.Contains(t, results, "Technology")
	for _, r := range results {
		require.Len(t, r.Forecast, 30)
	}
}

func TestHealthReflectsStore(t *testing.T) {
	f := newTestForecaster(t, &fakeStore{})
	require.NoError(t, f.Health(context.Background()))

	wantErr := errors.New("ping failed")
	f = newTestForecaster(t, &fakeStore{err: wantErr})
	require.ErrorIs(t, f.Health(context.Background()), wantErr)
}

func TestForecastByRegion(t *testing.T) {
	store := &fakeStore{
		series:  testSeries(40, func(i int) float64 { return 30 + float64(i) }),
		regions: []string{"East", "West"},
	}
	f := newTestForecaster(t, store)

	results, err := f.ForecastByRegion(context.Background(), models.SeriesQuery{}, 15, "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Contains(t, results, "East")
	require.Contains(t, results, "West")
}
