package usecase

import (
	"context"
	"fmt"
	"time"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/service/forecasting"
	"SalesPulse/pkg/cache"
	"SalesPulse/pkg/logger"
	"SalesPulse/pkg/util"
)

// seasonalityMinPoints is the minimum history needed for a calendar
// pattern analysis; below it the profile is returned all-empty.
const seasonalityMinPoints = 30

// seasonalityLookahead extends the component fit slightly beyond the
// series purely to obtain the decomposition; the extra rows are
// discarded before grouping.
const seasonalityLookahead = 30

var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var quarterLabels = []string{"Q1 (Jan-Mar)", "Q2 (Apr-Jun)", "Q3 (Jul-Sep)", "Q4 (Oct-Dec)"}

// AnalyzeSeasonality decomposes the matching series into calendar
// patterns for dashboard display. Modeling failures yield an all-empty
// profile; only a storage failure propagates.
func (f *Forecaster) AnalyzeSeasonality(ctx context.Context, q models.SeriesQuery) (*models.SeasonalityProfile, error) {
	key := cache.Key("seasonality",
		formatQueryDate(q.StartDate), formatQueryDate(q.EndDate),
		q.Category, q.Region,
	)
	profile, hit, err := cache.GetOrCompute(ctx, f.cache, key, f.seasonalTTL, func() (*models.SeasonalityProfile, error) {
		return f.computeSeasonality(ctx, q)
	})
	f.recordCache("seasonality", hit)
	return profile, err
}

func (f *Forecaster) computeSeasonality(ctx context.Context, q models.SeriesQuery) (*models.SeasonalityProfile, error) {
	series, err := f.store.LoadDailySeries(ctx, q)
	if err != nil {
		f.metrics.RecordError("upstream_load")
		return nil, fmt.Errorf("load sales series: %w", err)
	}

	if len(series) < seasonalityMinPoints {
		return models.EmptySeasonalityProfile(), nil
	}

	table, err := forecasting.NewSeasonalRegressionModel().Components(series, seasonalityLookahead)
	if err != nil {
		f.log.Warn("seasonality decomposition failed",
			logger.Int("points", len(series)),
			logger.Error(err),
		)
		f.metrics.RecordError("seasonality_fit")
		return models.EmptySeasonalityProfile(), nil
	}

	// Restrict the component rows back to dates present in the input.
	inputDates := make(map[string]struct{}, len(series))
	for _, p := range series {
		inputDates[p.Date.Format(util.DateLayout)] = struct{}{}
	}

	profile := models.EmptySeasonalityProfile()
	profile.Weekly = groupByWeekday(table, inputDates)
	profile.Monthly = groupByMonth(table, inputDates)
	profile.Quarterly = quarterlyFromMonthly(profile.Monthly)
	profile.Daily = groupByHour(table, inputDates)

	return profile, nil
}

// groupByWeekday averages the weekly component per weekday name.
func groupByWeekday(table *forecasting.ComponentTable, inputDates map[string]struct{}) map[string]float64 {
	sums := make(map[time.Weekday]float64)
	counts := make(map[time.Weekday]int)
	for i, d := range table.Dates {
		if _, ok := inputDates[d.Format(util.DateLayout)]; !ok {
			continue
		}
		sums[d.Weekday()] += table.Weekly[i]
		counts[d.Weekday()]++
	}

	out := map[string]float64{}
	for i, name := range weekdayNames {
		wd := time.Weekday((i + 1) % 7) // Monday first
		if counts[wd] > 0 {
			out[name] = sums[wd] / float64(counts[wd])
		}
	}
	return out
}

// groupByMonth averages the yearly component per calendar month. The
// yearly component only exists with two or more years of history.
func groupByMonth(table *forecasting.ComponentTable, inputDates map[string]struct{}) map[string]float64 {
	out := map[string]float64{}
	if table.Yearly == nil {
		return out
	}

	sums := make(map[time.Month]float64)
	counts := make(map[time.Month]int)
	for i, d := range table.Dates {
		if _, ok := inputDates[d.Format(util.DateLayout)]; !ok {
			continue
		}
		sums[d.Month()] += table.Yearly[i]
		counts[d.Month()]++
	}

	for i, name := range monthNames {
		m := time.Month(i + 1)
		if counts[m] > 0 {
			out[name] = sums[m] / float64(counts[m])
		}
	}
	return out
}

// quarterlyFromMonthly averages month triples into quarters, but only
// when every month of the year is represented.
func quarterlyFromMonthly(monthly map[string]float64) map[string]float64 {
	out := map[string]float64{}
	if len(monthly) != 12 {
		return out
	}
	for qi, label := range quarterLabels {
		var sum float64
		for mi := 0; mi < 3; mi++ {
			sum += monthly[monthNames[qi*3+mi]]
		}
		out[label] = sum / 3
	}
	return out
}

// groupByHour averages an hourly component per hour of day, but only
// when a daily component exists and all 24 hours are represented.
// Daily-aggregated sales series never populate this.
func groupByHour(table *forecasting.ComponentTable, inputDates map[string]struct{}) map[string]float64 {
	out := map[string]float64{}
	if len(table.Daily) != len(table.Dates) || len(table.Daily) == 0 {
		return out
	}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for i, d := range table.Dates {
		if _, ok := inputDates[d.Format(util.DateLayout)]; !ok {
			continue
		}
		sums[d.Hour()] += table.Daily[i]
		counts[d.Hour()]++
	}
	if len(counts) != 24 {
		return out
	}

	for hour := 0; hour < 24; hour++ {
		out[fmt.Sprintf("%02d:00", hour)] = sums[hour] / float64(counts[hour])
	}
	return out
}
