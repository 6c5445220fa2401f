package models

import (
	"encoding/json"
	"time"

	"SalesPulse/pkg/util"
)

// Trend direction classifications.
const (
	TrendUpward   = "upward"
	TrendDownward = "downward"
	TrendStable   = "stable"
)

// HistoricalPoint is one observed day of aggregated sales.
// The series handed to the models is sorted ascending by date with no
// duplicate dates; the loader sums duplicates before they get here.
type HistoricalPoint struct {
	Date  time.Time
	Value float64
}

type historicalPointJSON struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

func (p HistoricalPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(historicalPointJSON{
		Date:  p.Date.Format(util.DateLayout),
		Value: p.Value,
	})
}

func (p *HistoricalPoint) UnmarshalJSON(b []byte) error {
	var raw historicalPointJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t, err := time.Parse(util.DateLayout, raw.Date)
	if err != nil {
		return err
	}
	p.Date = t
	p.Value = raw.Value
	return nil
}

// ForecastPoint is one predicted day with its confidence band.
// Invariant: 0 <= LowerBound <= Prediction <= UpperBound.
type ForecastPoint struct {
	Date       string  `json:"date"`
	Prediction float64 `json:"prediction"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// ExtremePoint is a detected local peak or trough in a forecast.
type ExtremePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// ForecastResult is the canonical output of the forecaster. Constructed
// fresh per request and immutable once returned.
type ForecastResult struct {
	Forecast        []ForecastPoint    `json:"forecast"`
	GrowthRate      float64            `json:"growth_rate"`
	TrendDirection  string             `json:"trend_direction"`
	Seasonality     map[string]float64 `json:"seasonality"`
	ForecastTotal   float64            `json:"forecast_total"`
	HistoricalTotal float64            `json:"historical_total"`
	Peaks           []ExtremePoint     `json:"peaks"`
	Troughs         []ExtremePoint     `json:"troughs"`
}

// EmptyForecastResult returns the canonical result for an empty series.
func EmptyForecastResult() *ForecastResult {
	return &ForecastResult{
		Forecast:       []ForecastPoint{},
		TrendDirection: TrendStable,
		Seasonality:    map[string]float64{},
		Peaks:          []ExtremePoint{},
		Troughs:        []ExtremePoint{},
	}
}

// SeasonalityProfile summarizes calendar patterns for dashboard display.
// Each mapping may be empty when the data cannot support it.
type SeasonalityProfile struct {
	Daily     map[string]float64 `json:"daily"`
	Weekly    map[string]float64 `json:"weekly"`
	Monthly   map[string]float64 `json:"monthly"`
	Quarterly map[string]float64 `json:"quarterly"`
}

// EmptySeasonalityProfile returns a profile with all mappings empty.
func EmptySeasonalityProfile() *SeasonalityProfile {
	return &SeasonalityProfile{
		Daily:     map[string]float64{},
		Weekly:    map[string]float64{},
		Monthly:   map[string]float64{},
		Quarterly: map[string]float64{},
	}
}

// SeriesQuery filters the daily sales series loaded from storage.
type SeriesQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	Region    string
}
