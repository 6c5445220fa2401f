package repository

import (
	"context"

	"SalesPulse/internal/domain/models"
)

// SalesStore loads aggregated daily sales series from storage.
type SalesStore interface {
	// LoadDailySeries returns the daily sales series matching the query,
	// one point per date, sorted ascending, duplicates summed.
	LoadDailySeries(ctx context.Context, q models.SeriesQuery) ([]models.HistoricalPoint, error)

	// Categories lists distinct product categories in the dataset.
	Categories(ctx context.Context) ([]string, error)

	// Regions lists distinct sales regions in the dataset.
	Regions(ctx context.Context) ([]string, error)

	// Health verifies storage connectivity.
	Health(ctx context.Context) error
}

// Metrics records operational counters for forecasting work.
type Metrics interface {
	RecordForecast(model string)
	RecordFallback(from, to string)
	RecordError(kind string)
	RecordCache(prefix, outcome string)
	RecordFitDuration(model string, seconds float64)
}
