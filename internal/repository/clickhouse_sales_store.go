package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/domain/repository"
)

// ClickHouseSalesStore implements SalesStore over a ClickHouse sales table.
type ClickHouseSalesStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseSalesStore creates ClickHouse-backed sales storage.
func NewClickHouseSalesStore(db *sql.DB, table string) repository.SalesStore {
	return &ClickHouseSalesStore{db: db, table: table}
}

// SchemaStatements returns idempotent DDL for the sales table.
func SchemaStatements(table string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			order_date Date,
			category LowCardinality(String),
			region LowCardinality(String),
			sales Float64,
			quantity UInt32,
			profit Float64
		) ENGINE = MergeTree()
		ORDER BY (order_date, category, region)`, table),
	}
}

func (s *ClickHouseSalesStore) LoadDailySeries(ctx context.Context, q models.SeriesQuery) ([]models.HistoricalPoint, error) {
	var (
		conds []string
		args  []interface{}
	)
	if q.StartDate != nil {
		conds = append(conds, "order_date >= ?")
		args = append(args, *q.StartDate)
	}
	if q.EndDate != nil {
		conds = append(conds, "order_date <= ?")
		args = append(args, *q.EndDate)
	}
	if q.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, q.Category)
	}
	if q.Region != "" {
		conds = append(conds, "region = ?")
		args = append(args, q.Region)
	}

	query := fmt.Sprintf("SELECT order_date, sum(sales) FROM %s", s.table)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " GROUP BY order_date ORDER BY order_date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load daily series: %w", err)
	}
	defer rows.Close()

	var series []models.HistoricalPoint
	for rows.Next() {
		var p models.HistoricalPoint
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, fmt.Errorf("scan daily series: %w", err)
		}
		series = append(series, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load daily series: %w", err)
	}
	return series, nil
}

func (s *ClickHouseSalesStore) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "category")
}

func (s *ClickHouseSalesStore) Regions(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "region")
}

func (s *ClickHouseSalesStore) distinct(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY %s ASC", column, s.table, column)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		if v != "" {
			values = append(values, v)
		}
	}
	return values, rows.Err()
}

// Health verifies storage connectivity.
func (s *ClickHouseSalesStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
