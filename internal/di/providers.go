package di

import (
	"context"
	"fmt"
	"time"

	"SalesPulse/internal/domain/repository"
	"SalesPulse/internal/handler/api"
	internalrepo "SalesPulse/internal/repository"
	"SalesPulse/internal/usecase"
	pkgcache "SalesPulse/pkg/cache"
	pkgch "SalesPulse/pkg/clickhouse"
	"SalesPulse/pkg/config"
	xhttp "SalesPulse/pkg/http"
	applogger "SalesPulse/pkg/logger"
	"SalesPulse/pkg/metrics"
	"SalesPulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the
// sales schema exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := append(
		[]string{fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.ClickHouse.Database)},
		internalrepo.SchemaStatements(cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table)...,
	)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the result cache: in-memory always, layered over
// Redis when enabled.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	memory := pkgcache.NewMemoryCache(
		pkgcache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
	)

	if !cfg.Cache.Redis.Enabled {
		return memory, nil
	}

	redis, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
		pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}

	return pkgcache.NewLayeredCache(memory, redis, 5*time.Minute), nil
}

// ProvideSalesStore creates ClickHouse-backed sales storage.
func ProvideSalesStore(chClient *pkgch.Client, cfg *config.Config) repository.SalesStore {
	return internalrepo.NewClickHouseSalesStore(chClient.DB(), cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table)
}

// ProvideForecaster creates the forecasting use case.
func ProvideForecaster(
	store repository.SalesStore,
	cache pkgcache.Service,
	metrics repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.Forecaster {
	return usecase.NewForecaster(store, metrics, log,
		usecase.WithCache(cache, cfg.Cache.ForecastTTL, cfg.Cache.SeasonalTTL),
		usecase.WithDefaultMethod(cfg.Forecast.DefaultMethod),
	)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(log *applogger.Logger, forecaster *usecase.Forecaster) xhttp.Handler {
	return api.NewForecastsEchoHandler(log, forecaster)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	chClient *pkgch.Client,
	cache pkgcache.Service,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, log, chClient, cache, handler)
}
