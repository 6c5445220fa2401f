package api

import (
	"net/http"
	"time"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/usecase"
	xhttp "SalesPulse/pkg/http"
	xlogger "SalesPulse/pkg/logger"
	"SalesPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// ForecastsEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type ForecastsEchoHandler struct {
	logger     *xlogger.Logger
	forecaster *usecase.Forecaster
}

func NewForecastsEchoHandler(logger *xlogger.Logger, forecaster *usecase.Forecaster) *ForecastsEchoHandler {
	return &ForecastsEchoHandler{logger: logger, forecaster: forecaster}
}

func (h *ForecastsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/forecasts")
	g.GET("/sales", h.Sales)
	g.GET("/by-category", h.ByCategory)
	g.GET("/by-region", h.ByRegion)
	g.GET("/seasonality", h.Seasonality)

	e.GET("/healthz", h.Health)
}

func (h *ForecastsEchoHandler) Sales(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	q := seriesQuery(req.StartDate, req.EndDate, req.DateRange, req.Category, req.Region)

	res, err := h.forecaster.Forecast(c.Request().Context(), q, req.Horizon, req.Method)
	if err != nil {
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("sales data unavailable").WithError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastsEchoHandler) ByCategory(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	q := seriesQuery(req.StartDate, req.EndDate, req.DateRange, "", req.Region)

	res, err := h.forecaster.ForecastByCategory(c.Request().Context(), q, req.Horizon, req.Method)
	if err != nil {
		h.logger.Error("forecast by category usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("sales data unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastsEchoHandler) ByRegion(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	q := seriesQuery(req.StartDate, req.EndDate, req.DateRange, req.Category, "")

	res, err := h.forecaster.ForecastByRegion(c.Request().Context(), q, req.Horizon, req.Method)
	if err != nil {
		h.logger.Error("forecast by region usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("sales data unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastsEchoHandler) Seasonality(c echo.Context) error {
	req := &models.SeasonalityRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	q := seriesQuery(req.StartDate, req.EndDate, req.DateRange, req.Category, req.Region)

	res, err := h.forecaster.AnalyzeSeasonality(c.Request().Context(), q)
	if err != nil {
		h.logger.Error("seasonality usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("sales data unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastsEchoHandler) Health(c echo.Context) error {
	if err := h.forecaster.Health(c.Request().Context()); err != nil {
		h.logger.Error("health check failed", xlogger.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// seriesQuery resolves explicit dates or a named preset into the series
// filter. Explicit dates win over the preset.
func seriesQuery(startDate, endDate, preset, category, region string) models.SeriesQuery {
	q := models.SeriesQuery{Category: category, Region: region}

	if startDate == "" && endDate == "" && preset != "" {
		q.StartDate, q.EndDate = util.ParseDateRange(preset, time.Now().UTC())
		return q
	}

	if t, ok := util.ParseDate(startDate); ok {
		q.StartDate = &t
	}
	if t, ok := util.ParseDate(endDate); ok {
		q.EndDate = &t
	}
	return q
}
