package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmbook/internal/domain/models"
	"github.com/mamadbah2/farmbook/internal/service/metrics"
)

// DashboardSource computes the whole dashboard.
type DashboardSource interface {
	Dashboard(ctx context.Context) (metrics.Dashboard, error)
}

// Engine exposes the individual summaries.
type Engine interface {
	Financial(ctx context.Context, r models.DateRange) (metrics.FinancialSummary, error)
	Eggs(ctx context.Context) (metrics.EggSummary, error)
	Chickens(ctx context.Context) (metrics.ChickenSummary, error)
	Production(ctx context.Context) (metrics.ProductionSummary, error)
	Ponds(ctx context.Context) ([]metrics.PondSummary, error)
	Flocks(ctx context.Context) ([]metrics.ChickenSummary, error)
}

// MetricsHandler serves the derived figures as JSON.
type MetricsHandler struct {
	dashboards DashboardSource
	engine     Engine
	logger     *zap.Logger
}

// NewMetricsHandler constructs the read-side HTTP adapter.
func NewMetricsHandler(dashboards DashboardSource, engine Engine, logger *zap.Logger) *MetricsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsHandler{dashboards: dashboards, engine: engine, logger: logger}
}

// Dashboard returns every summary for today.
func (h *MetricsHandler) Dashboard(c *gin.Context) {
	d, err := h.dashboards.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Summary returns income, expense and profit. Optional from/to query
// parameters (YYYY-MM-DD) bound the range; malformed bounds are rejected.
func (h *MetricsHandler) Summary(c *gin.Context) {
	var r models.DateRange
	for _, bound := range []struct {
		param string
		dst   *models.Date
	}{{"from", &r.From}, {"to", &r.To}} {
		raw := c.Query(bound.param)
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		*bound.dst = d
	}

	s, err := h.engine.Financial(c.Request.Context(), r)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Eggs returns the egg inventory.
func (h *MetricsHandler) Eggs(c *gin.Context) {
	s, err := h.engine.Eggs(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Chickens returns the tracked flock's headcount and production rates.
func (h *MetricsHandler) Chickens(c *gin.Context) {
	ctx := c.Request.Context()
	headcount, err := h.engine.Chickens(ctx)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	production, err := h.engine.Production(ctx)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"headcount": headcount, "production": production})
}

// PondOccupancy returns occupancy for every pond.
func (h *MetricsHandler) PondOccupancy(c *gin.Context) {
	ponds, err := h.engine.Ponds(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ponds)
}

// FlockSummaries returns the headcount of every flock.
func (h *MetricsHandler) FlockSummaries(c *gin.Context) {
	flocks, err := h.engine.Flocks(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, flocks)
}
