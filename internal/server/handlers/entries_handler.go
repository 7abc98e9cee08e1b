package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmbook/internal/domain/models"
	"github.com/mamadbah2/farmbook/internal/service/entries"
)

// EntriesHandler exposes the write boundary and the raw record listings.
type EntriesHandler struct {
	svc    *entries.Service
	logger *zap.Logger
}

// NewEntriesHandler constructs the write-side HTTP adapter.
func NewEntriesHandler(svc *entries.Service, logger *zap.Logger) *EntriesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntriesHandler{svc: svc, logger: logger}
}

func (h *EntriesHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		h.logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

type settingsInput struct {
	EggsPerRack models.FormValue `form:"eggs_per_rack" json:"eggs_per_rack"`
}

// Settings returns the current settings.
func (h *EntriesHandler) Settings(c *gin.Context) {
	n, err := h.svc.EggsPerRack(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"eggs_per_rack": n})
}

// SaveSettings validates and stores the settings.
func (h *EntriesHandler) SaveSettings(c *gin.Context) {
	var in settingsInput
	if !h.bind(c, &in) {
		return
	}
	n, err := h.svc.SaveEggsPerRack(c.Request.Context(), in.EggsPerRack.String())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"eggs_per_rack": n})
}

// Transactions lists transactions, newest first.
func (h *EntriesHandler) Transactions(c *gin.Context) {
	rows, err := h.svc.ListTransactions(c.Request.Context(), c.Query("direction"), c.Query("product_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// CreateTransaction books a transaction.
func (h *EntriesHandler) CreateTransaction(c *gin.Context) {
	var in entries.TransactionInput
	if !h.bind(c, &in) {
		return
	}
	tx, err := h.svc.RecordTransaction(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// Products lists the catalog.
func (h *EntriesHandler) Products(c *gin.Context) {
	products, err := h.svc.Products(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Ponds lists ponds.
func (h *EntriesHandler) Ponds(c *gin.Context) {
	ponds, err := h.svc.Ponds(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ponds)
}

// Pond returns a pond with its events.
func (h *EntriesHandler) Pond(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.PondDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdatePond changes pond geometry.
func (h *EntriesHandler) UpdatePond(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in entries.PondInput
	if !h.bind(c, &in) {
		return
	}
	pond, err := h.svc.UpdatePond(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pond)
}

// CreateFishEvent logs a pond event.
func (h *EntriesHandler) CreateFishEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in entries.FishEventInput
	if !h.bind(c, &in) {
		return
	}
	event, err := h.svc.RecordFishEvent(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// Flocks lists flocks.
func (h *EntriesHandler) Flocks(c *gin.Context) {
	flocks, err := h.svc.Flocks(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, flocks)
}

// Flock returns a flock with its daily logs.
func (h *EntriesHandler) Flock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.FlockDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type flockInput struct {
	InitialCount models.FormValue `form:"initial_count" json:"initial_count"`
}

// UpdateFlock sets a flock's initial count.
func (h *EntriesHandler) UpdateFlock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in flockInput
	if !h.bind(c, &in) {
		return
	}
	flock, err := h.svc.UpdateFlockInitialCount(c.Request.Context(), id, in.InitialCount.String())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, flock)
}

// CreateChickenLog stores a daily log.
func (h *EntriesHandler) CreateChickenLog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in entries.ChickenLogInput
	if !h.bind(c, &in) {
		return
	}
	log, err := h.svc.RecordChickenLog(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}
