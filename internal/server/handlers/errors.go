package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmbook/internal/domain/models"
	"github.com/mamadbah2/farmbook/internal/service/entries"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entries.ErrProductRequired),
		errors.Is(err, entries.ErrInvalidDirection),
		errors.Is(err, entries.ErrInvalidEventType),
		errors.Is(err, entries.ErrInvalidEggsPerRack):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// pathID reads a positive numeric path parameter. Anything else is treated
// as a missing row.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrNotFound.Error()})
		return 0, false
	}
	return uint(id), true
}
