// Package handlers adapts the farm services to gin.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
	"github.com/mamadbah2/layerfarm/internal/service/analysis"
	"github.com/mamadbah2/layerfarm/internal/service/reporting"
)

// UsernameKey is the gin context key under which the access gate stores the
// authenticated username.
const UsernameKey = "username"

const (
	msgServerError   = "Terjadi kesalahan server"
	msgInvalidBody   = "Data tidak valid"
	msgAIUnavailable = "Layanan AI tidak tersedia"
	msgAnalysisError = "Terjadi kesalahan saat melakukan analisis"
)

// respondError maps service errors to status codes. Unexpected errors are
// logged and hidden behind a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var modelErr *models.Error
	switch {
	case errors.As(err, &modelErr) && errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": modelErr.Message})
	case errors.As(err, &modelErr) && errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": modelErr.Message})
	case errors.Is(err, analysis.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgAIUnavailable})
	case errors.Is(err, analysis.ErrCompletion):
		logger.Error("analysis failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgAnalysisError})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
	}
}

// bindJSON decodes the request body and answers 400 on malformed input.
func bindJSON(c *gin.Context, logger *zap.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		logger.Debug("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return false
	}
	return true
}

// periodQuery reads the startDate and endDate query parameters.
func periodQuery(c *gin.Context) (reporting.Period, error) {
	return reporting.ParsePeriod(c.Query("startDate"), c.Query("endDate"))
}

func intQuery(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}

// recordedBy returns explicit when set, otherwise the authenticated username.
func recordedBy(c *gin.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return c.GetString(UsernameKey)
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
