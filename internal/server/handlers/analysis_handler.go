package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/service/analysis"
)

// AnalysisHandler serves AI analyses and feed optimization.
type AnalysisHandler struct {
	svc    *analysis.Service
	logger *zap.Logger
}

func NewAnalysisHandler(svc *analysis.Service, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, logger: nopIfNil(logger)}
}

func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req analysis.Request
	if !bindJSON(c, h.logger, &req) {
		return
	}
	resp, err := h.svc.Run(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnalysisHandler) OptimizeFeed(c *gin.Context) {
	var req analysis.FeedRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	resp, err := h.svc.OptimizeFeed(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List returns stored analysis records, optionally filtered by type.
func (h *AnalysisHandler) List(c *gin.Context) {
	records, err := h.svc.ListAnalyses(c.Request.Context(), c.Query("type"), intQuery(c, "limit"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": records})
}
