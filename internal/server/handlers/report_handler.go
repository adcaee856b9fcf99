package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/service/reporting"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves spreadsheet exports.
type ReportHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

func NewReportHandler(svc *reporting.Service, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: nopIfNil(logger)}
}

// Export answers with an xlsx workbook for the startDate/endDate window.
func (h *ReportHandler) Export(c *gin.Context) {
	period, err := periodQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Export(c.Request.Context(), period, &buf); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, reporting.ExportFileName(period)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
