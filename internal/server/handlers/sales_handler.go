package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
	"github.com/mamadbah2/layerfarm/internal/service/sales"
)

// SalesHandler serves sales invoices.
type SalesHandler struct {
	svc    *sales.Service
	logger *zap.Logger
}

func NewSalesHandler(svc *sales.Service, logger *zap.Logger) *SalesHandler {
	return &SalesHandler{svc: svc, logger: nopIfNil(logger)}
}

// List returns invoices in the startDate/endDate window with totals.
func (h *SalesHandler) List(c *gin.Context) {
	period, err := periodQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invoices, summary, err := h.svc.List(c.Request.Context(), models.SalesFilter{
		From:  period.Start,
		To:    period.End,
		Limit: intQuery(c, "limit"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"penjualan": invoices, "summary": summary})
}

func (h *SalesHandler) Get(c *gin.Context) {
	invoice, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"penjualan": invoice})
}

func (h *SalesHandler) NextNumber(c *gin.Context) {
	number, err := h.svc.NextNumber(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoiceNumber": number})
}

func (h *SalesHandler) Create(c *gin.Context) {
	var in sales.Input
	if !bindJSON(c, h.logger, &in) {
		return
	}
	if in.RecordedBy == nil {
		if username := recordedBy(c, ""); username != "" {
			in.RecordedBy = &username
		}
	}
	invoice, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Penjualan berhasil ditambahkan", "penjualan": invoice})
}

func (h *SalesHandler) Update(c *gin.Context) {
	var in sales.Input
	if !bindJSON(c, h.logger, &in) {
		return
	}
	invoice, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Penjualan berhasil diupdate", "penjualan": invoice})
}

func (h *SalesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Penjualan berhasil dihapus"})
}
