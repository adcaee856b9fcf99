package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
	"github.com/mamadbah2/layerfarm/internal/service/finance"
)

// FinanceHandler serves receivables, payables and cash entries.
type FinanceHandler struct {
	svc    *finance.Service
	logger *zap.Logger
}

func NewFinanceHandler(svc *finance.Service, logger *zap.Logger) *FinanceHandler {
	return &FinanceHandler{svc: svc, logger: nopIfNil(logger)}
}

func (h *FinanceHandler) ListReceivables(c *gin.Context) {
	rows, summary, err := h.svc.ListReceivables(c.Request.Context(), models.DebtStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"piutang": rows, "summary": summary})
}

func (h *FinanceHandler) CreateReceivable(c *gin.Context) {
	var in finance.DebtInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	row, err := h.svc.CreateReceivable(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Piutang berhasil ditambahkan", "piutang": row})
}

func (h *FinanceHandler) PayReceivable(c *gin.Context) {
	var in finance.PaymentInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	row, err := h.svc.PayReceivable(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pembayaran berhasil dicatat", "piutang": row})
}

func (h *FinanceHandler) ListPayables(c *gin.Context) {
	rows, summary, err := h.svc.ListPayables(c.Request.Context(), models.DebtStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"utang": rows, "summary": summary})
}

func (h *FinanceHandler) CreatePayable(c *gin.Context) {
	var in finance.DebtInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	row, err := h.svc.CreatePayable(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Utang berhasil ditambahkan", "utang": row})
}

func (h *FinanceHandler) PayPayable(c *gin.Context) {
	var in finance.PaymentInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	row, err := h.svc.PayPayable(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pembayaran berhasil dicatat", "utang": row})
}

// cashKeys holds the response key and create message per direction.
var cashKeys = map[models.CashDirection][2]string{
	models.CashIncome:  {"pemasukan", "Pemasukan berhasil ditambahkan"},
	models.CashExpense: {"pengeluaran", "Pengeluaran berhasil ditambahkan"},
}

// ListCash returns a gin handler listing entries of one direction.
func (h *FinanceHandler) ListCash(direction models.CashDirection) gin.HandlerFunc {
	key := cashKeys[direction][0]
	return func(c *gin.Context) {
		period, err := periodQuery(c)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		entries, summary, err := h.svc.ListCash(c.Request.Context(), models.CashFilter{
			Direction: direction,
			Category:  c.Query("category"),
			From:      period.Start,
			To:        period.End,
		})
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{key: entries, "summary": summary})
	}
}

// CreateCash returns a gin handler recording an entry of one direction.
func (h *FinanceHandler) CreateCash(direction models.CashDirection) gin.HandlerFunc {
	key, message := cashKeys[direction][0], cashKeys[direction][1]
	return func(c *gin.Context) {
		var in finance.CashInput
		if !bindJSON(c, h.logger, &in) {
			return
		}
		in.RecordedBy = recordedBy(c, in.RecordedBy)
		entry, err := h.svc.CreateCash(c.Request.Context(), direction, in)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": message, key: entry})
	}
}
