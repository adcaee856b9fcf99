package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
	"github.com/mamadbah2/layerfarm/internal/service/inventory"
)

// InventoryHandler serves stock items and egg prices.
type InventoryHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

func NewInventoryHandler(svc *inventory.Service, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, logger: nopIfNil(logger)}
}

// ListStock accepts an optional category filter.
func (h *InventoryHandler) ListStock(c *gin.Context) {
	items, err := h.svc.ListStock(c.Request.Context(), models.StockCategory(c.Query("category")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stok": items})
}

func (h *InventoryHandler) GetStock(c *gin.Context) {
	item, err := h.svc.GetStock(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stok": item})
}

func (h *InventoryHandler) CreateStock(c *gin.Context) {
	var in inventory.StockInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	item, err := h.svc.CreateStock(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Stok berhasil ditambahkan", "stok": item})
}

func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	var in inventory.StockInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	item, err := h.svc.UpdateStock(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stok berhasil diupdate", "stok": item})
}

func (h *InventoryHandler) DeleteStock(c *gin.Context) {
	if err := h.svc.DeleteStock(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stok berhasil dihapus"})
}

// ListEggPrices returns recent prices and the latest price per grade.
func (h *InventoryHandler) ListEggPrices(c *gin.Context) {
	prices, latest, err := h.svc.ListEggPrices(c.Request.Context(), c.Query("grade"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hargaTelur": prices, "latestPrices": latest})
}

func (h *InventoryHandler) CreateEggPrice(c *gin.Context) {
	var in inventory.EggPriceInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	price, err := h.svc.CreateEggPrice(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Harga telur berhasil ditambahkan", "hargaTelur": price})
}
