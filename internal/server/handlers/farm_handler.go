package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
	"github.com/mamadbah2/layerfarm/internal/service/farm"
)

// FarmHandler serves sheds, daily logs and bird health.
type FarmHandler struct {
	svc    *farm.Service
	logger *zap.Logger
}

// NewFarmHandler constructs the HTTP handler adapter.
func NewFarmHandler(svc *farm.Service, logger *zap.Logger) *FarmHandler {
	return &FarmHandler{svc: svc, logger: nopIfNil(logger)}
}

func (h *FarmHandler) ListSheds(c *gin.Context) {
	sheds, err := h.svc.ListSheds(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kandang": sheds})
}

func (h *FarmHandler) GetShed(c *gin.Context) {
	shed, err := h.svc.GetShed(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kandang": shed})
}

func (h *FarmHandler) CreateShed(c *gin.Context) {
	var in farm.ShedInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	shed, err := h.svc.CreateShed(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Kandang berhasil dibuat", "kandang": shed})
}

func (h *FarmHandler) UpdateShed(c *gin.Context) {
	var in farm.ShedInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	shed, err := h.svc.UpdateShed(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Kandang berhasil diupdate", "kandang": shed})
}

func (h *FarmHandler) DeleteShed(c *gin.Context) {
	if err := h.svc.DeleteShed(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Kandang berhasil dihapus"})
}

// ListDailyLogs accepts shedId, startDate, endDate and limit filters.
func (h *FarmHandler) ListDailyLogs(c *gin.Context) {
	period, err := periodQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	logs, err := h.svc.ListDailyLogs(c.Request.Context(), models.DailyLogFilter{
		ShedID: c.Query("shedId"),
		From:   period.Start,
		To:     period.End,
		Limit:  intQuery(c, "limit"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dataHarian": logs})
}

func (h *FarmHandler) GetDailyLog(c *gin.Context) {
	log, err := h.svc.GetDailyLog(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dataHarian": log})
}

func (h *FarmHandler) CreateDailyLog(c *gin.Context) {
	var in farm.DailyLogInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	in.RecordedBy = recordedBy(c, in.RecordedBy)
	log, err := h.svc.CreateDailyLog(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Data harian berhasil disimpan", "dataHarian": log})
}

func (h *FarmHandler) DeleteDailyLog(c *gin.Context) {
	if err := h.svc.DeleteDailyLog(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Data harian berhasil dihapus"})
}

func (h *FarmHandler) ListHealthRecords(c *gin.Context) {
	period, err := periodQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	records, totals, err := h.svc.ListHealthRecords(c.Request.Context(), models.HealthFilter{
		ShedID: c.Query("shedId"),
		From:   period.Start,
		To:     period.End,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kesehatanAyam": records, "summary": totals})
}

func (h *FarmHandler) CreateHealthRecord(c *gin.Context) {
	var in farm.HealthRecordInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	in.RecordedBy = recordedBy(c, in.RecordedBy)
	record, err := h.svc.CreateHealthRecord(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Data kesehatan berhasil ditambahkan", "kesehatanAyam": record})
}

func (h *FarmHandler) ListVaccines(c *gin.Context) {
	vaccines, err := h.svc.ListVaccines(c.Request.Context(), models.HealthFilter{
		ShedID: c.Query("shedId"),
		Status: models.VaccineStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jadwalVaksin": vaccines})
}

func (h *FarmHandler) CreateVaccine(c *gin.Context) {
	var in farm.VaccineInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	vaccine, err := h.svc.CreateVaccine(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Jadwal vaksin berhasil ditambahkan", "jadwalVaksin": vaccine})
}

func (h *FarmHandler) CompleteVaccine(c *gin.Context) {
	vaccine, err := h.svc.CompleteVaccine(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vaksinasi selesai", "jadwalVaksin": vaccine})
}
