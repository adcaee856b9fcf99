package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
	"github.com/mamadbah2/layerfarm/internal/service/notify"
)

// NotificationHandler lets operators push a message through the configured notifier.
type NotificationHandler struct {
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewNotificationHandler(notifier notify.Notifier, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, logger: nopIfNil(logger)}
}

// Send delivers an outbound message.
func (h *NotificationHandler) Send(c *gin.Context) {
	var msg models.OutboundMessage
	if !bindJSON(c, h.logger, &msg) {
		return
	}

	if err := h.notifier.Send(c.Request.Context(), msg); err != nil {
		h.logger.Error("failed sending outbound", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Pesan gagal dikirim"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Pesan berhasil dikirim"})
}
