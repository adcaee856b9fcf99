// Package notify delivers short text messages such as the scheduled digest.
package notify

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

const sendTimeout = 10 * time.Second

// ErrNoRecipient is returned when neither the message nor the notifier names a recipient.
var ErrNoRecipient = errors.New("no recipient for outbound message")

// Notifier delivers an outbound message.
type Notifier interface {
	Send(ctx context.Context, msg models.OutboundMessage) error
}

// TextSender is the WhatsApp Cloud API surface the notifier uses.
type TextSender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// WhatsAppNotifier sends through the WhatsApp Cloud API.
type WhatsAppNotifier struct {
	client           TextSender
	defaultRecipient string
	logger           *zap.Logger
}

// NewWhatsAppNotifier wires a notifier. defaultRecipient is used when a message has no To.
func NewWhatsAppNotifier(client TextSender, defaultRecipient string, logger *zap.Logger) *WhatsAppNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppNotifier{client: client, defaultRecipient: defaultRecipient, logger: logger}
}

// Send delivers msg.
func (n *WhatsAppNotifier) Send(ctx context.Context, msg models.OutboundMessage) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		to = n.defaultRecipient
	}
	if to == "" {
		return ErrNoRecipient
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	id, err := n.client.SendText(ctx, to, msg.Message)
	if err != nil {
		return err
	}
	n.logger.Info("outbound message sent", zap.String("to", to), zap.String("message_id", id))
	return nil
}

// LogNotifier writes messages to the log. It stands in when WhatsApp is not configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier wires a log-only notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Send logs msg.
func (n *LogNotifier) Send(_ context.Context, msg models.OutboundMessage) error {
	n.logger.Info("outbound message (not delivered)",
		zap.String("to", msg.To),
		zap.Int("length", len(msg.Message)),
		zap.String("message", msg.Message),
	)
	return nil
}
