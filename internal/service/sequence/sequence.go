// Package sequence hands out human readable document numbers backed by
// transactional counters.
package sequence

import (
	"context"
	"fmt"
	"time"
)

// Counter increments a named counter atomically.
type Counter interface {
	NextValue(ctx context.Context, name string) (int64, error)
	CurrentValue(ctx context.Context, name string) (int64, error)
}

// Service formats counter values into document numbers.
type Service struct {
	counter Counter
}

// NewService wires a sequence service.
func NewService(counter Counter) *Service {
	return &Service{counter: counter}
}

// NextInvoiceNumber returns INV{yyyy}{mm}{nnnn}. Numbering restarts every month.
func (s *Service) NextInvoiceNumber(ctx context.Context, date time.Time) (string, error) {
	period := date.Format("200601")
	n, err := s.counter.NextValue(ctx, invoiceCounter(period))
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return formatInvoice(period, n), nil
}

// PeekInvoiceNumber returns the number NextInvoiceNumber would hand out after
// skipping ahead numbers, without consuming the counter.
func (s *Service) PeekInvoiceNumber(ctx context.Context, date time.Time, ahead int) (string, error) {
	period := date.Format("200601")
	n, err := s.counter.CurrentValue(ctx, invoiceCounter(period))
	if err != nil {
		return "", fmt.Errorf("peek invoice number: %w", err)
	}
	return formatInvoice(period, n+1+int64(ahead)), nil
}

func invoiceCounter(period string) string { return "invoice:" + period }

func formatInvoice(period string, n int64) string {
	return fmt.Sprintf("INV%s%04d", period, n)
}
