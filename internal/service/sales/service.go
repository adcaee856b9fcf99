// Package sales records egg and bird sales invoices.
package sales

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// Repository is the storage the sales service needs.
type Repository interface {
	ListSales(ctx context.Context, filter models.SalesFilter) ([]models.SalesInvoice, error)
	FindSale(ctx context.Context, id string) (models.SalesInvoice, error)
	InvoiceNumberExists(ctx context.Context, number, excludeID string) (bool, error)
	CreateSale(ctx context.Context, invoice *models.SalesInvoice) error
	SaveSale(ctx context.Context, invoice *models.SalesInvoice) error
	DeleteSale(ctx context.Context, id string) error
}

// Numberer assigns invoice numbers.
type Numberer interface {
	NextInvoiceNumber(ctx context.Context, date time.Time) (string, error)
	PeekInvoiceNumber(ctx context.Context, date time.Time, ahead int) (string, error)
}

// maxNumberAttempts bounds how many generated numbers are skipped because an
// invoice entered by hand already holds them.
const maxNumberAttempts = 50

var errNumbersExhausted = errors.New("no free invoice number")

// Service implements invoice operations.
type Service struct {
	repo     Repository
	numberer Numberer
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a sales service.
func NewService(repo Repository, numberer Numberer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, numberer: numberer, logger: logger, now: time.Now}
}

// Input is the body of invoice create and update requests. Nil fields are
// left unchanged on update.
type Input struct {
	InvoiceNumber      *string  `json:"invoiceNumber"`
	Date               *string  `json:"date"`
	Customer           *string  `json:"customer"`
	RecordedBy         *string  `json:"recordedBy"`
	EggKg              *float64 `json:"eggKg"`
	EggCrates          *int     `json:"eggCrates"`
	CulledBirds        *int     `json:"culledBirds"`
	Pullets            *int     `json:"pullets"`
	PricePerKg         *float64 `json:"pricePerKg"`
	PricePerCrate      *float64 `json:"pricePerCrate"`
	PricePerCulledBird *float64 `json:"pricePerCulledBird"`
	PricePerPullet     *float64 `json:"pricePerPullet"`
	Paid               *float64 `json:"paid"`
	Notes              *string  `json:"notes"`
}

// List returns invoices in the filter window with their summary.
func (s *Service) List(ctx context.Context, filter models.SalesFilter) ([]models.SalesInvoice, models.SalesSummary, error) {
	invoices, err := s.repo.ListSales(ctx, filter)
	if err != nil {
		return nil, models.SalesSummary{}, err
	}
	return invoices, models.SummarizeSales(invoices), nil
}

// Get returns one invoice.
func (s *Service) Get(ctx context.Context, id string) (models.SalesInvoice, error) {
	return s.repo.FindSale(ctx, id)
}

// NextNumber previews the number a new invoice dated today would receive.
// The counter is not consumed.
func (s *Service) NextNumber(ctx context.Context) (string, error) {
	today := s.now().UTC()
	for ahead := 0; ahead < maxNumberAttempts; ahead++ {
		number, err := s.numberer.PeekInvoiceNumber(ctx, today, ahead)
		if err != nil {
			return "", err
		}
		taken, err := s.repo.InvoiceNumberExists(ctx, number, "")
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", errNumbersExhausted
}

// Create stores an invoice, assigning a number when none is given.
func (s *Service) Create(ctx context.Context, in Input) (models.SalesInvoice, error) {
	invoice := models.SalesInvoice{Date: s.now().UTC()}
	if err := apply(&invoice, in); err != nil {
		return models.SalesInvoice{}, err
	}

	if invoice.InvoiceNumber == "" {
		if err := s.createNumbered(ctx, &invoice); err != nil {
			return models.SalesInvoice{}, err
		}
	} else {
		if err := s.ensureUnique(ctx, invoice.InvoiceNumber, ""); err != nil {
			return models.SalesInvoice{}, err
		}
		if err := s.repo.CreateSale(ctx, &invoice); err != nil {
			return models.SalesInvoice{}, err
		}
	}

	s.logger.Info("sale recorded",
		zap.String("invoice", invoice.InvoiceNumber),
		zap.Float64("total", invoice.Total),
		zap.Float64("remainder", invoice.Remainder))
	return invoice, nil
}

// createNumbered draws numbers from the sequence until one is free. Numbers
// already used by invoices entered by hand are skipped.
func (s *Service) createNumbered(ctx context.Context, invoice *models.SalesInvoice) error {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number, err := s.numberer.NextInvoiceNumber(ctx, invoice.Date)
		if err != nil {
			return err
		}
		taken, err := s.repo.InvoiceNumberExists(ctx, number, "")
		if err != nil {
			return err
		}
		if taken {
			s.logger.Debug("generated invoice number in use", zap.String("invoice", number))
			continue
		}

		invoice.InvoiceNumber = number
		err = s.repo.CreateSale(ctx, invoice)
		if errors.Is(err, models.ErrValidation) {
			// Taken by a concurrent manual entry since the check.
			invoice.ID = ""
			continue
		}
		return err
	}
	return errNumbersExhausted
}

// Update applies the non-nil fields of in and recomputes totals from the
// stored prices.
func (s *Service) Update(ctx context.Context, id string, in Input) (models.SalesInvoice, error) {
	invoice, err := s.repo.FindSale(ctx, id)
	if err != nil {
		return models.SalesInvoice{}, err
	}
	if err := apply(&invoice, in); err != nil {
		return models.SalesInvoice{}, err
	}
	if invoice.InvoiceNumber == "" {
		return models.SalesInvoice{}, models.Invalid("Nomor invoice wajib diisi")
	}
	if in.InvoiceNumber != nil {
		if err := s.ensureUnique(ctx, invoice.InvoiceNumber, invoice.ID); err != nil {
			return models.SalesInvoice{}, err
		}
	}
	if err := s.repo.SaveSale(ctx, &invoice); err != nil {
		return models.SalesInvoice{}, err
	}
	return invoice, nil
}

// Delete removes an invoice.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteSale(ctx, id)
}

func (s *Service) ensureUnique(ctx context.Context, number, excludeID string) error {
	exists, err := s.repo.InvoiceNumberExists(ctx, number, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return models.Invalid("Nomor invoice sudah ada")
	}
	return nil
}

func apply(inv *models.SalesInvoice, in Input) error {
	if in.InvoiceNumber != nil {
		inv.InvoiceNumber = strings.TrimSpace(*in.InvoiceNumber)
	}
	if in.Date != nil {
		date, err := models.ParseDate(*in.Date)
		if err != nil {
			return err
		}
		if !date.IsZero() {
			inv.Date = date
		}
	}
	if in.Customer != nil {
		inv.Customer = strings.TrimSpace(*in.Customer)
	}
	if in.RecordedBy != nil {
		inv.RecordedBy = strings.TrimSpace(*in.RecordedBy)
	}
	if in.Notes != nil {
		inv.Notes = in.Notes
	}

	for _, f := range []struct {
		src *float64
		dst *float64
	}{
		{in.EggKg, &inv.EggKg},
		{in.PricePerKg, &inv.PricePerKg},
		{in.PricePerCrate, &inv.PricePerCrate},
		{in.PricePerCulledBird, &inv.PricePerCulledBird},
		{in.PricePerPullet, &inv.PricePerPullet},
		{in.Paid, &inv.Paid},
	} {
		if f.src == nil {
			continue
		}
		if *f.src < 0 {
			return models.Invalid("Jumlah dan harga tidak boleh negatif")
		}
		*f.dst = *f.src
	}
	for _, f := range []struct {
		src *int
		dst *int
	}{
		{in.EggCrates, &inv.EggCrates},
		{in.CulledBirds, &inv.CulledBirds},
		{in.Pullets, &inv.Pullets},
	} {
		if f.src == nil {
			continue
		}
		if *f.src < 0 {
			return models.Invalid("Jumlah dan harga tidak boleh negatif")
		}
		*f.dst = *f.src
	}

	inv.Recalculate()
	return nil
}
