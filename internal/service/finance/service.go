// Package finance tracks receivables, payables and cash book entries.
package finance

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// Repository is the storage the finance service needs.
type Repository interface {
	ListReceivables(ctx context.Context, status models.DebtStatus) ([]models.Receivable, error)
	CreateReceivable(ctx context.Context, r *models.Receivable) error
	PayReceivable(ctx context.Context, id string, amount float64) (models.Receivable, error)

	ListPayables(ctx context.Context, status models.DebtStatus) ([]models.Payable, error)
	CreatePayable(ctx context.Context, p *models.Payable) error
	PayPayable(ctx context.Context, id string, amount float64) (models.Payable, error)

	ListCash(ctx context.Context, filter models.CashFilter) ([]models.CashEntry, error)
	VoucherExists(ctx context.Context, direction models.CashDirection, number string) (bool, error)
	CreateCash(ctx context.Context, entry *models.CashEntry) error
}

// Service implements the ledger operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a finance service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// DebtInput is the body of receivable and payable create requests.
// Counterparty is the customer for receivables and the supplier for payables.
type DebtInput struct {
	Counterparty string   `json:"counterparty"`
	Customer     string   `json:"customer"`
	Supplier     string   `json:"supplier"`
	Amount       *float64 `json:"amount"`
	DueDate      string   `json:"dueDate"`
	PaidSoFar    float64  `json:"paidSoFar"`
	Notes        *string  `json:"notes"`
}

// PaymentInput is the body of a payment request.
type PaymentInput struct {
	Amount float64 `json:"amount"`
}

// CashInput is the body of an income or expense create request.
type CashInput struct {
	VoucherNumber string  `json:"voucherNumber"`
	Date          string  `json:"date"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	Notes         *string `json:"notes"`
	RecordedBy    string  `json:"recordedBy"`
}

// CategoryTotal is the sum of cash entries in one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// CashSummary totals a cash listing.
type CashSummary struct {
	Total      float64         `json:"total"`
	Count      int             `json:"count"`
	ByCategory []CategoryTotal `json:"byCategory"`
}

func (s *Service) debt(in DebtInput, party, missing string) (string, models.Debt, error) {
	party = strings.TrimSpace(party)
	if party == "" || in.Amount == nil || strings.TrimSpace(in.DueDate) == "" {
		return "", models.Debt{}, models.Invalid(missing)
	}
	if *in.Amount <= 0 || in.PaidSoFar < 0 {
		return "", models.Debt{}, models.Invalid("Jumlah harus lebih dari 0")
	}
	due, err := models.ParseDate(in.DueDate)
	if err != nil {
		return "", models.Debt{}, err
	}

	d := models.Debt{Amount: *in.Amount, DueDate: due, PaidSoFar: in.PaidSoFar, Notes: in.Notes}
	d.Refresh()
	return party, d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// ListReceivables returns receivables with their summary.
func (s *Service) ListReceivables(ctx context.Context, status models.DebtStatus) ([]models.Receivable, models.DebtSummary, error) {
	if err := validStatus(status); err != nil {
		return nil, models.DebtSummary{}, err
	}
	rows, err := s.repo.ListReceivables(ctx, status)
	if err != nil {
		return nil, models.DebtSummary{}, err
	}
	var summary models.DebtSummary
	for _, r := range rows {
		summary.Add(r.Debt)
	}
	return rows, summary, nil
}

// CreateReceivable records money a customer owes.
func (s *Service) CreateReceivable(ctx context.Context, in DebtInput) (models.Receivable, error) {
	customer, debt, err := s.debt(in, firstNonEmpty(in.Customer, in.Counterparty), "Pelanggan, jumlah, dan jatuh tempo wajib diisi")
	if err != nil {
		return models.Receivable{}, err
	}
	r := models.Receivable{Customer: customer, Debt: debt}
	if err := s.repo.CreateReceivable(ctx, &r); err != nil {
		return models.Receivable{}, err
	}
	return r, nil
}

// PayReceivable records a customer payment.
func (s *Service) PayReceivable(ctx context.Context, id string, in PaymentInput) (models.Receivable, error) {
	if in.Amount <= 0 {
		return models.Receivable{}, models.Invalid("Jumlah pembayaran harus lebih dari 0")
	}
	r, err := s.repo.PayReceivable(ctx, id, in.Amount)
	if err != nil {
		return models.Receivable{}, err
	}
	s.logger.Info("receivable payment recorded", zap.String("id", id), zap.Float64("amount", in.Amount), zap.String("status", string(r.Status)))
	return r, nil
}

// ListPayables returns payables with their summary.
func (s *Service) ListPayables(ctx context.Context, status models.DebtStatus) ([]models.Payable, models.DebtSummary, error) {
	if err := validStatus(status); err != nil {
		return nil, models.DebtSummary{}, err
	}
	rows, err := s.repo.ListPayables(ctx, status)
	if err != nil {
		return nil, models.DebtSummary{}, err
	}
	var summary models.DebtSummary
	for _, p := range rows {
		summary.Add(p.Debt)
	}
	return rows, summary, nil
}

// CreatePayable records money owed to a supplier.
func (s *Service) CreatePayable(ctx context.Context, in DebtInput) (models.Payable, error) {
	supplier, debt, err := s.debt(in, firstNonEmpty(in.Supplier, in.Counterparty), "Pemasok, jumlah, dan jatuh tempo wajib diisi")
	if err != nil {
		return models.Payable{}, err
	}
	p := models.Payable{Supplier: supplier, Debt: debt}
	if err := s.repo.CreatePayable(ctx, &p); err != nil {
		return models.Payable{}, err
	}
	return p, nil
}

// PayPayable records a payment to a supplier.
func (s *Service) PayPayable(ctx context.Context, id string, in PaymentInput) (models.Payable, error) {
	if in.Amount <= 0 {
		return models.Payable{}, models.Invalid("Jumlah pembayaran harus lebih dari 0")
	}
	p, err := s.repo.PayPayable(ctx, id, in.Amount)
	if err != nil {
		return models.Payable{}, err
	}
	s.logger.Info("payable payment recorded", zap.String("id", id), zap.Float64("amount", in.Amount), zap.String("status", string(p.Status)))
	return p, nil
}

func validStatus(status models.DebtStatus) error {
	switch status {
	case "", models.DebtPaid, models.DebtUnpaid:
		return nil
	}
	return models.Invalid("Status tidak valid")
}

// ListCash returns entries for one direction with totals per category.
func (s *Service) ListCash(ctx context.Context, filter models.CashFilter) ([]models.CashEntry, CashSummary, error) {
	entries, err := s.repo.ListCash(ctx, filter)
	if err != nil {
		return nil, CashSummary{}, err
	}
	return entries, summarizeCash(entries), nil
}

// CreateCash records an income or expense entry.
func (s *Service) CreateCash(ctx context.Context, direction models.CashDirection, in CashInput) (models.CashEntry, error) {
	if strings.TrimSpace(in.VoucherNumber) == "" || strings.TrimSpace(in.Category) == "" ||
		in.Amount == 0 || strings.TrimSpace(in.RecordedBy) == "" {
		return models.CashEntry{}, models.Invalid("Nomor bukti, jenis, jumlah, dan user wajib diisi")
	}
	if in.Amount < 0 {
		return models.CashEntry{}, models.Invalid("Jumlah harus lebih dari 0")
	}

	date, err := models.ParseDate(in.Date)
	if err != nil {
		return models.CashEntry{}, err
	}
	if date.IsZero() {
		date = s.now().UTC()
	}

	number := strings.TrimSpace(in.VoucherNumber)
	exists, err := s.repo.VoucherExists(ctx, direction, number)
	if err != nil {
		return models.CashEntry{}, err
	}
	if exists {
		return models.CashEntry{}, models.Invalid("Nomor bukti sudah ada")
	}

	entry := models.CashEntry{
		Direction:     direction,
		VoucherNumber: number,
		Date:          date,
		Category:      strings.TrimSpace(in.Category),
		Amount:        in.Amount,
		Notes:         in.Notes,
		RecordedBy:    strings.TrimSpace(in.RecordedBy),
	}
	if err := s.repo.CreateCash(ctx, &entry); err != nil {
		return models.CashEntry{}, err
	}
	return entry, nil
}

func summarizeCash(entries []models.CashEntry) CashSummary {
	summary := CashSummary{Count: len(entries), ByCategory: []CategoryTotal{}}
	index := make(map[string]int)
	for _, e := range entries {
		summary.Total += e.Amount
		i, ok := index[e.Category]
		if !ok {
			i = len(summary.ByCategory)
			index[e.Category] = i
			summary.ByCategory = append(summary.ByCategory, CategoryTotal{Category: e.Category})
		}
		summary.ByCategory[i].Total += e.Amount
		summary.ByCategory[i].Count++
	}
	sort.Slice(summary.ByCategory, func(a, b int) bool {
		return summary.ByCategory[a].Total > summary.ByCategory[b].Total
	})
	return summary
}
