package models

import "time"

// DebtStatus tracks whether a receivable or payable has been settled.
type DebtStatus string

const (
	DebtUnpaid DebtStatus = "BELUM_LUNAS"
	DebtPaid   DebtStatus = "LUNAS"
)

// Debt carries the columns shared by receivables and payables.
type Debt struct {
	Amount    float64    `gorm:"not null" json:"amount"`
	DueDate   time.Time  `gorm:"index;not null" json:"dueDate"`
	PaidSoFar float64    `gorm:"not null;default:0" json:"paidSoFar"`
	Remainder float64    `gorm:"not null;default:0" json:"remainder"`
	Status    DebtStatus `gorm:"size:16;index;not null" json:"status"`
	Notes     *string    `gorm:"type:text" json:"notes,omitempty"`
}

// Refresh recomputes Remainder and Status from Amount and PaidSoFar.
func (d *Debt) Refresh() {
	d.Remainder = d.Amount - d.PaidSoFar
	if d.Remainder <= 0 {
		d.Status = DebtPaid
	} else {
		d.Status = DebtUnpaid
	}
}

// Receivable is money a customer owes the farm (piutang).
type Receivable struct {
	Base
	Customer string `gorm:"size:160;not null" json:"customer"`
	Debt
}

// Payable is money the farm owes a supplier (utang).
type Payable struct {
	Base
	Supplier string `gorm:"size:160;not null" json:"supplier"`
	Debt
}

// DebtSummary totals a list of receivables or payables.
type DebtSummary struct {
	Total     float64 `json:"total"`
	PaidSoFar float64 `json:"paidSoFar"`
	Remainder float64 `json:"remainder"`
}

// Add folds one debt into the summary.
func (s *DebtSummary) Add(d Debt) {
	s.Total += d.Amount
	s.PaidSoFar += d.PaidSoFar
	s.Remainder += d.Remainder
}

// CashDirection separates income from expense entries.
type CashDirection string

const (
	CashIncome  CashDirection = "INCOME"
	CashExpense CashDirection = "EXPENSE"
)

// CashEntry is a single income (pemasukan) or expense (pengeluaran) line.
type CashEntry struct {
	Base
	Direction     CashDirection `gorm:"size:8;not null;uniqueIndex:idx_cash_voucher" json:"direction"`
	VoucherNumber string        `gorm:"size:64;not null;uniqueIndex:idx_cash_voucher" json:"voucherNumber"`
	Date          time.Time     `gorm:"index;not null" json:"date"`
	Category      string        `gorm:"size:64;index;not null" json:"category"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Notes         *string       `gorm:"type:text" json:"notes,omitempty"`
	RecordedBy    string        `gorm:"size:120" json:"recordedBy"`
}

// CashFilter narrows cash entry listings.
type CashFilter struct {
	Direction CashDirection
	Category  string
	From      time.Time
	To        time.Time
}
