package models

import "time"

// SalesInvoice records eggs and birds sold to a customer.
// Prices are kept so partial updates can recompute the total.
type SalesInvoice struct {
	Base
	InvoiceNumber      string    `gorm:"size:32;uniqueIndex;not null" json:"invoiceNumber"`
	Date               time.Time `gorm:"index;not null" json:"date"`
	Customer           string    `gorm:"size:160" json:"customer"`
	RecordedBy         string    `gorm:"size:120" json:"recordedBy"`
	EggKg              float64   `gorm:"not null;default:0" json:"eggKg"`
	EggCrates          int       `gorm:"not null;default:0" json:"eggCrates"`
	CulledBirds        int       `gorm:"not null;default:0" json:"culledBirds"`
	Pullets            int       `gorm:"not null;default:0" json:"pullets"`
	PricePerKg         float64   `gorm:"not null;default:0" json:"pricePerKg"`
	PricePerCrate      float64   `gorm:"not null;default:0" json:"pricePerCrate"`
	PricePerCulledBird float64   `gorm:"not null;default:0" json:"pricePerCulledBird"`
	PricePerPullet     float64   `gorm:"not null;default:0" json:"pricePerPullet"`
	Total              float64   `gorm:"not null;default:0" json:"total"`
	Paid               float64   `gorm:"not null;default:0" json:"paid"`
	Remainder          float64   `gorm:"not null;default:0" json:"remainder"`
	Notes              *string   `gorm:"type:text" json:"notes,omitempty"`
}

// Recalculate derives Total and Remainder from quantities, prices and Paid.
func (s *SalesInvoice) Recalculate() {
	eggs := s.EggKg*s.PricePerKg + float64(s.EggCrates)*s.PricePerCrate
	birds := float64(s.CulledBirds)*s.PricePerCulledBird + float64(s.Pullets)*s.PricePerPullet
	s.Total = eggs + birds
	s.Remainder = s.Total - s.Paid
}

// SalesFilter narrows invoice listings.
type SalesFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

// SalesSummary aggregates a list of invoices.
type SalesSummary struct {
	Transactions int     `json:"totalTransaksi"`
	Total        float64 `json:"totalHarga"`
	Outstanding  float64 `json:"totalSisa"`
	EggKg        float64 `json:"totalTelurKg"`
	EggCrates    int     `json:"totalTelurPeti"`
	CulledBirds  int     `json:"totalAyamAfkir"`
	Pullets      int     `json:"totalAyamPulet"`
}

// SummarizeSales folds invoices into a SalesSummary.
func SummarizeSales(invoices []SalesInvoice) SalesSummary {
	summary := SalesSummary{Transactions: len(invoices)}
	for _, inv := range invoices {
		summary.Total += inv.Total
		summary.Outstanding += inv.Remainder
		summary.EggKg += inv.EggKg
		summary.EggCrates += inv.EggCrates
		summary.CulledBirds += inv.CulledBirds
		summary.Pullets += inv.Pullets
	}
	return summary
}
