package models

// StockCategory enumerates inventory groups.
type StockCategory string

const (
	StockFeedRawMaterial StockCategory = "BAHAN_BAKU_PAKAN"
	StockFinishedFeed    StockCategory = "PAKAN_JADI"
	StockEggs            StockCategory = "TELUR"
	StockMedicine        StockCategory = "OBAT"
	StockCrates          StockCategory = "PETI_TELUR"
)

// StockItem is a named inventory entry.
type StockItem struct {
	Base
	Category  StockCategory `gorm:"size:32;index;not null" json:"category"`
	Name      string        `gorm:"size:160;uniqueIndex;not null" json:"name"`
	Quantity  float64       `gorm:"not null;default:0" json:"quantity"`
	Unit      string        `gorm:"size:32;not null" json:"unit"`
	UnitPrice *float64      `json:"unitPrice,omitempty"`
	Notes     *string       `gorm:"type:text" json:"notes,omitempty"`
}
