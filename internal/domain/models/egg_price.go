package models

import "time"

// EggPrice is a dated market price for an egg grade.
type EggPrice struct {
	Base
	Grade         string    `gorm:"size:32;index;not null" json:"grade"`
	PricePerKg    float64   `gorm:"not null" json:"pricePerKg"`
	PricePerCrate *float64  `json:"pricePerCrate,omitempty"`
	Date          time.Time `gorm:"index;not null" json:"date"`
}
