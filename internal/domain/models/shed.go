package models

// ShedType enumerates housing systems.
type ShedType string

const (
	ShedLitter  ShedType = "LITER"
	ShedBattery ShedType = "BATERAI"
	ShedColony  ShedType = "KOLONY"
)

// Shed is a physical housing unit (kandang) for laying hens.
// BirdCount may exceed Capacity; nothing enforces it.
type Shed struct {
	Base
	Name      string   `gorm:"size:120;uniqueIndex;not null" json:"name"`
	Type      ShedType `gorm:"size:16;not null" json:"type"`
	Capacity  int      `gorm:"not null" json:"capacity"`
	BirdCount int      `gorm:"not null;default:0" json:"birdCount"`
	IsActive  bool     `gorm:"not null;default:true" json:"isActive"`
}

// Utilization returns BirdCount as a percentage of Capacity, 0 when capacity is unknown.
func (s Shed) Utilization() float64 {
	if s.Capacity <= 0 {
		return 0
	}
	return float64(s.BirdCount) / float64(s.Capacity) * 100
}
