package models

import "time"

// HealthRecord logs sick and recovered birds for a shed on a given day.
type HealthRecord struct {
	Base
	ShedID     string    `gorm:"size:36;index;not null" json:"shedId"`
	Date       time.Time `gorm:"index;not null" json:"date"`
	RecordedBy string    `gorm:"size:120" json:"recordedBy"`
	Sick       int       `gorm:"not null;default:0" json:"sick"`
	Symptoms   *string   `gorm:"type:text" json:"symptoms,omitempty"`
	Diagnosis  *string   `gorm:"type:text" json:"diagnosis,omitempty"`
	Recovered  int       `gorm:"not null;default:0" json:"recovered"`
	Medicine   *string   `gorm:"size:160" json:"medicine,omitempty"`
	Dose       *string   `gorm:"size:64" json:"dose,omitempty"`
	Notes      *string   `gorm:"type:text" json:"notes,omitempty"`
}

// VaccineStatus tracks a vaccination plan.
type VaccineStatus string

const (
	VaccineScheduled VaccineStatus = "TERJADWAL"
	VaccineDone      VaccineStatus = "SELESAI"
)

// VaccineSchedule is a planned vaccination for a shed.
type VaccineSchedule struct {
	Base
	ShedID      string        `gorm:"size:36;index;not null" json:"shedId"`
	Shed        *Shed         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"shed,omitempty"`
	VaccineName string        `gorm:"size:120;not null" json:"vaccineName"`
	ScheduledAt time.Time     `gorm:"index;not null" json:"scheduledAt"`
	BirdCount   int           `gorm:"not null;default:0" json:"birdCount"`
	Status      VaccineStatus `gorm:"size:16;index;not null" json:"status"`
	Notes       *string       `gorm:"type:text" json:"notes,omitempty"`
}

// HealthFilter narrows health record and vaccine listings.
type HealthFilter struct {
	ShedID string
	Status VaccineStatus
	From   time.Time
	To     time.Time
}
