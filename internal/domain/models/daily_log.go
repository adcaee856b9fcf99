package models

import "time"

// DailyLog is one day's egg output, feed consumption and mortality for a shed.
type DailyLog struct {
	Base
	ShedID         string    `gorm:"size:36;index;not null" json:"shedId"`
	Shed           *Shed     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"shed,omitempty"`
	Date           time.Time `gorm:"index;not null" json:"date"`
	RecordedBy     string    `gorm:"size:120" json:"recordedBy"`
	GoodEggs       int       `gorm:"not null;default:0" json:"goodEggs"`
	CrackedEggs    int       `gorm:"not null;default:0" json:"crackedEggs"`
	CreamEggs      int       `gorm:"not null;default:0" json:"creamEggs"`
	RawFeedKg      float64   `gorm:"not null;default:0" json:"rawFeedKg"`
	FinishedFeedKg float64   `gorm:"not null;default:0" json:"finishedFeedKg"`
	Deaths         int       `gorm:"not null;default:0" json:"deaths"`
	Culls          int       `gorm:"not null;default:0" json:"culls"`
	Vaccination    *string   `gorm:"size:120" json:"vaccination,omitempty"`
	VaccineDoses   int       `gorm:"not null;default:0" json:"vaccineDoses"`
}

// TotalEggs sums every egg grade.
func (d DailyLog) TotalEggs() int {
	return d.GoodEggs + d.CrackedEggs + d.CreamEggs
}

// TotalFeedKg sums raw material and finished feed.
func (d DailyLog) TotalFeedKg() float64 {
	return d.RawFeedKg + d.FinishedFeedKg
}

// DailyLogFilter narrows daily log listings. Zero values mean "any".
type DailyLogFilter struct {
	ShedID string
	From   time.Time
	To     time.Time
	Limit  int
}
