package models

import "time"

// AnalysisRecord is an append-only audit row for one completion call.
type AnalysisRecord struct {
	ID             string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Type           string    `gorm:"size:40;index;not null" bson:"type" json:"type"`
	Result         string    `gorm:"type:text;not null" bson:"result" json:"result"`
	Recommendation string    `gorm:"type:text" bson:"recommendation" json:"recommendation"`
	CreatedAt      time.Time `gorm:"index" bson:"created_at" json:"createdAt"`
}
