package model

import "time"

// PartCompatibility links a part to a car model, optionally narrowed to one
// engine variant and a year range. CarEngineID = nil means "all engines of
// this model". Uniqueness is on (part, model, engine) with the null engine
// counting as its own value, which the store enforces by upserting instead
// of relying on a partial index.
type PartCompatibility struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	PartID      uint      `json:"part_id" gorm:"not null;index"`
	CarModelID  uint      `json:"car_model_id" gorm:"not null;index"`
	CarEngineID *uint     `json:"car_engine_id,omitempty" gorm:"index"`
	StartYear   *int      `json:"start_year,omitempty"`
	EndYear     *int      `json:"end_year,omitempty"`
	Notes       string    `json:"notes" gorm:"type:text"`
	IsVerified  bool      `json:"is_verified" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PartEngine is the legacy engine-level compatibility pivot. It records
// engine fitment without a model reference; the compatibility index reads it
// alongside PartCompatibility and merges the two by (model, engine).
type PartEngine struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	PartID      uint      `json:"part_id" gorm:"not null;uniqueIndex:idx_part_engine"`
	CarEngineID uint      `json:"car_engine_id" gorm:"not null;uniqueIndex:idx_part_engine"`
	Notes       string    `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
