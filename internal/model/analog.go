package model

import "time"

// PartAnalog is one adjacency row of the analog graph.
//
// Direct analogs (IsDirect=true) always exist as a mirrored pair: for every
// (a, b) row there is a (b, a) row with the same notes and verification, and
// the pair is written and removed together. Substitute edges
// (IsDirect=false) are one-directional and never mirrored.
type PartAnalog struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	SourcePartID uint      `json:"source_part_id" gorm:"not null;uniqueIndex:idx_source_analog"`
	AnalogPartID uint      `json:"analog_part_id" gorm:"not null;uniqueIndex:idx_source_analog;index"`
	IsDirect     bool      `json:"is_direct" gorm:"not null;default:true"`
	Notes        string    `json:"notes" gorm:"type:text"`
	IsVerified   bool      `json:"is_verified" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
