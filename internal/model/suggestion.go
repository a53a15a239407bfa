package model

import "time"

// SuggestionType discriminates what a user suggestion proposes
type SuggestionType string

const (
	SuggestionAnalog        SuggestionType = "analog"
	SuggestionCompatibility SuggestionType = "compatibility"
)

// SuggestionStatus is the moderation state of a suggestion
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApproved SuggestionStatus = "approved"
	SuggestionRejected SuggestionStatus = "rejected"
)

// Suggestion is a user-submitted relation awaiting moderation. It is
// transitioned exactly once, pending -> approved or pending -> rejected, and
// immutable afterward.
type Suggestion struct {
	ID           uint             `json:"id" gorm:"primarykey"`
	Type         SuggestionType   `json:"type" gorm:"type:varchar(20);not null;index"`
	AuthorID     uint             `json:"author_id" gorm:"not null;index"`
	SourcePartID uint             `json:"source_part_id" gorm:"not null;index"`
	TargetPartID *uint            `json:"target_part_id,omitempty"`
	CarModelID   *uint            `json:"car_model_id,omitempty"`

	// Free-form payload. For analog suggestions without a resolved target
	// the proposed fields identify the part to look up or create; for
	// compatibility suggestions the engine and year fields narrow the edge.
	ProposedNumber       string `json:"proposed_number" gorm:"type:varchar(100)"`
	ProposedManufacturer string `json:"proposed_manufacturer" gorm:"type:varchar(100)"`
	ProposedDescription  string `json:"proposed_description" gorm:"type:text"`
	IsDirect             bool   `json:"is_direct" gorm:"default:true"`
	CarEngineID          *uint  `json:"car_engine_id,omitempty"`
	StartYear            *int   `json:"start_year,omitempty"`
	EndYear              *int   `json:"end_year,omitempty"`

	Status      SuggestionStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ModeratorID *uint            `json:"moderator_id,omitempty"`
	ModeratedAt *time.Time       `json:"moderated_at,omitempty"`
	Comment     string           `json:"comment" gorm:"type:text"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
