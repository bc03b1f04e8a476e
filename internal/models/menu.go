package models

import "github.com/google/uuid"

// Menu is a user-owned named ordered collection of tracks (a playlist).
type Menu struct {
	AuditedRecord

	Title  string    `json:"title" gorm:"type:text;not null;column:title" validate:"required,min=1,max=255"`
	UserID uuid.UUID `json:"user_id" gorm:"type:text;not null;index;column:user_id"`

	// Populated by aggregate queries, not stored in the database
	TrackCount int64 `json:"track_count,omitempty" gorm:"-"`
}

// NewMenu creates a Menu owned and stamped by the given user.
func NewMenu(owner uuid.UUID, title string) *Menu {
	return &Menu{
		AuditedRecord: NewAuditedRecord(owner),
		Title:         title,
		UserID:        owner,
	}
}
