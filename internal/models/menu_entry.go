package models

import "github.com/google/uuid"

// MenuEntry is one track's membership record within a menu, carrying its
// ordinal position. Active entries of a menu always hold the dense position
// set 0..N-1; ascending position is playback order.
type MenuEntry struct {
	AuditedRecord

	MenuID   uuid.UUID `json:"menu_id" gorm:"type:text;not null;index;column:menu_id" validate:"required"`
	TrackID  uuid.UUID `json:"track_id" gorm:"type:text;not null;column:track_id" validate:"required"`
	Position int       `json:"position" gorm:"type:integer;not null;column:position" validate:"gte=0"`

	// Populated by joins, not stored in the database
	Track *Track `json:"track,omitempty" gorm:"-"`
}

// NewMenuEntry creates a MenuEntry at the given position, stamped by the user.
func NewMenuEntry(by uuid.UUID, menuID, trackID uuid.UUID, position int) *MenuEntry {
	return &MenuEntry{
		AuditedRecord: NewAuditedRecord(by),
		MenuID:        menuID,
		TrackID:       trackID,
		Position:      position,
	}
}
