package models

import "github.com/google/uuid"

// DurationUnknown is stored when duration extraction fails at upload time.
const DurationUnknown = "unknown"

// Track represents one uploaded audio file in the catalog.
//
// FilePath and CoverPath are stored relative to the configured storage roots;
// absolute paths are re-derived and containment-checked on every access.
type Track struct {
	AuditedRecord

	Title     string  `json:"title" gorm:"type:text;not null;column:title" validate:"required"`
	Singer    string  `json:"singer" gorm:"type:text;not null;column:singer" validate:"required"`
	Album     string  `json:"album" gorm:"type:text;column:album"`
	Duration  string  `json:"duration" gorm:"type:text;column:duration"` // mm:ss or "unknown"
	FilePath  string  `json:"-" gorm:"type:text;not null;column:file_path"`
	FileName  string  `json:"file_name" gorm:"type:text;column:file_name"`
	FileSize  string  `json:"file_size" gorm:"type:text;column:file_size"` // human formatted, e.g. "3.4 MB"
	FileType  string  `json:"file_type" gorm:"type:text;column:file_type"` // extension without dot
	CoverPath *string `json:"-" gorm:"type:text;column:cover_path"`
	PlayCount int     `json:"play_count" gorm:"type:integer;not null;default:0;column:play_count"`
}

// NewTrack creates a Track stamped by the uploading user.
func NewTrack(by uuid.UUID, title, singer string) *Track {
	return &Track{
		AuditedRecord: NewAuditedRecord(by),
		Title:         title,
		Singer:        singer,
		Duration:      DurationUnknown,
	}
}
