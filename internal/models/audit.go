package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditedRecord holds the identity, audit and soft-delete columns shared by
// every persisted entity. Entities embed it instead of inheriting from a base
// entity; repositories rely on gorm's DeletedAt handling so soft-deleted rows
// are excluded from every query by default.
type AuditedRecord struct {
	ID        uuid.UUID      `json:"id" gorm:"type:text;primaryKey;column:id"`
	CreatedBy uuid.UUID      `json:"created_by" gorm:"type:text;column:created_by"`
	UpdatedBy uuid.UUID      `json:"updated_by" gorm:"type:text;column:updated_by"`
	CreatedAt time.Time      `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index;column:deleted_at"`
}

// Auditable is implemented by every entity that carries audit columns.
// Services assign audit fields through this interface rather than probing
// struct fields by name.
type Auditable interface {
	StampCreated(by uuid.UUID, at time.Time)
	StampUpdated(by uuid.UUID, at time.Time)
}

// StampCreated sets the creation audit fields.
func (r *AuditedRecord) StampCreated(by uuid.UUID, at time.Time) {
	r.CreatedBy = by
	r.UpdatedBy = by
	r.CreatedAt = at
	r.UpdatedAt = at
}

// StampUpdated sets the update audit fields.
func (r *AuditedRecord) StampUpdated(by uuid.UUID, at time.Time) {
	r.UpdatedBy = by
	r.UpdatedAt = at
}

// NewAuditedRecord creates an AuditedRecord with a fresh UUID, stamped by the
// given user.
func NewAuditedRecord(by uuid.UUID) AuditedRecord {
	now := time.Now().UTC()
	return AuditedRecord{
		ID:        uuid.New(),
		CreatedBy: by,
		UpdatedBy: by,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
