package models

import "github.com/google/uuid"

// User is a registered account. Password hashes never serialize to JSON.
type User struct {
	AuditedRecord

	Username     string `json:"username" gorm:"type:text;not null;uniqueIndex;column:username" validate:"required,min=1,max=64"`
	PasswordHash string `json:"-" gorm:"type:text;not null;column:password_hash"`
	Nickname     string `json:"nickname" gorm:"type:text;column:nickname"`
}

// NewUser creates a self-stamped User.
func NewUser(username, passwordHash string) *User {
	id := uuid.New()
	u := &User{
		AuditedRecord: NewAuditedRecord(id),
		Username:      username,
		PasswordHash:  passwordHash,
	}
	u.ID = id
	return u
}
