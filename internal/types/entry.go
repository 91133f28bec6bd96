package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry is one calendar day's diary record. Created lazily the first time a
// date is touched by data entry or a value update; never deleted by the core.
type Entry struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Date      time.Time    `gorm:"type:date;not null;uniqueIndex" json:"date"`
	Comment   string       `gorm:"type:text" json:"comment"`
	Values    []EntryValue `gorm:"constraint:OnDelete:CASCADE;foreignKey:EntryID;references:ID" json:"values,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (Entry) TableName() string { return "entry" }

// BeforeCreate fills the ID when the driver has no uuid_generate_v4 (sqlite).
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
