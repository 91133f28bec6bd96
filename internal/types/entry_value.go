package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryValue is the value of one parameter on one entry's date. Unique per
// (entry, parameter); a second write to the same pair overwrites. Domain range
// is 0.0-5.0 but that is not enforced at this layer.
type EntryValue struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EntryID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_entry_parameter" json:"entry_id"`
	Entry       *Entry     `gorm:"constraint:OnDelete:CASCADE;foreignKey:EntryID;references:ID" json:"entry,omitempty"`
	ParameterID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_entry_parameter" json:"parameter_id"`
	Parameter   *Parameter `gorm:"constraint:OnDelete:CASCADE;foreignKey:ParameterID;references:ID" json:"parameter,omitempty"`
	Value       float64    `gorm:"not null" json:"value"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (EntryValue) TableName() string { return "entry_value" }

func (v *EntryValue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
