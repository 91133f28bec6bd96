package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Parameter is a named, trackable numeric metric (fatigue, nausea, ...).
// Key is the stable identifier used as a training-table column name and as a
// model-artifact filename component. Parameters are deactivated, never
// hard-deleted, in normal flow.
type Parameter struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Key       string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"key"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Parameter) TableName() string { return "parameter" }

func (p *Parameter) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
