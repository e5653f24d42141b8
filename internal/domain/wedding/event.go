package wedding

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"wedding_id"`
	Name        string     `gorm:"not null;column:name" json:"name"`
	StartsAt    *time.Time `gorm:"column:starts_at" json:"starts_at,omitempty"`
	EndsAt      *time.Time `gorm:"column:ends_at" json:"ends_at,omitempty"`
	Venue       string     `gorm:"column:venue" json:"venue"`
	Address     string     `gorm:"column:address" json:"address"`
	Attire      string     `gorm:"column:attire" json:"attire"`
	Description string     `gorm:"column:description" json:"description"`
	CollectRSVP bool       `gorm:"not null;column:collect_rsvp" json:"collect_rsvp"`
	Position    int        `gorm:"not null;column:position" json:"position"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Event) TableName() string { return "event" }

func (e *Event) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
