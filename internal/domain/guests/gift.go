package guests

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Gift struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"wedding_id"`
	HouseholdID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"household_id"`
	Description  string     `gorm:"column:description" json:"description"`
	ReceivedAt   *time.Time `gorm:"column:received_at" json:"received_at,omitempty"`
	ThankYouSent bool       `gorm:"not null;column:thank_you_sent" json:"thank_you_sent"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (Gift) TableName() string { return "gift" }

func (g *Gift) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
