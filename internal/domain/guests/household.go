package guests

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Household is a party of guests invited together at one mailing address.
type Household struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID    uuid.UUID `gorm:"type:uuid;not null;index" json:"wedding_id"`
	Name         string    `gorm:"not null;column:name" json:"name"`
	AddressLine1 string    `gorm:"column:address_line1" json:"address_line1"`
	AddressLine2 string    `gorm:"column:address_line2" json:"address_line2"`
	City         string    `gorm:"column:city" json:"city"`
	State        string    `gorm:"column:state" json:"state"`
	PostalCode   string    `gorm:"column:postal_code" json:"postal_code"`
	Country      string    `gorm:"column:country" json:"country"`
	Notes        string    `gorm:"column:notes" json:"notes"`
	Version      int       `gorm:"not null;column:version" json:"version"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Household) TableName() string { return "household" }

func (h *Household) BeforeCreate(*gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.Version == 0 {
		h.Version = 1
	}
	return nil
}
