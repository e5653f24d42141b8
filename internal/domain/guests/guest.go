package guests

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Guest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID   uuid.UUID `gorm:"type:uuid;not null;index;index:idx_guest_wedding_name_key" json:"wedding_id"`
	HouseholdID uuid.UUID `gorm:"type:uuid;not null;index" json:"household_id"`
	FirstName   string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName    string    `gorm:"column:last_name" json:"last_name"`
	// NameKey is the normalized full name used by guest lookup.
	NameKey   string    `gorm:"not null;column:name_key;index:idx_guest_wedding_name_key" json:"-"`
	Email     string    `gorm:"column:email" json:"email"`
	Phone     string    `gorm:"column:phone" json:"phone"`
	IsChild   bool      `gorm:"not null;column:is_child" json:"is_child"`
	Position  int       `gorm:"not null;column:position" json:"position"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Guest) TableName() string { return "guest" }

func (g *Guest) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

func (g *Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}
