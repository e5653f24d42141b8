package wedding

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Wedding is the tenant: every household, event and question hangs off one.
type Wedding struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Slug            string     `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	PartnerOne      string     `gorm:"not null;column:partner_one" json:"partner_one"`
	PartnerTwo      string     `gorm:"not null;column:partner_two" json:"partner_two"`
	Date            *time.Time `gorm:"column:date" json:"date,omitempty"`
	Location        string     `gorm:"column:location" json:"location"`
	TimeZone        string     `gorm:"column:time_zone" json:"time_zone"`
	CreatedByUserID uuid.UUID  `gorm:"type:uuid;not null;column:created_by_user_id" json:"created_by_user_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Wedding) TableName() string { return "wedding" }

func (w *Wedding) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Channel is the realtime channel couple dashboards subscribe to.
func (w *Wedding) Channel() string { return Channel(w.ID) }

func Channel(weddingID uuid.UUID) string { return "wedding:" + weddingID.String() }
