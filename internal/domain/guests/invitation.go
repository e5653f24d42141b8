package guests

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusNotInvited = "not_invited"
	StatusInvited    = "invited"
	StatusAttending  = "attending"
	StatusDeclined   = "declined"
)

// Invitation is one guest's status for one event. There is exactly one per (event, guest).
type Invitation struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"wedding_id"`
	EventID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_invitation_event_guest" json:"event_id"`
	GuestID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_invitation_event_guest;index" json:"guest_id"`
	Status      string     `gorm:"not null;column:status" json:"status"`
	RespondedAt *time.Time `gorm:"column:responded_at" json:"responded_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Invitation) TableName() string { return "invitation" }

func (i *Invitation) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Status == "" {
		i.Status = StatusNotInvited
	}
	return nil
}

// Responded reports whether the guest already answered for this event.
func (i *Invitation) Responded() bool {
	return i.Status == StatusAttending || i.Status == StatusDeclined
}

func (i *Invitation) IsInvited() bool {
	return i.Status != StatusNotInvited
}

func ValidResponse(status string) bool {
	return status == StatusAttending || status == StatusDeclined
}
