package wedding

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleOwner        = "owner"
	RoleCollaborator = "collaborator"
)

type WeddingMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wedding_member_wedding_user" json:"wedding_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wedding_member_wedding_user;index" json:"user_id"`
	Role      string    `gorm:"not null;column:role" json:"role"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (WeddingMember) TableName() string { return "wedding_member" }

func (m *WeddingMember) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func ValidRole(role string) bool {
	return role == RoleOwner || role == RoleCollaborator
}
