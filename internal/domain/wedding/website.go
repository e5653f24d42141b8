package wedding

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebsiteSettings controls the public wedding website for one wedding.
type WebsiteSettings struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"wedding_id"`
	Published    bool           `gorm:"not null;column:published" json:"published"`
	PasswordHash string         `gorm:"column:password_hash" json:"-"`
	Headline     string         `gorm:"column:headline" json:"headline"`
	Story        string         `gorm:"column:story" json:"story"`
	Theme        string         `gorm:"column:theme" json:"theme"`
	Sections     datatypes.JSON `gorm:"column:sections" json:"sections"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (WebsiteSettings) TableName() string { return "website_settings" }

func (s *WebsiteSettings) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *WebsiteSettings) HasPassword() bool {
	return s != nil && s.PasswordHash != ""
}

// WebsiteSection is one free-form block of the public site (travel, registry, ...).
type WebsiteSection struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

var Themes = map[string]struct{}{
	"classic": {},
	"garden":  {},
	"modern":  {},
	"coastal": {},
	"rustic":  {},
}
