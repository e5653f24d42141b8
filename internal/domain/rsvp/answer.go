package rsvp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Answer is a response to a Question. Household-level answers use uuid.Nil as GuestID.
type Answer struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"wedding_id"`
	QuestionID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_rsvp_answer_scope" json:"question_id"`
	HouseholdID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_rsvp_answer_scope;index" json:"household_id"`
	GuestID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_rsvp_answer_scope" json:"guest_id"`
	Value       datatypes.JSON `gorm:"column:value" json:"value"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Answer) TableName() string { return "rsvp_answer" }

func (a *Answer) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Values decodes the stored value as a list; a single string becomes a one-element list.
func (a *Answer) Values() []string {
	if a == nil || len(a.Value) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(a.Value, &list); err == nil {
		return list
	}
	var one string
	if err := json.Unmarshal(a.Value, &one); err == nil {
		return []string{one}
	}
	return nil
}
