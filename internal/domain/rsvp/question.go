package rsvp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	KindText         = "text"
	KindSingleChoice = "single_choice"
	KindMultiChoice  = "multi_choice"
)

// Question is a custom RSVP form field. A nil EventID makes it a general question.
type Question struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID uuid.UUID      `gorm:"type:uuid;not null;index" json:"wedding_id"`
	EventID   *uuid.UUID     `gorm:"type:uuid;index" json:"event_id,omitempty"`
	Kind      string         `gorm:"not null;column:kind" json:"kind"`
	Prompt    string         `gorm:"not null;column:prompt" json:"prompt"`
	Options   datatypes.JSON `gorm:"column:options" json:"options"`
	Required  bool           `gorm:"not null;column:required" json:"required"`
	Position  int            `gorm:"not null;column:position" json:"position"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string { return "rsvp_question" }

func (q *Question) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func ValidKind(kind string) bool {
	return kind == KindText || kind == KindSingleChoice || kind == KindMultiChoice
}

func IsChoiceKind(kind string) bool {
	return kind == KindSingleChoice || kind == KindMultiChoice
}

func (q *Question) OptionList() []string {
	if q == nil || len(q.Options) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(q.Options, &out); err != nil {
		return nil
	}
	return out
}

func (q *Question) HasOption(v string) bool {
	for _, o := range q.OptionList() {
		if o == v {
			return true
		}
	}
	return false
}

// AppliesTo reports whether the question is shown to a party invited to the given events.
func (q *Question) AppliesTo(eventIDs map[uuid.UUID]bool) bool {
	if q.EventID == nil {
		return true
	}
	return eventIDs[*q.EventID]
}
