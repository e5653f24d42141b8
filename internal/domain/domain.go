package domain

import (
	"github.com/yungbote/wedsite-backend/internal/domain/auth"
	"github.com/yungbote/wedsite-backend/internal/domain/guests"
	"github.com/yungbote/wedsite-backend/internal/domain/rsvp"
	"github.com/yungbote/wedsite-backend/internal/domain/user"
	"github.com/yungbote/wedsite-backend/internal/domain/wedding"
)

type User = user.User
type UserToken = auth.UserToken

type Wedding = wedding.Wedding
type WeddingMember = wedding.WeddingMember
type WebsiteSettings = wedding.WebsiteSettings
type WebsiteSection = wedding.WebsiteSection
type Event = wedding.Event

type Household = guests.Household
type Guest = guests.Guest
type Invitation = guests.Invitation
type Gift = guests.Gift

type Question = rsvp.Question
type Answer = rsvp.Answer

// Models lists every table, in creation order, for migration.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&UserToken{},
		&Wedding{},
		&WeddingMember{},
		&WebsiteSettings{},
		&Event{},
		&Household{},
		&Guest{},
		&Invitation{},
		&Gift{},
		&Question{},
		&Answer{},
	}
}
