package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/wedsite-backend/internal/data/repos/auth"
	"github.com/yungbote/wedsite-backend/internal/data/repos/guests"
	"github.com/yungbote/wedsite-backend/internal/data/repos/rsvp"
	"github.com/yungbote/wedsite-backend/internal/data/repos/user"
	"github.com/yungbote/wedsite-backend/internal/data/repos/wedding"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type WeddingRepo = wedding.WeddingRepo
type WeddingMemberRepo = wedding.WeddingMemberRepo
type WebsiteSettingsRepo = wedding.WebsiteSettingsRepo
type EventRepo = wedding.EventRepo

type HouseholdRepo = guests.HouseholdRepo
type GuestRepo = guests.GuestRepo
type InvitationRepo = guests.InvitationRepo
type GiftRepo = guests.GiftRepo
type EventStatusCount = guests.EventStatusCount
type GiftStats = guests.GiftStats

type QuestionRepo = rsvp.QuestionRepo
type AnswerRepo = rsvp.AnswerRepo
type ResponseRow = rsvp.ResponseRow

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewWeddingRepo(db *gorm.DB, baseLog *logger.Logger) WeddingRepo {
	return wedding.NewWeddingRepo(db, baseLog)
}
func NewWeddingMemberRepo(db *gorm.DB, baseLog *logger.Logger) WeddingMemberRepo {
	return wedding.NewWeddingMemberRepo(db, baseLog)
}
func NewWebsiteSettingsRepo(db *gorm.DB, baseLog *logger.Logger) WebsiteSettingsRepo {
	return wedding.NewWebsiteSettingsRepo(db, baseLog)
}
func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return wedding.NewEventRepo(db, baseLog)
}

func NewHouseholdRepo(db *gorm.DB, baseLog *logger.Logger) HouseholdRepo {
	return guests.NewHouseholdRepo(db, baseLog)
}
func NewGuestRepo(db *gorm.DB, baseLog *logger.Logger) GuestRepo {
	return guests.NewGuestRepo(db, baseLog)
}
func NewInvitationRepo(db *gorm.DB, baseLog *logger.Logger) InvitationRepo {
	return guests.NewInvitationRepo(db, baseLog)
}
func NewGiftRepo(db *gorm.DB, baseLog *logger.Logger) GiftRepo {
	return guests.NewGiftRepo(db, baseLog)
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return rsvp.NewQuestionRepo(db, baseLog)
}
func NewAnswerRepo(db *gorm.DB, baseLog *logger.Logger) AnswerRepo {
	return rsvp.NewAnswerRepo(db, baseLog)
}
