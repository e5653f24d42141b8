package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/wedsite-backend/internal/data/repos"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

type Repos struct {
	User            repos.UserRepo
	UserToken       repos.UserTokenRepo
	Wedding         repos.WeddingRepo
	WeddingMember   repos.WeddingMemberRepo
	WebsiteSettings repos.WebsiteSettingsRepo
	Event           repos.EventRepo
	Household       repos.HouseholdRepo
	Guest           repos.GuestRepo
	Invitation      repos.InvitationRepo
	Gift            repos.GiftRepo
	Question        repos.QuestionRepo
	Answer          repos.AnswerRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:            repos.NewUserRepo(db, log),
		UserToken:       repos.NewUserTokenRepo(db, log),
		Wedding:         repos.NewWeddingRepo(db, log),
		WeddingMember:   repos.NewWeddingMemberRepo(db, log),
		WebsiteSettings: repos.NewWebsiteSettingsRepo(db, log),
		Event:           repos.NewEventRepo(db, log),
		Household:       repos.NewHouseholdRepo(db, log),
		Guest:           repos.NewGuestRepo(db, log),
		Invitation:      repos.NewInvitationRepo(db, log),
		Gift:            repos.NewGiftRepo(db, log),
		Question:        repos.NewQuestionRepo(db, log),
		Answer:          repos.NewAnswerRepo(db, log),
	}
}
