package aggregates_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/wedsite-backend/internal/data/aggregates"
	"github.com/yungbote/wedsite-backend/internal/data/repos"
	"github.com/yungbote/wedsite-backend/internal/data/repos/testutil"
	types "github.com/yungbote/wedsite-backend/internal/domain"
)

type fixture struct {
	ctx     context.Context
	db      *gorm.DB
	base    aggregates.BaseDeps
	wedding *types.Wedding

	weddings    repos.WeddingRepo
	members     repos.WeddingMemberRepo
	settings    repos.WebsiteSettingsRepo
	events      repos.EventRepo
	households  repos.HouseholdRepo
	guests      repos.GuestRepo
	invitations repos.InvitationRepo
	gifts       repos.GiftRepo
	questions   repos.QuestionRepo
	answers     repos.AnswerRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, db, testutil.Unique("owner-")+"@example.com")
	return &fixture{
		ctx:         ctx,
		db:          db,
		base:        aggregates.BaseDeps{DB: db, Log: log},
		wedding:     testutil.SeedWedding(t, ctx, db, owner.ID),
		weddings:    repos.NewWeddingRepo(db, log),
		members:     repos.NewWeddingMemberRepo(db, log),
		settings:    repos.NewWebsiteSettingsRepo(db, log),
		events:      repos.NewEventRepo(db, log),
		households:  repos.NewHouseholdRepo(db, log),
		guests:      repos.NewGuestRepo(db, log),
		invitations: repos.NewInvitationRepo(db, log),
		gifts:       repos.NewGiftRepo(db, log),
		questions:   repos.NewQuestionRepo(db, log),
		answers:     repos.NewAnswerRepo(db, log),
	}
}

func (f *fixture) householdAgg(base aggregates.BaseDeps) aggregates.HouseholdAggregateDeps {
	return aggregates.HouseholdAggregateDeps{
		Base:        base,
		Households:  f.households,
		Guests:      f.guests,
		Invitations: f.invitations,
		Gifts:       f.gifts,
		Answers:     f.answers,
		Events:      f.events,
	}
}

func (f *fixture) eventAgg() aggregates.EventAggregateDeps {
	return aggregates.EventAggregateDeps{
		Base:        f.base,
		Events:      f.events,
		Guests:      f.guests,
		Invitations: f.invitations,
		Questions:   f.questions,
		Answers:     f.answers,
	}
}

func (f *fixture) rsvpAgg() aggregates.RSVPAggregateDeps {
	return aggregates.RSVPAggregateDeps{
		Base:        f.base,
		Households:  f.households,
		Guests:      f.guests,
		Invitations: f.invitations,
		Questions:   f.questions,
		Answers:     f.answers,
	}
}

func (f *fixture) weddingAgg() aggregates.WeddingAggregateDeps {
	return aggregates.WeddingAggregateDeps{
		Base:        f.base,
		Weddings:    f.weddings,
		Members:     f.members,
		Settings:    f.settings,
		Events:      f.events,
		Households:  f.households,
		Guests:      f.guests,
		Invitations: f.invitations,
		Gifts:       f.gifts,
		Questions:   f.questions,
		Answers:     f.answers,
	}
}

// statuses maps event id to invitation status for one guest.
func (f *fixture) statuses(t *testing.T, guestID uuid.UUID) map[uuid.UUID]string {
	t.Helper()
	var rows []*types.Invitation
	if err := f.db.Where("guest_id = ?", guestID).Find(&rows).Error; err != nil {
		t.Fatalf("load invitations: %v", err)
	}
	out := make(map[uuid.UUID]string, len(rows))
	for _, r := range rows {
		out[r.EventID] = r.Status
	}
	return out
}
