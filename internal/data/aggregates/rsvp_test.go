package aggregates_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/wedsite-backend/internal/data/aggregates"
	"github.com/yungbote/wedsite-backend/internal/data/repos/testutil"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/domain/guests"
	"github.com/yungbote/wedsite-backend/internal/domain/rsvp"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
)

type rsvpScene struct {
	*fixture
	agg        domainagg.RSVPAggregate
	ceremony   *types.Event
	dinner     *types.Event
	household  *types.Household
	ana, luis  *types.Guest
	meal       *types.Question
	song       *types.Question
	dietary    *types.Question
	dinnerOnly *types.Question
}

func newRSVPScene(t *testing.T) *rsvpScene {
	t.Helper()
	f := newFixture(t)
	s := &rsvpScene{fixture: f, agg: aggregates.NewRSVPAggregate(f.rsvpAgg())}
	s.ceremony = testutil.SeedEvent(t, f.ctx, f.db, f.wedding.ID, "Ceremony", 0)
	s.dinner = testutil.SeedEvent(t, f.ctx, f.db, f.wedding.ID, "Dinner", 1)
	s.household = testutil.SeedHousehold(t, f.ctx, f.db, f.wedding.ID, "Riveras")
	s.ana = testutil.SeedGuest(t, f.ctx, f.db, s.household, "Ana", "Rivera", 0)
	s.luis = testutil.SeedGuest(t, f.ctx, f.db, s.household, "Luis", "Rivera", 1)
	testutil.SeedInvitation(t, f.ctx, f.db, s.ana, s.ceremony.ID, guests.StatusInvited)
	testutil.SeedInvitation(t, f.ctx, f.db, s.luis, s.ceremony.ID, guests.StatusInvited)
	testutil.SeedInvitation(t, f.ctx, f.db, s.ana, s.dinner.ID, guests.StatusNotInvited)
	testutil.SeedInvitation(t, f.ctx, f.db, s.luis, s.dinner.ID, guests.StatusNotInvited)

	s.meal = &types.Question{WeddingID: f.wedding.ID, Kind: rsvp.KindSingleChoice, Prompt: "Meal", Options: datatypes.JSON(`["Fish","Veg"]`), Required: true}
	s.song = &types.Question{WeddingID: f.wedding.ID, Kind: rsvp.KindText, Prompt: "Song", Options: datatypes.JSON("[]"), Position: 1}
	s.dietary = &types.Question{WeddingID: f.wedding.ID, Kind: rsvp.KindMultiChoice, Prompt: "Dietary", Options: datatypes.JSON(`["Vegan","Nut-free","Halal"]`), Position: 2}
	s.dinnerOnly = &types.Question{WeddingID: f.wedding.ID, EventID: &s.dinner.ID, Kind: rsvp.KindText, Prompt: "Toast?", Options: datatypes.JSON("[]"), Position: 3}
	if err := f.db.Create([]*types.Question{s.meal, s.song, s.dietary, s.dinnerOnly}).Error; err != nil {
		t.Fatalf("seed questions: %v", err)
	}
	return s
}

func TestRSVPSubmitRecordsResponsesAndAnswers(t *testing.T) {
	s := newRSVPScene(t)
	at := time.Date(2027, 3, 1, 9, 30, 0, 0, time.UTC)
	res, err := s.agg.Submit(s.ctx, domainagg.SubmitRSVPInput{
		WeddingID:   s.wedding.ID,
		HouseholdID: s.household.ID,
		Responses: []domainagg.RSVPResponseInput{
			{GuestID: s.ana.ID, EventID: s.ceremony.ID, Status: guests.StatusAttending},
			{GuestID: s.luis.ID, EventID: s.ceremony.ID, Status: guests.StatusDeclined},
		},
		Answers: []domainagg.RSVPAnswerInput{
			{QuestionID: s.meal.ID, GuestID: &s.ana.ID, Values: []string{"Fish"}},
			{QuestionID: s.song.ID, Values: []string{"Dancing Queen", " ", "September"}},
			{QuestionID: s.dietary.ID, GuestID: &s.ana.ID, Values: []string{"Vegan", "Halal", "Vegan"}},
		},
		SubmittedAt: at,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Attending != 1 || res.Declined != 1 || res.AnswersSaved != 3 || !res.SubmittedAt.Equal(at) {
		t.Fatalf("unexpected result: %+v", res)
	}

	var inv types.Invitation
	s.db.Where("guest_id = ? AND event_id = ?", s.ana.ID, s.ceremony.ID).First(&inv)
	if inv.Status != guests.StatusAttending || inv.RespondedAt == nil || !inv.RespondedAt.Equal(at) {
		t.Fatalf("ana invitation: %+v", inv)
	}

	answers, err := s.answers.ListByHouseholdID(dbctx.Context{Ctx: s.ctx}, s.household.ID)
	if err != nil {
		t.Fatalf("ListByHouseholdID: %v", err)
	}
	byQuestion := map[uuid.UUID]*types.Answer{}
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}
	if got := byQuestion[s.song.ID]; got == nil || got.GuestID != uuid.Nil {
		t.Fatalf("household-level answer: %+v", got)
	}
	var song string
	_ = json.Unmarshal(byQuestion[s.song.ID].Value, &song)
	if song != "Dancing Queen\nSeptember" {
		t.Fatalf("text answer: got %q", song)
	}
	if got := byQuestion[s.dietary.ID].Values(); len(got) != 2 || got[0] != "Vegan" || got[1] != "Halal" {
		t.Fatalf("multi choice answer: %v", got)
	}

	// Resubmitting overwrites rather than duplicating.
	if _, err := s.agg.Submit(s.ctx, domainagg.SubmitRSVPInput{
		WeddingID:   s.wedding.ID,
		HouseholdID: s.household.ID,
		Answers:     []domainagg.RSVPAnswerInput{{QuestionID: s.meal.ID, GuestID: &s.ana.ID, Values: []string{"Veg"}}},
	}); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	answers, _ = s.answers.ListByHouseholdID(dbctx.Context{Ctx: s.ctx}, s.household.ID)
	if len(answers) != 3 {
		t.Fatalf("answers after resubmit: %d", len(answers))
	}
}

func TestRSVPSubmitRejectsUninvitedEvent(t *testing.T) {
	s := newRSVPScene(t)
	_, err := s.agg.Submit(s.ctx, domainagg.SubmitRSVPInput{
		WeddingID:   s.wedding.ID,
		HouseholdID: s.household.ID,
		Responses:   []domainagg.RSVPResponseInput{{GuestID: s.ana.ID, EventID: s.dinner.ID, Status: guests.StatusAttending}},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation, got %v", err)
	}
	if got := s.statuses(t, s.ana.ID)[s.dinner.ID]; got != guests.StatusNotInvited {
		t.Fatalf("dinner status changed: %q", got)
	}

	_, err = s.agg.Submit(s.ctx, domainagg.SubmitRSVPInput{
		WeddingID:   s.wedding.ID,
		HouseholdID: s.household.ID,
		Answers:     []domainagg.RSVPAnswerInput{{QuestionID: s.dinnerOnly.ID, Values: []string{"Yes"}}},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("answer to uninvited event question: expected validation, got %v", err)
	}
}

func TestRSVPSubmitRejectsGuestFromOtherHousehold(t *testing.T) {
	s := newRSVPScene(t)
	other := testutil.SeedHousehold(t, s.ctx, s.db, s.wedding.ID, "Smiths")
	bo := testutil.SeedGuest(t, s.ctx, s.db, other, "Bo", "Smith", 0)
	testutil.SeedInvitation(t, s.ctx, s.db, bo, s.ceremony.ID, guests.StatusInvited)

	_, err := s.agg.Submit(s.ctx, domainagg.SubmitRSVPInput{
		WeddingID:   s.wedding.ID,
		HouseholdID: s.household.ID,
		Responses:   []domainagg.RSVPResponseInput{{GuestID: bo.ID, EventID: s.ceremony.ID, Status: guests.StatusDeclined}},
	})
	if !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestRSVPSubmitRequiredQuestions(t *testing.T) {
	s := newRSVPScene(t)
	shuttle := &types.Question{WeddingID: s.wedding.ID, EventID: &s.dinner.ID, Kind: rsvp.KindText, Prompt: "Shuttle?", Options: datatypes.JSON("[]"), Required: true, Position: 4}
	if err := s.db.Create(shuttle).Error; err != nil {
		t.Fatalf("seed shuttle question: %v", err)
	}
	declineAll := []domainagg.RSVPResponseInput{
		{GuestID: s.ana.ID, EventID: s.ceremony.ID, Status: guests.StatusDeclined},
		{GuestID: s.luis.ID, EventID: s.ceremony.ID, Status: guests.StatusDeclined},
	}

	// Required questions of invited events apply even when everyone declines.
	_, err := s.agg.Submit(s.ctx, domainagg.SubmitRSVPInput{
		WeddingID:   s.wedding.ID,
		HouseholdID: s.household.ID,
		Responses:   declineAll,
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("decline without meal: expected validation, got %v", err)
	}
	if got := s.statuses(t, s.ana.ID)[s.ceremony.ID]; got != guests.StatusInvited {
		t.Fatalf("failed submit should roll back, got %q", got)
	}

	_, err = s.agg.Submit(s.ctx, domainagg.SubmitRSVPInput{
		WeddingID:   s.wedding.ID,
		HouseholdID: s.household.ID,
		Responses:   []domainagg.RSVPResponseInput{{GuestID: s.ana.ID, EventID: s.ceremony.ID, Status: guests.StatusAttending}},
		Answers:     []domainagg.RSVPAnswerInput{{QuestionID: s.meal.ID, GuestID: &s.ana.ID, Values: []string{"Steak"}}},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("unknown option: expected validation, got %v", err)
	}

	// The dinner shuttle question is required but the household is not invited to dinner.
	if _, err := s.agg.Submit(s.ctx, domainagg.SubmitRSVPInput{
		WeddingID:   s.wedding.ID,
		HouseholdID: s.household.ID,
		Responses:   declineAll,
		Answers:     []domainagg.RSVPAnswerInput{{QuestionID: s.meal.ID, Values: []string{"Veg"}}},
	}); err != nil {
		t.Fatalf("decline with meal answered: %v", err)
	}
	if got := s.statuses(t, s.luis.ID)[s.ceremony.ID]; got != guests.StatusDeclined {
		t.Fatalf("luis ceremony status: %q", got)
	}
}

func TestRSVPSubmitInputValidation(t *testing.T) {
	s := newRSVPScene(t)
	cases := []domainagg.SubmitRSVPInput{
		{WeddingID: s.wedding.ID, HouseholdID: s.household.ID},
		{WeddingID: s.wedding.ID, HouseholdID: s.household.ID, Responses: []domainagg.RSVPResponseInput{
			{GuestID: s.ana.ID, EventID: s.ceremony.ID, Status: guests.StatusInvited},
		}},
		{WeddingID: s.wedding.ID, HouseholdID: s.household.ID, Responses: []domainagg.RSVPResponseInput{
			{GuestID: s.ana.ID, EventID: s.ceremony.ID, Status: guests.StatusDeclined},
			{GuestID: s.ana.ID, EventID: s.ceremony.ID, Status: guests.StatusAttending},
		}},
	}
	for i, in := range cases {
		if _, err := s.agg.Submit(s.ctx, in); !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("case %d: expected validation, got %v", i, err)
		}
	}

	_, err := s.agg.Submit(s.ctx, domainagg.SubmitRSVPInput{
		WeddingID:   s.wedding.ID,
		HouseholdID: uuid.New(),
		Responses:   []domainagg.RSVPResponseInput{{GuestID: s.ana.ID, EventID: s.ceremony.ID, Status: guests.StatusDeclined}},
	})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unknown household: expected not found, got %v", err)
	}
}
