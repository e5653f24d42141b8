package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/wedsite-backend/internal/data/repos"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/domain/wedding"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/pkg/normalize"
	"github.com/yungbote/wedsite-backend/internal/realtime"
)

type PartyInvitation struct {
	EventID     uuid.UUID  `json:"event_id"`
	Status      string     `json:"status"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

type PartyGuest struct {
	ID          uuid.UUID         `json:"id"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	IsChild     bool              `json:"is_child"`
	Invitations []PartyInvitation `json:"invitations"`
}

type PartyAnswer struct {
	QuestionID uuid.UUID  `json:"question_id"`
	GuestID    *uuid.UUID `json:"guest_id,omitempty"`
	Values     []string   `json:"values"`
}

// PartyView is what a guest sees after finding their household on the public site.
type PartyView struct {
	HouseholdID   uuid.UUID         `json:"household_id"`
	HouseholdName string            `json:"household_name"`
	Guests        []PartyGuest      `json:"guests"`
	Events        []PublicEvent     `json:"events"`
	Questions     []*types.Question `json:"questions"`
	Answers       []PartyAnswer     `json:"answers"`
}

type SubmitRSVPRequest struct {
	HouseholdID uuid.UUID
	Responses   []domainagg.RSVPResponseInput
	Answers     []domainagg.RSVPAnswerInput
}

type RSVPObserver interface {
	ObserveRSVPSubmitted(attending, declined int)
}

type RSVPService interface {
	Lookup(ctx context.Context, slug, firstName, lastName string) (*PartyView, error)
	Submit(ctx context.Context, slug string, in SubmitRSVPRequest) (*domainagg.SubmitRSVPResult, error)
}

type rsvpService struct {
	db             *gorm.DB
	log            *logger.Logger
	website        WebsiteService
	householdRepo  repos.HouseholdRepo
	guestRepo      repos.GuestRepo
	invitationRepo repos.InvitationRepo
	eventRepo      repos.EventRepo
	questionRepo   repos.QuestionRepo
	answerRepo     repos.AnswerRepo
	aggregate      domainagg.RSVPAggregate
	emitter        SSEEmitter
	observer       RSVPObserver
	now            func() time.Time
}

func NewRSVPService(
	db *gorm.DB,
	log *logger.Logger,
	website WebsiteService,
	householdRepo repos.HouseholdRepo,
	guestRepo repos.GuestRepo,
	invitationRepo repos.InvitationRepo,
	eventRepo repos.EventRepo,
	questionRepo repos.QuestionRepo,
	answerRepo repos.AnswerRepo,
	aggregate domainagg.RSVPAggregate,
	emitter SSEEmitter,
	observer RSVPObserver,
) RSVPService {
	if emitter == nil {
		emitter = noopEmitter{}
	}
	return &rsvpService{
		db:             db,
		log:            log.With("service", "RSVPService"),
		website:        website,
		householdRepo:  householdRepo,
		guestRepo:      guestRepo,
		invitationRepo: invitationRepo,
		eventRepo:      eventRepo,
		questionRepo:   questionRepo,
		answerRepo:     answerRepo,
		aggregate:      aggregate,
		emitter:        emitter,
		observer:       observer,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (rs *rsvpService) Lookup(ctx context.Context, slug, firstName, lastName string) (*PartyView, error) {
	key := normalize.NameKey(firstName + " " + lastName)
	if normalize.Text(firstName) == "" || key == "" {
		return nil, invalidArgf("first name is required")
	}
	w, err := rs.website.ResolvePublicWedding(ctx, slug)
	if err != nil {
		return nil, err
	}

	var out *PartyView
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		matches, err := rs.guestRepo.FindByNameKey(inner, w.ID, key)
		if err != nil {
			return fmt.Errorf("find guest: %w", err)
		}
		if len(matches) == 0 {
			return notFoundf("no guest found with that name")
		}
		householdID := matches[0].HouseholdID
		for _, g := range matches[1:] {
			if g.HouseholdID != householdID {
				return conflictf("more than one party matches that name")
			}
		}
		h, err := rs.householdRepo.GetByID(inner, w.ID, householdID)
		if err != nil {
			return fmt.Errorf("load household: %w", err)
		}
		if h == nil {
			return notFoundf("household %s", householdID)
		}
		out, err = rs.buildParty(inner, w.ID, h)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (rs *rsvpService) buildParty(dbc dbctx.Context, weddingID uuid.UUID, h *types.Household) (*PartyView, error) {
	guestRows, err := rs.guestRepo.GetByHouseholdIDs(dbc, []uuid.UUID{h.ID})
	if err != nil {
		return nil, fmt.Errorf("load guests: %w", err)
	}
	guestIDs := make([]uuid.UUID, 0, len(guestRows))
	for _, g := range guestRows {
		guestIDs = append(guestIDs, g.ID)
	}
	invs, err := rs.invitationRepo.GetByGuestIDs(dbc, guestIDs)
	if err != nil {
		return nil, fmt.Errorf("load invitations: %w", err)
	}
	invited := make(map[uuid.UUID]bool)
	byGuest := make(map[uuid.UUID][]PartyInvitation, len(guestRows))
	for _, inv := range invs {
		if !inv.IsInvited() {
			continue
		}
		invited[inv.EventID] = true
		byGuest[inv.GuestID] = append(byGuest[inv.GuestID], PartyInvitation{
			EventID:     inv.EventID,
			Status:      inv.Status,
			RespondedAt: inv.RespondedAt,
		})
	}

	view := &PartyView{
		HouseholdID:   h.ID,
		HouseholdName: h.Name,
		Guests:        make([]PartyGuest, 0, len(guestRows)),
		Events:        []PublicEvent{},
		Questions:     []*types.Question{},
		Answers:       []PartyAnswer{},
	}
	for _, g := range guestRows {
		pi := byGuest[g.ID]
		if pi == nil {
			pi = []PartyInvitation{}
		}
		view.Guests = append(view.Guests, PartyGuest{
			ID:          g.ID,
			FirstName:   g.FirstName,
			LastName:    g.LastName,
			IsChild:     g.IsChild,
			Invitations: pi,
		})
	}

	events, err := rs.eventRepo.ListByWeddingID(dbc, weddingID)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	for _, e := range events {
		if !invited[e.ID] {
			continue
		}
		view.Events = append(view.Events, PublicEvent{
			ID:          e.ID,
			Name:        e.Name,
			StartsAt:    e.StartsAt,
			EndsAt:      e.EndsAt,
			Venue:       e.Venue,
			Address:     e.Address,
			Attire:      e.Attire,
			Description: e.Description,
			CollectRSVP: e.CollectRSVP,
		})
	}

	questions, err := rs.questionRepo.ListByWeddingID(dbc, weddingID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	for _, q := range questions {
		if q.AppliesTo(invited) {
			view.Questions = append(view.Questions, q)
		}
	}

	answers, err := rs.answerRepo.ListByHouseholdID(dbc, h.ID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	for _, a := range answers {
		pa := PartyAnswer{QuestionID: a.QuestionID, Values: a.Values()}
		if a.GuestID != uuid.Nil {
			gid := a.GuestID
			pa.GuestID = &gid
		}
		view.Answers = append(view.Answers, pa)
	}
	return view, nil
}

func (rs *rsvpService) Submit(ctx context.Context, slug string, in SubmitRSVPRequest) (*domainagg.SubmitRSVPResult, error) {
	w, err := rs.website.ResolvePublicWedding(ctx, slug)
	if err != nil {
		return nil, err
	}
	res, err := rs.aggregate.Submit(ctx, domainagg.SubmitRSVPInput{
		WeddingID:   w.ID,
		HouseholdID: in.HouseholdID,
		Responses:   in.Responses,
		Answers:     in.Answers,
		SubmittedAt: rs.now(),
	})
	if err != nil {
		return nil, err
	}
	if rs.observer != nil {
		rs.observer.ObserveRSVPSubmitted(res.Attending, res.Declined)
	}
	rs.emitter.Emit(ctx, realtime.SSEMessage{
		Channel: wedding.Channel(w.ID),
		Event:   realtime.SSEEventRSVPSubmitted,
		Data:    res,
	})
	rs.log.Info("rsvp submitted",
		"wedding_id", w.ID,
		"household_id", res.HouseholdID,
		"attending", res.Attending,
		"declined", res.Declined,
		"answers", res.AnswersSaved,
	)
	return &res, nil
}
