package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/wedsite-backend/internal/data/repos"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/domain/guests"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

type EventCounts struct {
	EventID   uuid.UUID `json:"event_id"`
	Name      string    `json:"name"`
	Invited   int64     `json:"invited"`
	Attending int64     `json:"attending"`
	Declined  int64     `json:"declined"`
	Awaiting  int64     `json:"awaiting"`
}

type Dashboard struct {
	Households      int64         `json:"households"`
	Guests          int64         `json:"guests"`
	Events          []EventCounts `json:"events"`
	GiftsReceived   int64         `json:"gifts_received"`
	ThankYouPending int64         `json:"thank_you_pending"`
}

type ResponseView struct {
	QuestionID    uuid.UUID  `json:"question_id"`
	Prompt        string     `json:"prompt"`
	Kind          string     `json:"kind"`
	HouseholdID   uuid.UUID  `json:"household_id"`
	HouseholdName string     `json:"household_name"`
	GuestID       *uuid.UUID `json:"guest_id,omitempty"`
	GuestName     string     `json:"guest_name,omitempty"`
	Values        []string   `json:"values"`
}

type DashboardService interface {
	Get(ctx context.Context, weddingID uuid.UUID) (*Dashboard, error)
	ListResponses(ctx context.Context, weddingID uuid.UUID) ([]ResponseView, error)
}

type dashboardService struct {
	log            *logger.Logger
	householdRepo  repos.HouseholdRepo
	guestRepo      repos.GuestRepo
	eventRepo      repos.EventRepo
	invitationRepo repos.InvitationRepo
	giftRepo       repos.GiftRepo
	answerRepo     repos.AnswerRepo
}

func NewDashboardService(
	log *logger.Logger,
	householdRepo repos.HouseholdRepo,
	guestRepo repos.GuestRepo,
	eventRepo repos.EventRepo,
	invitationRepo repos.InvitationRepo,
	giftRepo repos.GiftRepo,
	answerRepo repos.AnswerRepo,
) DashboardService {
	return &dashboardService{
		log:            log.With("service", "DashboardService"),
		householdRepo:  householdRepo,
		guestRepo:      guestRepo,
		eventRepo:      eventRepo,
		invitationRepo: invitationRepo,
		giftRepo:       giftRepo,
		answerRepo:     answerRepo,
	}
}

func (ds *dashboardService) Get(ctx context.Context, weddingID uuid.UUID) (*Dashboard, error) {
	var (
		households int64
		guestCount int64
		events     []*types.Event
		counts     []repos.EventStatusCount
		gifts      repos.GiftStats
	)
	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}
	g.Go(func() (err error) {
		households, err = ds.householdRepo.CountByWeddingID(dbc, weddingID)
		return wrapf(err, "count households")
	})
	g.Go(func() (err error) {
		guestCount, err = ds.guestRepo.CountByWeddingID(dbc, weddingID)
		return wrapf(err, "count guests")
	})
	g.Go(func() (err error) {
		events, err = ds.eventRepo.ListByWeddingID(dbc, weddingID)
		return wrapf(err, "list events")
	})
	g.Go(func() (err error) {
		counts, err = ds.invitationRepo.CountByEventAndStatus(dbc, weddingID)
		return wrapf(err, "count invitations")
	})
	g.Go(func() (err error) {
		gifts, err = ds.giftRepo.Stats(dbc, weddingID)
		return wrapf(err, "gift stats")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byEvent := make(map[uuid.UUID]*EventCounts, len(events))
	out := &Dashboard{
		Households:      households,
		Guests:          guestCount,
		Events:          make([]EventCounts, 0, len(events)),
		GiftsReceived:   gifts.Received,
		ThankYouPending: gifts.ThankYouPending,
	}
	for _, e := range events {
		byEvent[e.ID] = &EventCounts{EventID: e.ID, Name: e.Name}
	}
	for _, c := range counts {
		ec, ok := byEvent[c.EventID]
		if !ok {
			continue
		}
		switch c.Status {
		case guests.StatusInvited:
			ec.Awaiting += c.Count
		case guests.StatusAttending:
			ec.Attending += c.Count
		case guests.StatusDeclined:
			ec.Declined += c.Count
		}
	}
	for _, e := range events {
		ec := byEvent[e.ID]
		ec.Invited = ec.Awaiting + ec.Attending + ec.Declined
		out.Events = append(out.Events, *ec)
	}
	return out, nil
}

func (ds *dashboardService) ListResponses(ctx context.Context, weddingID uuid.UUID) ([]ResponseView, error) {
	rows, err := ds.answerRepo.ListResponses(dbctx.Context{Ctx: ctx}, weddingID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	out := make([]ResponseView, 0, len(rows))
	for _, r := range rows {
		a := types.Answer{Value: r.Value}
		v := ResponseView{
			QuestionID:    r.QuestionID,
			Prompt:        r.Prompt,
			Kind:          r.Kind,
			HouseholdID:   r.HouseholdID,
			HouseholdName: r.HouseholdName,
			Values:        a.Values(),
		}
		if r.GuestID != uuid.Nil {
			gid := r.GuestID
			v.GuestID = &gid
			v.GuestName = joinName(r.GuestFirstName, r.GuestLastName)
		}
		if v.Values == nil {
			v.Values = []string{}
		}
		out = append(out, v)
	}
	return out, nil
}

func wrapf(err error, what string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}

func joinName(first, last string) string {
	if last == "" {
		return first
	}
	if first == "" {
		return last
	}
	return first + " " + last
}
