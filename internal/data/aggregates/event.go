package aggregates

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/wedsite-backend/internal/data/repos"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/domain/guests"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/normalize"
)

type EventAggregateDeps struct {
	Base BaseDeps

	Events      repos.EventRepo
	Guests      repos.GuestRepo
	Invitations repos.InvitationRepo
	Questions   repos.QuestionRepo
	Answers     repos.AnswerRepo
}

type eventAggregate struct {
	deps EventAggregateDeps
}

func NewEventAggregate(deps EventAggregateDeps) domainagg.EventAggregate {
	deps.Base = deps.Base.withDefaults()
	return &eventAggregate{deps: deps}
}

func (a *eventAggregate) Contract() domainagg.Contract {
	return domainagg.EventAggregateContract
}

func (a *eventAggregate) Create(ctx context.Context, in domainagg.CreateEventInput) (domainagg.CreateEventResult, error) {
	const op = "Wedding.Event.Create"
	var out domainagg.CreateEventResult
	if in.WeddingID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing wedding_id", nil)
	}
	if a.deps.Events == nil || a.deps.Guests == nil || a.deps.Invitations == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "event aggregate repos not configured", nil)
	}
	f := in.Event
	f.Name = normalize.Text(f.Name)
	if f.Name == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "event name is required", nil)
	}
	if f.StartsAt != nil && f.EndsAt != nil && f.EndsAt.Before(*f.StartsAt) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "ends_at is before starts_at", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		ev := &types.Event{
			WeddingID:   in.WeddingID,
			Name:        f.Name,
			StartsAt:    f.StartsAt,
			EndsAt:      f.EndsAt,
			Venue:       strings.TrimSpace(f.Venue),
			Address:     strings.TrimSpace(f.Address),
			Attire:      strings.TrimSpace(f.Attire),
			Description: strings.TrimSpace(f.Description),
			CollectRSVP: f.CollectRSVP,
			Position:    f.Position,
		}
		if _, err := a.deps.Events.Create(dbc, []*types.Event{ev}); err != nil {
			return err
		}

		guestIDs, err := a.deps.Guests.ListIDsByWeddingID(dbc, in.WeddingID)
		if err != nil {
			return err
		}
		invitations := make([]*types.Invitation, 0, len(guestIDs))
		for _, gid := range guestIDs {
			invitations = append(invitations, &types.Invitation{
				WeddingID: in.WeddingID,
				EventID:   ev.ID,
				GuestID:   gid,
				Status:    guests.StatusNotInvited,
			})
		}
		if _, err := a.deps.Invitations.Create(dbc, invitations); err != nil {
			return err
		}

		out = domainagg.CreateEventResult{EventID: ev.ID, InvitationsProvisioned: len(invitations)}
		return nil
	})
	return out, err
}

func (a *eventAggregate) Delete(ctx context.Context, in domainagg.DeleteEventInput) error {
	const op = "Wedding.Event.Delete"
	if in.WeddingID == uuid.Nil || in.EventID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing wedding_id or event_id", nil)
	}
	if a.deps.Events == nil || a.deps.Invitations == nil || a.deps.Questions == nil || a.deps.Answers == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "event aggregate repos not configured", nil)
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		found, err := a.deps.Events.GetByIDs(dbc, in.WeddingID, []uuid.UUID{in.EventID})
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return NotFoundError(fmt.Sprintf("event not found: %s", in.EventID))
		}
		questionIDs, err := a.deps.Questions.ListIDsByEventIDs(dbc, []uuid.UUID{in.EventID})
		if err != nil {
			return err
		}
		if err := a.deps.Answers.DeleteByQuestionIDs(dbc, questionIDs); err != nil {
			return err
		}
		if err := a.deps.Questions.DeleteByIDs(dbc, questionIDs); err != nil {
			return err
		}
		if err := a.deps.Invitations.DeleteByEventIDs(dbc, []uuid.UUID{in.EventID}); err != nil {
			return err
		}
		return a.deps.Events.DeleteByIDs(dbc, []uuid.UUID{in.EventID})
	})
}
