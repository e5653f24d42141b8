package aggregates

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/wedsite-backend/internal/data/repos"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/domain/guests"
	"github.com/yungbote/wedsite-backend/internal/domain/rsvp"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
)

type RSVPAggregateDeps struct {
	Base BaseDeps

	Households  repos.HouseholdRepo
	Guests      repos.GuestRepo
	Invitations repos.InvitationRepo
	Questions   repos.QuestionRepo
	Answers     repos.AnswerRepo
}

type rsvpAggregate struct {
	deps RSVPAggregateDeps
}

func NewRSVPAggregate(deps RSVPAggregateDeps) domainagg.RSVPAggregate {
	deps.Base = deps.Base.withDefaults()
	return &rsvpAggregate{deps: deps}
}

func (a *rsvpAggregate) Contract() domainagg.Contract {
	return domainagg.RSVPAggregateContract
}

type invitationKey struct {
	guestID uuid.UUID
	eventID uuid.UUID
}

type answerKey struct {
	questionID uuid.UUID
	guestID    uuid.UUID
}

func (a *rsvpAggregate) Submit(ctx context.Context, in domainagg.SubmitRSVPInput) (domainagg.SubmitRSVPResult, error) {
	const op = "RSVP.Submission.Submit"
	var out domainagg.SubmitRSVPResult
	if in.WeddingID == uuid.Nil || in.HouseholdID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing wedding_id or household_id", nil)
	}
	d := a.deps
	if d.Households == nil || d.Guests == nil || d.Invitations == nil || d.Questions == nil || d.Answers == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "rsvp aggregate repos not configured", nil)
	}
	if len(in.Responses) == 0 && len(in.Answers) == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "nothing to submit", nil)
	}
	seen := map[invitationKey]bool{}
	for _, r := range in.Responses {
		if !guests.ValidResponse(r.Status) {
			return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("invalid status %q", r.Status), nil)
		}
		k := invitationKey{r.GuestID, r.EventID}
		if seen[k] {
			return out, domainagg.NewError(domainagg.CodeValidation, op, "duplicate response for the same guest and event", nil)
		}
		seen[k] = true
	}

	submittedAt := in.SubmittedAt.UTC()
	if in.SubmittedAt.IsZero() {
		submittedAt = d.Base.Now()
	}

	err := executeWrite(ctx, d.Base, op, func(dbc dbctx.Context) error {
		h, err := d.Households.GetByID(dbc, in.WeddingID, in.HouseholdID)
		if err != nil {
			return err
		}
		if h == nil {
			return NotFoundError("household not found")
		}
		members, err := d.Guests.GetByHouseholdIDs(dbc, []uuid.UUID{h.ID})
		if err != nil {
			return err
		}
		memberIDs := make([]uuid.UUID, 0, len(members))
		isMember := make(map[uuid.UUID]bool, len(members))
		for _, g := range members {
			memberIDs = append(memberIDs, g.ID)
			isMember[g.ID] = true
		}

		invs, err := d.Invitations.GetByGuestIDs(dbc, memberIDs)
		if err != nil {
			return err
		}
		byKey := make(map[invitationKey]*types.Invitation, len(invs))
		for _, inv := range invs {
			byKey[invitationKey{inv.GuestID, inv.EventID}] = inv
		}

		table := types.Invitation{}.TableName()
		for _, r := range in.Responses {
			if !isMember[r.GuestID] {
				return InvariantError(fmt.Sprintf("guest %s does not belong to this household", r.GuestID))
			}
			inv := byKey[invitationKey{r.GuestID, r.EventID}]
			if inv == nil || !inv.IsInvited() {
				return ValidationError(fmt.Sprintf("guest %s is not invited to event %s", r.GuestID, r.EventID))
			}
			ok, err := d.Base.CASGuard.UpdateByStatus(dbc, table, inv.ID,
				[]string{guests.StatusInvited, guests.StatusAttending, guests.StatusDeclined},
				map[string]any{"status": r.Status, "responded_at": submittedAt, "updated_at": submittedAt},
			)
			if err != nil {
				return err
			}
			if err := RequireCASSuccess(ok, "invitation changed while responding"); err != nil {
				return err
			}
			inv.Status = r.Status
			if r.Status == guests.StatusAttending {
				out.Attending++
			} else {
				out.Declined++
			}
		}

		invitedEvents := map[uuid.UUID]bool{}
		for _, inv := range invs {
			if inv.IsInvited() {
				invitedEvents[inv.EventID] = true
			}
		}

		questions, err := d.Questions.ListByWeddingID(dbc, in.WeddingID)
		if err != nil {
			return err
		}
		byQuestion := make(map[uuid.UUID]*types.Question, len(questions))
		for _, q := range questions {
			byQuestion[q.ID] = q
		}

		rows := make([]*types.Answer, 0, len(in.Answers))
		seenAnswer := map[answerKey]bool{}
		for _, ans := range in.Answers {
			q := byQuestion[ans.QuestionID]
			if q == nil {
				return ValidationError(fmt.Sprintf("unknown question: %s", ans.QuestionID))
			}
			if !q.AppliesTo(invitedEvents) {
				return ValidationError(fmt.Sprintf("question %q is not part of this invitation", q.Prompt))
			}
			guestID := uuid.Nil
			if ans.GuestID != nil && *ans.GuestID != uuid.Nil {
				if !isMember[*ans.GuestID] {
					return InvariantError(fmt.Sprintf("guest %s does not belong to this household", *ans.GuestID))
				}
				guestID = *ans.GuestID
			}
			k := answerKey{q.ID, guestID}
			if seenAnswer[k] {
				return ValidationError(fmt.Sprintf("question %q answered twice", q.Prompt))
			}
			seenAnswer[k] = true

			value, err := encodeAnswer(q, ans.Values)
			if err != nil {
				return err
			}
			if value == nil {
				continue
			}
			rows = append(rows, &types.Answer{
				WeddingID:   in.WeddingID,
				QuestionID:  q.ID,
				HouseholdID: h.ID,
				GuestID:     guestID,
				Value:       value,
			})
		}
		if err := d.Answers.Upsert(dbc, rows); err != nil {
			return err
		}

		stored, err := d.Answers.ListByHouseholdID(dbc, h.ID)
		if err != nil {
			return err
		}
		answered := make(map[uuid.UUID]bool, len(stored))
		for _, s := range stored {
			answered[s.QuestionID] = true
		}
		for _, q := range questions {
			if !q.Required || answered[q.ID] || !q.AppliesTo(invitedEvents) {
				continue
			}
			return ValidationError(fmt.Sprintf("required question not answered: %q", q.Prompt))
		}

		out.HouseholdID = h.ID
		out.AnswersSaved = len(rows)
		out.SubmittedAt = submittedAt
		return nil
	})
	return out, err
}

// encodeAnswer validates values against the question kind. It returns nil for an empty answer.
func encodeAnswer(q *types.Question, values []string) (datatypes.JSON, error) {
	clean := make([]string, 0, len(values))
	dedupe := map[string]bool{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || dedupe[v] {
			continue
		}
		dedupe[v] = true
		clean = append(clean, v)
	}
	if len(clean) == 0 {
		return nil, nil
	}

	var payload any
	switch q.Kind {
	case rsvp.KindText:
		payload = strings.Join(clean, "\n")
	case rsvp.KindSingleChoice:
		if len(clean) != 1 {
			return nil, ValidationError(fmt.Sprintf("question %q takes a single choice", q.Prompt))
		}
		if !q.HasOption(clean[0]) {
			return nil, ValidationError(fmt.Sprintf("%q is not an option of %q", clean[0], q.Prompt))
		}
		payload = clean[0]
	case rsvp.KindMultiChoice:
		for _, v := range clean {
			if !q.HasOption(v) {
				return nil, ValidationError(fmt.Sprintf("%q is not an option of %q", v, q.Prompt))
			}
		}
		payload = clean
	default:
		return nil, InvariantError(fmt.Sprintf("question %s has unknown kind %q", q.ID, q.Kind))
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
