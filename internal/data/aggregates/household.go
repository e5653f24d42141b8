package aggregates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/wedsite-backend/internal/data/repos"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/domain/guests"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/normalize"
)

type HouseholdAggregateDeps struct {
	Base BaseDeps

	Households  repos.HouseholdRepo
	Guests      repos.GuestRepo
	Invitations repos.InvitationRepo
	Gifts       repos.GiftRepo
	Answers     repos.AnswerRepo
	Events      repos.EventRepo
}

type householdAggregate struct {
	deps HouseholdAggregateDeps
}

func NewHouseholdAggregate(deps HouseholdAggregateDeps) domainagg.HouseholdAggregate {
	deps.Base = deps.Base.withDefaults()
	return &householdAggregate{deps: deps}
}

func (a *householdAggregate) Contract() domainagg.Contract {
	return domainagg.HouseholdAggregateContract
}

func (a *householdAggregate) configured() bool {
	d := a.deps
	return d.Households != nil && d.Guests != nil && d.Invitations != nil &&
		d.Gifts != nil && d.Answers != nil && d.Events != nil
}

func (a *householdAggregate) Create(ctx context.Context, in domainagg.CreateHouseholdInput) (domainagg.HouseholdResult, error) {
	const op = "Guests.Household.Create"
	var out domainagg.HouseholdResult
	if in.WeddingID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing wedding_id", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "household aggregate repos not configured", nil)
	}
	guestIn, err := cleanGuestInputs(in.Guests)
	if err != nil {
		return out, MapError(op, err)
	}
	for _, g := range guestIn {
		if g.ID != nil {
			return out, domainagg.NewError(domainagg.CodeValidation, op, "new household guests must not carry an id", nil)
		}
	}
	fields := cleanHouseholdFields(in.Household, guestIn)

	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		eventIDs, err := a.deps.Events.ListIDsByWeddingID(dbc, in.WeddingID)
		if err != nil {
			return err
		}
		if err := requireKnownEvents(guestIn, eventIDs); err != nil {
			return err
		}

		h := &types.Household{WeddingID: in.WeddingID, Version: 1}
		applyHouseholdFields(h, fields)
		if _, err := a.deps.Households.Create(dbc, []*types.Household{h}); err != nil {
			return err
		}

		created, err := a.createGuests(dbc, h, guestIn, eventIDs)
		if err != nil {
			return err
		}

		if in.Gift != nil {
			if err := a.deps.Gifts.Create(dbc, newGift(h, in.Gift)); err != nil {
				return err
			}
		}

		out = domainagg.HouseholdResult{
			HouseholdID:   h.ID,
			Version:       h.Version,
			CreatedGuests: len(created),
		}
		for _, g := range created {
			out.GuestIDs = append(out.GuestIDs, g.ID)
		}
		return nil
	})
	return out, err
}

func (a *householdAggregate) Update(ctx context.Context, in domainagg.UpdateHouseholdInput) (domainagg.HouseholdResult, error) {
	const op = "Guests.Household.Update"
	var out domainagg.HouseholdResult
	if in.WeddingID == uuid.Nil || in.HouseholdID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing wedding_id or household_id", nil)
	}
	if in.RemoveGift && in.Gift != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "gift and remove_gift are mutually exclusive", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "household aggregate repos not configured", nil)
	}
	guestIn, err := cleanGuestInputs(in.Guests)
	if err != nil {
		return out, MapError(op, err)
	}
	fields := cleanHouseholdFields(in.Household, guestIn)

	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		h, err := a.deps.Households.GetByID(dbc, in.WeddingID, in.HouseholdID)
		if err != nil {
			return err
		}
		if h == nil {
			return NotFoundError(fmt.Sprintf("household not found: %s", in.HouseholdID))
		}
		if in.ExpectedVersion != nil {
			if err := RequireVersionMatch(h.Version, *in.ExpectedVersion); err != nil {
				return err
			}
		}

		ok, err := a.deps.Base.CASGuard.UpdateByVersion(dbc, types.Household{}.TableName(), h.ID, h.Version, householdUpdates(fields, a.deps.Base.Now()))
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "household was modified concurrently"); err != nil {
			return err
		}

		eventIDs, err := a.deps.Events.ListIDsByWeddingID(dbc, in.WeddingID)
		if err != nil {
			return err
		}
		if err := requireKnownEvents(guestIn, eventIDs); err != nil {
			return err
		}

		stored, err := a.deps.Guests.GetByHouseholdIDs(dbc, []uuid.UUID{h.ID})
		if err != nil {
			return err
		}
		storedByID := make(map[uuid.UUID]*types.Guest, len(stored))
		for _, g := range stored {
			storedByID[g.ID] = g
		}

		var (
			kept      []guestPlan
			fresh     []domainagg.GuestInput
			freshPos  []int
			keptIDs   = map[uuid.UUID]bool{}
			removeIDs []uuid.UUID
		)
		for pos, gi := range guestIn {
			if gi.ID == nil {
				fresh = append(fresh, gi)
				freshPos = append(freshPos, pos)
				continue
			}
			existing, ok := storedByID[*gi.ID]
			if !ok {
				return InvariantError(fmt.Sprintf("guest %s does not belong to household %s", *gi.ID, h.ID))
			}
			if keptIDs[existing.ID] {
				return ValidationError(fmt.Sprintf("guest %s listed twice", existing.ID))
			}
			keptIDs[existing.ID] = true
			kept = append(kept, guestPlan{guest: existing, input: gi})
			if err := a.deps.Guests.Update(dbc, existing.ID, guestUpdates(gi, pos)); err != nil {
				return err
			}
		}
		for _, g := range stored {
			if !keptIDs[g.ID] {
				removeIDs = append(removeIDs, g.ID)
			}
		}

		if len(removeIDs) > 0 {
			if err := a.deps.Answers.DeleteByGuestIDs(dbc, removeIDs); err != nil {
				return err
			}
			if err := a.deps.Invitations.DeleteByGuestIDs(dbc, removeIDs); err != nil {
				return err
			}
			if err := a.deps.Guests.DeleteByIDs(dbc, removeIDs); err != nil {
				return err
			}
		}

		if err := a.reconcileInvitations(dbc, in.WeddingID, kept, eventIDs); err != nil {
			return err
		}

		created, err := a.createGuestsAt(dbc, h, fresh, freshPos, eventIDs)
		if err != nil {
			return err
		}

		if err := a.applyGift(dbc, h, in.Gift, in.RemoveGift); err != nil {
			return err
		}

		out = domainagg.HouseholdResult{
			HouseholdID:   h.ID,
			Version:       h.Version + 1,
			CreatedGuests: len(created),
			UpdatedGuests: len(kept),
			DeletedGuests: len(removeIDs),
		}
		for _, p := range kept {
			out.GuestIDs = append(out.GuestIDs, p.guest.ID)
		}
		for _, g := range created {
			out.GuestIDs = append(out.GuestIDs, g.ID)
		}
		return nil
	})
	return out, err
}

func (a *householdAggregate) Delete(ctx context.Context, in domainagg.DeleteHouseholdInput) error {
	const op = "Guests.Household.Delete"
	if in.WeddingID == uuid.Nil || in.HouseholdID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing wedding_id or household_id", nil)
	}
	if !a.configured() {
		return domainagg.NewError(domainagg.CodeInternal, op, "household aggregate repos not configured", nil)
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		h, err := a.deps.Households.GetByID(dbc, in.WeddingID, in.HouseholdID)
		if err != nil {
			return err
		}
		if h == nil {
			return NotFoundError(fmt.Sprintf("household not found: %s", in.HouseholdID))
		}
		members, err := a.deps.Guests.GetByHouseholdIDs(dbc, []uuid.UUID{h.ID})
		if err != nil {
			return err
		}
		guestIDs := make([]uuid.UUID, 0, len(members))
		for _, g := range members {
			guestIDs = append(guestIDs, g.ID)
		}
		if err := a.deps.Answers.DeleteByHouseholdIDs(dbc, []uuid.UUID{h.ID}); err != nil {
			return err
		}
		if err := a.deps.Invitations.DeleteByGuestIDs(dbc, guestIDs); err != nil {
			return err
		}
		if err := a.deps.Guests.DeleteByIDs(dbc, guestIDs); err != nil {
			return err
		}
		if err := a.deps.Gifts.DeleteByHouseholdIDs(dbc, []uuid.UUID{h.ID}); err != nil {
			return err
		}
		return a.deps.Households.DeleteByIDs(dbc, []uuid.UUID{h.ID})
	})
}

type guestPlan struct {
	guest *types.Guest
	input domainagg.GuestInput
}

func (a *householdAggregate) createGuests(dbc dbctx.Context, h *types.Household, in []domainagg.GuestInput, eventIDs []uuid.UUID) ([]*types.Guest, error) {
	positions := make([]int, len(in))
	for i := range in {
		positions[i] = i
	}
	return a.createGuestsAt(dbc, h, in, positions, eventIDs)
}

// createGuestsAt inserts guests at the given positions along with their invitation row per event.
func (a *householdAggregate) createGuestsAt(dbc dbctx.Context, h *types.Household, in []domainagg.GuestInput, positions []int, eventIDs []uuid.UUID) ([]*types.Guest, error) {
	if len(in) == 0 {
		return nil, nil
	}
	rows := make([]*types.Guest, 0, len(in))
	for i, gi := range in {
		rows = append(rows, &types.Guest{
			WeddingID:   h.WeddingID,
			HouseholdID: h.ID,
			FirstName:   gi.FirstName,
			LastName:    gi.LastName,
			NameKey:     normalize.NameKey(gi.FirstName + " " + gi.LastName),
			Email:       gi.Email,
			Phone:       gi.Phone,
			IsChild:     gi.IsChild,
			Position:    positions[i],
		})
	}
	created, err := a.deps.Guests.Create(dbc, rows)
	if err != nil {
		return nil, err
	}

	var invitations []*types.Invitation
	for i, g := range created {
		want := invitedSet(in[i].InvitedEventIDs)
		for _, eventID := range eventIDs {
			status := guests.StatusNotInvited
			if want[eventID] {
				status = guests.StatusInvited
			}
			invitations = append(invitations, &types.Invitation{
				WeddingID: h.WeddingID,
				EventID:   eventID,
				GuestID:   g.ID,
				Status:    status,
			})
		}
	}
	if _, err := a.deps.Invitations.Create(dbc, invitations); err != nil {
		return nil, err
	}
	return created, nil
}

// reconcileInvitations brings each kept guest's invitations in line with its invited events.
// A recorded response on a still-invited event is preserved.
func (a *householdAggregate) reconcileInvitations(dbc dbctx.Context, weddingID uuid.UUID, kept []guestPlan, eventIDs []uuid.UUID) error {
	if len(kept) == 0 {
		return nil
	}
	guestIDs := make([]uuid.UUID, 0, len(kept))
	for _, p := range kept {
		guestIDs = append(guestIDs, p.guest.ID)
	}
	existing, err := a.deps.Invitations.GetByGuestIDs(dbc, guestIDs)
	if err != nil {
		return err
	}
	byGuest := make(map[uuid.UUID]map[uuid.UUID]*types.Invitation, len(kept))
	for _, inv := range existing {
		if byGuest[inv.GuestID] == nil {
			byGuest[inv.GuestID] = map[uuid.UUID]*types.Invitation{}
		}
		byGuest[inv.GuestID][inv.EventID] = inv
	}

	table := types.Invitation{}.TableName()
	var missing []*types.Invitation
	for _, p := range kept {
		want := invitedSet(p.input.InvitedEventIDs)
		for _, eventID := range eventIDs {
			inv := byGuest[p.guest.ID][eventID]
			switch {
			case inv == nil:
				status := guests.StatusNotInvited
				if want[eventID] {
					status = guests.StatusInvited
				}
				missing = append(missing, &types.Invitation{
					WeddingID: weddingID,
					EventID:   eventID,
					GuestID:   p.guest.ID,
					Status:    status,
				})
			case want[eventID] && inv.Status == guests.StatusNotInvited:
				if _, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, table, inv.ID,
					[]string{guests.StatusNotInvited},
					map[string]any{"status": guests.StatusInvited, "responded_at": nil, "updated_at": a.deps.Base.Now()},
				); err != nil {
					return err
				}
			case !want[eventID] && inv.Status != guests.StatusNotInvited:
				if err := a.deps.Invitations.SetStatus(dbc, inv.ID, guests.StatusNotInvited, nil); err != nil {
					return err
				}
			}
		}
	}
	if len(missing) > 0 {
		a.deps.Base.Log.Warn("filling invitation gaps", "wedding_id", weddingID, "count", len(missing))
		if _, err := a.deps.Invitations.Create(dbc, missing); err != nil {
			return err
		}
	}
	return nil
}

func (a *householdAggregate) applyGift(dbc dbctx.Context, h *types.Household, in *domainagg.GiftInput, remove bool) error {
	if remove {
		return a.deps.Gifts.DeleteByHouseholdIDs(dbc, []uuid.UUID{h.ID})
	}
	if in == nil {
		return nil
	}
	existing, err := a.deps.Gifts.GetByHouseholdID(dbc, h.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return a.deps.Gifts.Create(dbc, newGift(h, in))
	}
	return a.deps.Gifts.Update(dbc, existing.ID, map[string]any{
		"description":    strings.TrimSpace(in.Description),
		"received_at":    in.ReceivedAt,
		"thank_you_sent": in.ThankYouSent,
	})
}

func newGift(h *types.Household, in *domainagg.GiftInput) *types.Gift {
	return &types.Gift{
		WeddingID:    h.WeddingID,
		HouseholdID:  h.ID,
		Description:  strings.TrimSpace(in.Description),
		ReceivedAt:   in.ReceivedAt,
		ThankYouSent: in.ThankYouSent,
	}
}

func cleanGuestInputs(in []domainagg.GuestInput) ([]domainagg.GuestInput, error) {
	if len(in) == 0 {
		return nil, ValidationError("a household needs at least one guest")
	}
	out := make([]domainagg.GuestInput, 0, len(in))
	for i, g := range in {
		g.FirstName = normalize.Text(g.FirstName)
		g.LastName = normalize.Text(g.LastName)
		g.Email = normalize.Email(g.Email)
		g.Phone = strings.TrimSpace(g.Phone)
		if g.FirstName == "" {
			return nil, ValidationError(fmt.Sprintf("guest %d: first name is required", i+1))
		}
		if g.ID != nil && *g.ID == uuid.Nil {
			g.ID = nil
		}
		out = append(out, g)
	}
	return out, nil
}

// cleanHouseholdFields trims the fields and derives a name from the guests when none is given.
func cleanHouseholdFields(f domainagg.HouseholdFields, guestIn []domainagg.GuestInput) domainagg.HouseholdFields {
	f.Name = normalize.Text(f.Name)
	f.AddressLine1 = normalize.Text(f.AddressLine1)
	f.AddressLine2 = normalize.Text(f.AddressLine2)
	f.City = normalize.Text(f.City)
	f.State = normalize.Text(f.State)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.Country = normalize.Text(f.Country)
	f.Notes = strings.TrimSpace(f.Notes)
	if f.Name == "" && len(guestIn) > 0 {
		names := make([]string, 0, 2)
		for _, g := range guestIn {
			if len(names) == 2 {
				break
			}
			names = append(names, strings.TrimSpace(g.FirstName+" "+g.LastName))
		}
		f.Name = strings.Join(names, " & ")
		if len(guestIn) > 2 {
			f.Name += fmt.Sprintf(" +%d", len(guestIn)-2)
		}
	}
	return f
}

func applyHouseholdFields(h *types.Household, f domainagg.HouseholdFields) {
	h.Name = f.Name
	h.AddressLine1 = f.AddressLine1
	h.AddressLine2 = f.AddressLine2
	h.City = f.City
	h.State = f.State
	h.PostalCode = f.PostalCode
	h.Country = f.Country
	h.Notes = f.Notes
}

func householdUpdates(f domainagg.HouseholdFields, now time.Time) map[string]any {
	return map[string]any{
		"updated_at":    now,
		"name":          f.Name,
		"address_line1": f.AddressLine1,
		"address_line2": f.AddressLine2,
		"city":          f.City,
		"state":         f.State,
		"postal_code":   f.PostalCode,
		"country":       f.Country,
		"notes":         f.Notes,
	}
}

func guestUpdates(g domainagg.GuestInput, position int) map[string]any {
	return map[string]any{
		"first_name": g.FirstName,
		"last_name":  g.LastName,
		"name_key":   normalize.NameKey(g.FirstName + " " + g.LastName),
		"email":      g.Email,
		"phone":      g.Phone,
		"is_child":   g.IsChild,
		"position":   position,
	}
}

func requireKnownEvents(guestIn []domainagg.GuestInput, eventIDs []uuid.UUID) error {
	known := invitedSet(eventIDs)
	for _, g := range guestIn {
		for _, id := range g.InvitedEventIDs {
			if !known[id] {
				return ValidationError(fmt.Sprintf("unknown event id: %s", id))
			}
		}
	}
	return nil
}

func invitedSet(ids []uuid.UUID) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
