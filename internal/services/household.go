package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/wedsite-backend/internal/data/repos"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/domain/wedding"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/realtime"
)

type GuestDetail struct {
	*types.Guest
	Invitations []*types.Invitation `json:"invitations"`
}

type HouseholdDetail struct {
	*types.Household
	Guests  []GuestDetail   `json:"guests"`
	Gift    *types.Gift     `json:"gift,omitempty"`
	Answers []*types.Answer `json:"answers"`
}

type HouseholdSummary struct {
	*types.Household
	Guests []*types.Guest `json:"guests"`
}

type ImportFailure struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

type ImportResult struct {
	Created  []uuid.UUID     `json:"created"`
	Failures []ImportFailure `json:"failures"`
}

type HouseholdService interface {
	Create(ctx context.Context, in domainagg.CreateHouseholdInput) (*HouseholdDetail, error)
	Update(ctx context.Context, in domainagg.UpdateHouseholdInput) (*HouseholdDetail, error)
	Delete(ctx context.Context, weddingID, householdID uuid.UUID) error
	Get(ctx context.Context, weddingID, householdID uuid.UUID) (*HouseholdDetail, error)
	List(ctx context.Context, weddingID uuid.UUID, search string) ([]HouseholdSummary, error)
	// Import creates each household independently; one failure does not stop the rest.
	Import(ctx context.Context, weddingID uuid.UUID, in []domainagg.CreateHouseholdInput) (*ImportResult, error)
}

type householdService struct {
	db             *gorm.DB
	log            *logger.Logger
	householdRepo  repos.HouseholdRepo
	guestRepo      repos.GuestRepo
	invitationRepo repos.InvitationRepo
	giftRepo       repos.GiftRepo
	answerRepo     repos.AnswerRepo
	aggregate      domainagg.HouseholdAggregate
	emitter        SSEEmitter
}

func NewHouseholdService(
	db *gorm.DB,
	log *logger.Logger,
	householdRepo repos.HouseholdRepo,
	guestRepo repos.GuestRepo,
	invitationRepo repos.InvitationRepo,
	giftRepo repos.GiftRepo,
	answerRepo repos.AnswerRepo,
	aggregate domainagg.HouseholdAggregate,
	emitter SSEEmitter,
) HouseholdService {
	if emitter == nil {
		emitter = noopEmitter{}
	}
	return &householdService{
		db:             db,
		log:            log.With("service", "HouseholdService"),
		householdRepo:  householdRepo,
		guestRepo:      guestRepo,
		invitationRepo: invitationRepo,
		giftRepo:       giftRepo,
		answerRepo:     answerRepo,
		aggregate:      aggregate,
		emitter:        emitter,
	}
}

func (hs *householdService) Create(ctx context.Context, in domainagg.CreateHouseholdInput) (*HouseholdDetail, error) {
	res, err := hs.aggregate.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	hs.notify(ctx, in.WeddingID, res.HouseholdID, "created")
	return hs.Get(ctx, in.WeddingID, res.HouseholdID)
}

func (hs *householdService) Update(ctx context.Context, in domainagg.UpdateHouseholdInput) (*HouseholdDetail, error) {
	res, err := hs.aggregate.Update(ctx, in)
	if err != nil {
		return nil, err
	}
	hs.log.Debug("household updated",
		"household_id", res.HouseholdID,
		"version", res.Version,
		"created_guests", res.CreatedGuests,
		"updated_guests", res.UpdatedGuests,
		"deleted_guests", res.DeletedGuests,
	)
	hs.notify(ctx, in.WeddingID, res.HouseholdID, "updated")
	return hs.Get(ctx, in.WeddingID, res.HouseholdID)
}

func (hs *householdService) Delete(ctx context.Context, weddingID, householdID uuid.UUID) error {
	if err := hs.aggregate.Delete(ctx, domainagg.DeleteHouseholdInput{WeddingID: weddingID, HouseholdID: householdID}); err != nil {
		return err
	}
	hs.notify(ctx, weddingID, householdID, "deleted")
	return nil
}

func (hs *householdService) Get(ctx context.Context, weddingID, householdID uuid.UUID) (*HouseholdDetail, error) {
	var out *HouseholdDetail
	err := hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		h, err := hs.householdRepo.GetByID(inner, weddingID, householdID)
		if err != nil {
			return fmt.Errorf("load household: %w", err)
		}
		if h == nil {
			return notFoundf("household %s", householdID)
		}
		guestRows, err := hs.guestRepo.GetByHouseholdIDs(inner, []uuid.UUID{h.ID})
		if err != nil {
			return fmt.Errorf("load guests: %w", err)
		}
		guestIDs := make([]uuid.UUID, 0, len(guestRows))
		for _, g := range guestRows {
			guestIDs = append(guestIDs, g.ID)
		}
		invs, err := hs.invitationRepo.GetByGuestIDs(inner, guestIDs)
		if err != nil {
			return fmt.Errorf("load invitations: %w", err)
		}
		byGuest := make(map[uuid.UUID][]*types.Invitation, len(guestRows))
		for _, inv := range invs {
			byGuest[inv.GuestID] = append(byGuest[inv.GuestID], inv)
		}
		gift, err := hs.giftRepo.GetByHouseholdID(inner, h.ID)
		if err != nil {
			return fmt.Errorf("load gift: %w", err)
		}
		answers, err := hs.answerRepo.ListByHouseholdID(inner, h.ID)
		if err != nil {
			return fmt.Errorf("load answers: %w", err)
		}

		out = &HouseholdDetail{Household: h, Gift: gift, Answers: answers}
		out.Guests = make([]GuestDetail, 0, len(guestRows))
		for _, g := range guestRows {
			gi := byGuest[g.ID]
			if gi == nil {
				gi = []*types.Invitation{}
			}
			out.Guests = append(out.Guests, GuestDetail{Guest: g, Invitations: gi})
		}
		if out.Answers == nil {
			out.Answers = []*types.Answer{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (hs *householdService) List(ctx context.Context, weddingID uuid.UUID, search string) ([]HouseholdSummary, error) {
	dbc := dbctx.Context{Ctx: ctx}
	households, err := hs.householdRepo.ListByWeddingID(dbc, weddingID, search)
	if err != nil {
		return nil, fmt.Errorf("list households: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(households))
	for _, h := range households {
		ids = append(ids, h.ID)
	}
	guestRows, err := hs.guestRepo.GetByHouseholdIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("load guests: %w", err)
	}
	byHousehold := make(map[uuid.UUID][]*types.Guest, len(households))
	for _, g := range guestRows {
		byHousehold[g.HouseholdID] = append(byHousehold[g.HouseholdID], g)
	}
	out := make([]HouseholdSummary, 0, len(households))
	for _, h := range households {
		gs := byHousehold[h.ID]
		if gs == nil {
			gs = []*types.Guest{}
		}
		out = append(out, HouseholdSummary{Household: h, Guests: gs})
	}
	return out, nil
}

func (hs *householdService) Import(ctx context.Context, weddingID uuid.UUID, in []domainagg.CreateHouseholdInput) (*ImportResult, error) {
	if len(in) == 0 {
		return nil, invalidArgf("nothing to import")
	}
	out := &ImportResult{Created: []uuid.UUID{}, Failures: []ImportFailure{}}
	for i, h := range in {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		h.WeddingID = weddingID
		res, err := hs.aggregate.Create(ctx, h)
		if err != nil {
			out.Failures = append(out.Failures, ImportFailure{
				Index: i,
				Name:  h.Household.Name,
				Error: domainagg.MessageOf(err),
			})
			continue
		}
		out.Created = append(out.Created, res.HouseholdID)
	}
	hs.log.Info("households imported", "wedding_id", weddingID, "created", len(out.Created), "failed", len(out.Failures))
	if len(out.Created) > 0 {
		hs.emitter.Emit(ctx, realtime.SSEMessage{
			Channel: wedding.Channel(weddingID),
			Event:   realtime.SSEEventHouseholdChanged,
			Data:    map[string]any{"action": "imported", "count": len(out.Created)},
		})
	}
	return out, nil
}

func (hs *householdService) notify(ctx context.Context, weddingID, householdID uuid.UUID, action string) {
	hs.emitter.Emit(ctx, realtime.SSEMessage{
		Channel: wedding.Channel(weddingID),
		Event:   realtime.SSEEventHouseholdChanged,
		Data:    map[string]any{"household_id": householdID, "action": action},
	})
}
