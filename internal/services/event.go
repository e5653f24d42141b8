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
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/pkg/normalize"
)

type EventPatch struct {
	Name        *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Venue       *string
	Address     *string
	Attire      *string
	Description *string
	CollectRSVP *bool
	Position    *int
}

type EventService interface {
	Create(ctx context.Context, weddingID uuid.UUID, in domainagg.EventFields) (*types.Event, error)
	List(ctx context.Context, weddingID uuid.UUID) ([]*types.Event, error)
	Update(ctx context.Context, weddingID, eventID uuid.UUID, patch EventPatch) (*types.Event, error)
	Delete(ctx context.Context, weddingID, eventID uuid.UUID) error
}

type eventService struct {
	db        *gorm.DB
	log       *logger.Logger
	eventRepo repos.EventRepo
	aggregate domainagg.EventAggregate
	website   websiteInvalidator
}

func NewEventService(
	db *gorm.DB,
	log *logger.Logger,
	eventRepo repos.EventRepo,
	weddingRepo repos.WeddingRepo,
	aggregate domainagg.EventAggregate,
	cache WebsiteCache,
) EventService {
	serviceLog := log.With("service", "EventService")
	return &eventService{
		db:        db,
		log:       serviceLog,
		eventRepo: eventRepo,
		aggregate: aggregate,
		website:   newWebsiteInvalidator(serviceLog, weddingRepo, cache),
	}
}

func (es *eventService) Create(ctx context.Context, weddingID uuid.UUID, in domainagg.EventFields) (*types.Event, error) {
	res, err := es.aggregate.Create(ctx, domainagg.CreateEventInput{WeddingID: weddingID, Event: in})
	if err != nil {
		return nil, err
	}
	es.log.Debug("event created", "wedding_id", weddingID, "event_id", res.EventID, "invitations", res.InvitationsProvisioned)
	es.website.invalidate(ctx, weddingID)
	return es.load(dbctx.Context{Ctx: ctx}, weddingID, res.EventID)
}

func (es *eventService) List(ctx context.Context, weddingID uuid.UUID) ([]*types.Event, error) {
	out, err := es.eventRepo.ListByWeddingID(dbctx.Context{Ctx: ctx}, weddingID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

func (es *eventService) Update(ctx context.Context, weddingID, eventID uuid.UUID, patch EventPatch) (*types.Event, error) {
	var updated *types.Event
	err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := es.load(inner, weddingID, eventID)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		if patch.Name != nil {
			name := normalize.Text(*patch.Name)
			if name == "" {
				return invalidArgf("event name cannot be empty")
			}
			updates["name"] = name
		}
		starts, ends := current.StartsAt, current.EndsAt
		if patch.StartsAt != nil {
			t := patch.StartsAt.UTC()
			starts = &t
			updates["starts_at"] = t
		}
		if patch.EndsAt != nil {
			t := patch.EndsAt.UTC()
			ends = &t
			updates["ends_at"] = t
		}
		if starts != nil && ends != nil && ends.Before(*starts) {
			return invalidArgf("ends_at must not be before starts_at")
		}
		if patch.Venue != nil {
			updates["venue"] = normalize.Text(*patch.Venue)
		}
		if patch.Address != nil {
			updates["address"] = normalize.Text(*patch.Address)
		}
		if patch.Attire != nil {
			updates["attire"] = normalize.Text(*patch.Attire)
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if patch.CollectRSVP != nil {
			updates["collect_rsvp"] = *patch.CollectRSVP
		}
		if patch.Position != nil {
			updates["position"] = *patch.Position
		}
		if len(updates) > 0 {
			if err := es.eventRepo.Update(inner, eventID, updates); err != nil {
				return fmt.Errorf("update event: %w", err)
			}
		}
		updated, err = es.load(inner, weddingID, eventID)
		return err
	})
	if err != nil {
		return nil, err
	}
	es.website.invalidate(ctx, weddingID)
	return updated, nil
}

func (es *eventService) Delete(ctx context.Context, weddingID, eventID uuid.UUID) error {
	if err := es.aggregate.Delete(ctx, domainagg.DeleteEventInput{WeddingID: weddingID, EventID: eventID}); err != nil {
		return err
	}
	es.website.invalidate(ctx, weddingID)
	return nil
}

func (es *eventService) load(dbc dbctx.Context, weddingID, eventID uuid.UUID) (*types.Event, error) {
	rows, err := es.eventRepo.GetByIDs(dbc, weddingID, []uuid.UUID{eventID})
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}
	if len(rows) == 0 {
		return nil, notFoundf("event %s", eventID)
	}
	return rows[0], nil
}
