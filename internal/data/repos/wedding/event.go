package wedding

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

type EventRepo interface {
	Create(dbc dbctx.Context, events []*types.Event) ([]*types.Event, error)
	GetByIDs(dbc dbctx.Context, weddingID uuid.UUID, eventIDs []uuid.UUID) ([]*types.Event, error)
	// ListByWeddingID returns events ordered by position then start time.
	ListByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) ([]*types.Event, error)
	ListIDsByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) ([]uuid.UUID, error)
	Update(dbc dbctx.Context, eventID uuid.UUID, updates map[string]any) error
	DeleteByIDs(dbc dbctx.Context, eventIDs []uuid.UUID) error
	DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	repoLog := baseLog.With("repo", "EventRepo")
	return &eventRepo{db: db, log: repoLog}
}

func (r *eventRepo) Create(dbc dbctx.Context, events []*types.Event) ([]*types.Event, error) {
	if len(events) == 0 {
		return []*types.Event{}, nil
	}
	if err := dbc.DB(r.db).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) GetByIDs(dbc dbctx.Context, weddingID uuid.UUID, eventIDs []uuid.UUID) ([]*types.Event, error) {
	var results []*types.Event
	if len(eventIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("wedding_id = ? AND id IN ?", weddingID, eventIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *eventRepo) ListByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) ([]*types.Event, error) {
	var results []*types.Event
	if err := dbc.DB(r.db).
		Where("wedding_id = ?", weddingID).
		Order("position ASC, starts_at ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *eventRepo) ListIDsByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.DB(r.db).
		Model(&types.Event{}).
		Where("wedding_id = ?", weddingID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *eventRepo) Update(dbc dbctx.Context, eventID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Event{}).
		Where("id = ?", eventID).
		Updates(updates).Error
}

func (r *eventRepo) DeleteByIDs(dbc dbctx.Context, eventIDs []uuid.UUID) error {
	if len(eventIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Where("id IN ?", eventIDs).
		Delete(&types.Event{}).Error
}

func (r *eventRepo) DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error {
	return dbc.DB(r.db).
		Where("wedding_id = ?", weddingID).
		Delete(&types.Event{}).Error
}
