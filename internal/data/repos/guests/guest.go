package guests

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

type GuestRepo interface {
	Create(dbc dbctx.Context, guests []*types.Guest) ([]*types.Guest, error)
	GetByIDs(dbc dbctx.Context, guestIDs []uuid.UUID) ([]*types.Guest, error)
	// GetByHouseholdIDs returns guests ordered by household then position.
	GetByHouseholdIDs(dbc dbctx.Context, householdIDs []uuid.UUID) ([]*types.Guest, error)
	FindByNameKey(dbc dbctx.Context, weddingID uuid.UUID, nameKey string) ([]*types.Guest, error)
	ListIDsByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) ([]uuid.UUID, error)
	CountByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) (int64, error)
	Update(dbc dbctx.Context, guestID uuid.UUID, updates map[string]any) error
	DeleteByIDs(dbc dbctx.Context, guestIDs []uuid.UUID) error
	DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error
}

type guestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGuestRepo(db *gorm.DB, baseLog *logger.Logger) GuestRepo {
	repoLog := baseLog.With("repo", "GuestRepo")
	return &guestRepo{db: db, log: repoLog}
}

func (r *guestRepo) Create(dbc dbctx.Context, guests []*types.Guest) ([]*types.Guest, error) {
	if len(guests) == 0 {
		return []*types.Guest{}, nil
	}
	if err := dbc.DB(r.db).Create(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

func (r *guestRepo) GetByIDs(dbc dbctx.Context, guestIDs []uuid.UUID) ([]*types.Guest, error) {
	var results []*types.Guest
	if len(guestIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", guestIDs).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *guestRepo) GetByHouseholdIDs(dbc dbctx.Context, householdIDs []uuid.UUID) ([]*types.Guest, error) {
	var results []*types.Guest
	if len(householdIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("household_id IN ?", householdIDs).
		Order("household_id ASC, position ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *guestRepo) FindByNameKey(dbc dbctx.Context, weddingID uuid.UUID, nameKey string) ([]*types.Guest, error) {
	var results []*types.Guest
	if err := dbc.DB(r.db).
		Where("wedding_id = ? AND name_key = ?", weddingID, nameKey).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *guestRepo) ListIDsByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.DB(r.db).
		Model(&types.Guest{}).
		Where("wedding_id = ?", weddingID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *guestRepo) CountByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Guest{}).Where("wedding_id = ?", weddingID).Count(&n).Error
	return n, err
}

func (r *guestRepo) Update(dbc dbctx.Context, guestID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Guest{}).
		Where("id = ?", guestID).
		Updates(updates).Error
}

func (r *guestRepo) DeleteByIDs(dbc dbctx.Context, guestIDs []uuid.UUID) error {
	if len(guestIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("id IN ?", guestIDs).Delete(&types.Guest{}).Error
}

func (r *guestRepo) DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error {
	return dbc.DB(r.db).Where("wedding_id = ?", weddingID).Delete(&types.Guest{}).Error
}
