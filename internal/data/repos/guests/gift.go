package guests

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

type GiftStats struct {
	Received        int64
	ThankYouPending int64
}

type GiftRepo interface {
	Create(dbc dbctx.Context, gift *types.Gift) error
	GetByHouseholdID(dbc dbctx.Context, householdID uuid.UUID) (*types.Gift, error)
	GetByHouseholdIDs(dbc dbctx.Context, householdIDs []uuid.UUID) ([]*types.Gift, error)
	Update(dbc dbctx.Context, giftID uuid.UUID, updates map[string]any) error
	Stats(dbc dbctx.Context, weddingID uuid.UUID) (GiftStats, error)
	DeleteByHouseholdIDs(dbc dbctx.Context, householdIDs []uuid.UUID) error
	DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error
}

type giftRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGiftRepo(db *gorm.DB, baseLog *logger.Logger) GiftRepo {
	repoLog := baseLog.With("repo", "GiftRepo")
	return &giftRepo{db: db, log: repoLog}
}

func (r *giftRepo) Create(dbc dbctx.Context, gift *types.Gift) error {
	return dbc.DB(r.db).Create(gift).Error
}

func (r *giftRepo) GetByHouseholdID(dbc dbctx.Context, householdID uuid.UUID) (*types.Gift, error) {
	var g types.Gift
	err := dbc.DB(r.db).Where("household_id = ?", householdID).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *giftRepo) GetByHouseholdIDs(dbc dbctx.Context, householdIDs []uuid.UUID) ([]*types.Gift, error) {
	var results []*types.Gift
	if len(householdIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).Where("household_id IN ?", householdIDs).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *giftRepo) Update(dbc dbctx.Context, giftID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Gift{}).Where("id = ?", giftID).Updates(updates).Error
}

func (r *giftRepo) Stats(dbc dbctx.Context, weddingID uuid.UUID) (GiftStats, error) {
	var stats GiftStats
	base := func() *gorm.DB {
		return dbc.DB(r.db).Model(&types.Gift{}).Where("wedding_id = ? AND received_at IS NOT NULL", weddingID)
	}
	if err := base().Count(&stats.Received).Error; err != nil {
		return GiftStats{}, err
	}
	if err := base().Where("thank_you_sent = ?", false).Count(&stats.ThankYouPending).Error; err != nil {
		return GiftStats{}, err
	}
	return stats, nil
}

func (r *giftRepo) DeleteByHouseholdIDs(dbc dbctx.Context, householdIDs []uuid.UUID) error {
	if len(householdIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("household_id IN ?", householdIDs).Delete(&types.Gift{}).Error
}

func (r *giftRepo) DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error {
	return dbc.DB(r.db).Where("wedding_id = ?", weddingID).Delete(&types.Gift{}).Error
}
