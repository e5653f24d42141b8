package wedding

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/domain/wedding"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

type WeddingMemberRepo interface {
	// Create skips memberships that already exist for (wedding_id, user_id).
	Create(dbc dbctx.Context, members []*types.WeddingMember) error
	Get(dbc dbctx.Context, weddingID, userID uuid.UUID) (*types.WeddingMember, error)
	ListByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) ([]*types.WeddingMember, error)
	CountOwners(dbc dbctx.Context, weddingID uuid.UUID) (int64, error)
	Delete(dbc dbctx.Context, weddingID, userID uuid.UUID) error
	DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error
}

type weddingMemberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeddingMemberRepo(db *gorm.DB, baseLog *logger.Logger) WeddingMemberRepo {
	repoLog := baseLog.With("repo", "WeddingMemberRepo")
	return &weddingMemberRepo{db: db, log: repoLog}
}

func (r *weddingMemberRepo) Create(dbc dbctx.Context, members []*types.WeddingMember) error {
	if len(members) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wedding_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&members).Error
}

func (r *weddingMemberRepo) Get(dbc dbctx.Context, weddingID, userID uuid.UUID) (*types.WeddingMember, error) {
	var m types.WeddingMember
	err := dbc.DB(r.db).
		Where("wedding_id = ? AND user_id = ?", weddingID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *weddingMemberRepo) ListByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) ([]*types.WeddingMember, error) {
	var results []*types.WeddingMember
	if err := dbc.DB(r.db).
		Where("wedding_id = ?", weddingID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *weddingMemberRepo) CountOwners(dbc dbctx.Context, weddingID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).
		Model(&types.WeddingMember{}).
		Where("wedding_id = ? AND role = ?", weddingID, wedding.RoleOwner).
		Count(&n).Error
	return n, err
}

func (r *weddingMemberRepo) Delete(dbc dbctx.Context, weddingID, userID uuid.UUID) error {
	return dbc.DB(r.db).
		Where("wedding_id = ? AND user_id = ?", weddingID, userID).
		Delete(&types.WeddingMember{}).Error
}

func (r *weddingMemberRepo) DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error {
	return dbc.DB(r.db).
		Where("wedding_id = ?", weddingID).
		Delete(&types.WeddingMember{}).Error
}
