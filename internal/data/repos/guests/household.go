package guests

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

type HouseholdRepo interface {
	Create(dbc dbctx.Context, households []*types.Household) ([]*types.Household, error)
	GetByID(dbc dbctx.Context, weddingID, householdID uuid.UUID) (*types.Household, error)
	// ListByWeddingID filters by a case-insensitive substring of the household or any guest name.
	ListByWeddingID(dbc dbctx.Context, weddingID uuid.UUID, search string) ([]*types.Household, error)
	Update(dbc dbctx.Context, householdID uuid.UUID, updates map[string]any) error
	CountByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) (int64, error)
	DeleteByIDs(dbc dbctx.Context, householdIDs []uuid.UUID) error
	DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error
}

type householdRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHouseholdRepo(db *gorm.DB, baseLog *logger.Logger) HouseholdRepo {
	repoLog := baseLog.With("repo", "HouseholdRepo")
	return &householdRepo{db: db, log: repoLog}
}

func (r *householdRepo) Create(dbc dbctx.Context, households []*types.Household) ([]*types.Household, error) {
	if len(households) == 0 {
		return []*types.Household{}, nil
	}
	if err := dbc.DB(r.db).Create(&households).Error; err != nil {
		return nil, err
	}
	return households, nil
}

func (r *householdRepo) GetByID(dbc dbctx.Context, weddingID, householdID uuid.UUID) (*types.Household, error) {
	var h types.Household
	err := dbc.DB(r.db).
		Where("wedding_id = ? AND id = ?", weddingID, householdID).
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// likeEscaper makes user search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *householdRepo) ListByWeddingID(dbc dbctx.Context, weddingID uuid.UUID, search string) ([]*types.Household, error) {
	q := dbc.DB(r.db).Where("wedding_id = ?", weddingID)
	if s := strings.ToLower(strings.TrimSpace(search)); s != "" {
		like := "%" + likeEscaper.Replace(s) + "%"
		guestMatch := dbc.DB(r.db).
			Model(&types.Guest{}).
			Select("household_id").
			Where(`wedding_id = ? AND (LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR name_key LIKE ? ESCAPE '\')`, weddingID, like, like, like)
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR id IN (?)`, like, guestMatch)
	}
	var results []*types.Household
	if err := q.Order("name ASC, created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *householdRepo) Update(dbc dbctx.Context, householdID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Household{}).
		Where("id = ?", householdID).
		Updates(updates).Error
}

func (r *householdRepo) CountByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Household{}).Where("wedding_id = ?", weddingID).Count(&n).Error
	return n, err
}

func (r *householdRepo) DeleteByIDs(dbc dbctx.Context, householdIDs []uuid.UUID) error {
	if len(householdIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("id IN ?", householdIDs).Delete(&types.Household{}).Error
}

func (r *householdRepo) DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error {
	return dbc.DB(r.db).Where("wedding_id = ?", weddingID).Delete(&types.Household{}).Error
}
