package wedding

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

type WeddingRepo interface {
	Create(dbc dbctx.Context, weddings []*types.Wedding) ([]*types.Wedding, error)
	GetByID(dbc dbctx.Context, weddingID uuid.UUID) (*types.Wedding, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.Wedding, error)
	ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Wedding, error)
	// SlugsWithPrefix returns taken slugs equal to prefix or starting with prefix + "-".
	SlugsWithPrefix(dbc dbctx.Context, prefix string) ([]string, error)
	Update(dbc dbctx.Context, weddingID uuid.UUID, updates map[string]any) error
	FullDeleteByID(dbc dbctx.Context, weddingID uuid.UUID) error
}

type weddingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeddingRepo(db *gorm.DB, baseLog *logger.Logger) WeddingRepo {
	repoLog := baseLog.With("repo", "WeddingRepo")
	return &weddingRepo{db: db, log: repoLog}
}

func (r *weddingRepo) Create(dbc dbctx.Context, weddings []*types.Wedding) ([]*types.Wedding, error) {
	if len(weddings) == 0 {
		return []*types.Wedding{}, nil
	}
	if err := dbc.DB(r.db).Create(&weddings).Error; err != nil {
		return nil, err
	}
	return weddings, nil
}

// GetByID returns nil, nil when the wedding does not exist.
func (r *weddingRepo) GetByID(dbc dbctx.Context, weddingID uuid.UUID) (*types.Wedding, error) {
	var w types.Wedding
	err := dbc.DB(r.db).Where("id = ?", weddingID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *weddingRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Wedding, error) {
	var w types.Wedding
	err := dbc.DB(r.db).Where("slug = ?", slug).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *weddingRepo) ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Wedding, error) {
	var results []*types.Wedding
	if err := dbc.DB(r.db).
		Where("id IN (?)", dbc.DB(r.db).Model(&types.WeddingMember{}).Select("wedding_id").Where("user_id = ?", userID)).
		Order("date ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *weddingRepo) SlugsWithPrefix(dbc dbctx.Context, prefix string) ([]string, error) {
	var slugs []string
	if err := dbc.DB(r.db).
		Model(&types.Wedding{}).
		Where("slug = ? OR slug LIKE ?", prefix, prefix+"-%").
		Pluck("slug", &slugs).Error; err != nil {
		return nil, err
	}
	return slugs, nil
}

func (r *weddingRepo) Update(dbc dbctx.Context, weddingID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Wedding{}).
		Where("id = ?", weddingID).
		Updates(updates).Error
}

func (r *weddingRepo) FullDeleteByID(dbc dbctx.Context, weddingID uuid.UUID) error {
	return dbc.DB(r.db).
		Where("id = ?", weddingID).
		Delete(&types.Wedding{}).Error
}
