package wedding

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

type WebsiteSettingsRepo interface {
	Create(dbc dbctx.Context, settings *types.WebsiteSettings) error
	GetByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) (*types.WebsiteSettings, error)
	Update(dbc dbctx.Context, weddingID uuid.UUID, updates map[string]any) error
	DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error
}

type websiteSettingsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWebsiteSettingsRepo(db *gorm.DB, baseLog *logger.Logger) WebsiteSettingsRepo {
	repoLog := baseLog.With("repo", "WebsiteSettingsRepo")
	return &websiteSettingsRepo{db: db, log: repoLog}
}

func (r *websiteSettingsRepo) Create(dbc dbctx.Context, settings *types.WebsiteSettings) error {
	return dbc.DB(r.db).Create(settings).Error
}

func (r *websiteSettingsRepo) GetByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) (*types.WebsiteSettings, error) {
	var s types.WebsiteSettings
	err := dbc.DB(r.db).Where("wedding_id = ?", weddingID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *websiteSettingsRepo) Update(dbc dbctx.Context, weddingID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.WebsiteSettings{}).
		Where("wedding_id = ?", weddingID).
		Updates(updates).Error
}

func (r *websiteSettingsRepo) DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error {
	return dbc.DB(r.db).
		Where("wedding_id = ?", weddingID).
		Delete(&types.WebsiteSettings{}).Error
}
