package rsvp

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

type QuestionRepo interface {
	Create(dbc dbctx.Context, questions []*types.Question) ([]*types.Question, error)
	GetByIDs(dbc dbctx.Context, weddingID uuid.UUID, questionIDs []uuid.UUID) ([]*types.Question, error)
	// ListByWeddingID returns questions ordered by position.
	ListByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) ([]*types.Question, error)
	ListIDsByEventIDs(dbc dbctx.Context, eventIDs []uuid.UUID) ([]uuid.UUID, error)
	NextPosition(dbc dbctx.Context, weddingID uuid.UUID) (int, error)
	Update(dbc dbctx.Context, questionID uuid.UUID, updates map[string]any) error
	SetPosition(dbc dbctx.Context, questionID uuid.UUID, position int) error
	DeleteByIDs(dbc dbctx.Context, questionIDs []uuid.UUID) error
	DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	repoLog := baseLog.With("repo", "QuestionRepo")
	return &questionRepo{db: db, log: repoLog}
}

func (r *questionRepo) Create(dbc dbctx.Context, questions []*types.Question) ([]*types.Question, error) {
	if len(questions) == 0 {
		return []*types.Question{}, nil
	}
	if err := dbc.DB(r.db).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) GetByIDs(dbc dbctx.Context, weddingID uuid.UUID, questionIDs []uuid.UUID) ([]*types.Question, error) {
	var results []*types.Question
	if len(questionIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("wedding_id = ? AND id IN ?", weddingID, questionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *questionRepo) ListByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) ([]*types.Question, error) {
	var results []*types.Question
	if err := dbc.DB(r.db).
		Where("wedding_id = ?", weddingID).
		Order("position ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *questionRepo) ListIDsByEventIDs(dbc dbctx.Context, eventIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if len(eventIDs) == 0 {
		return ids, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.Question{}).
		Where("event_id IN ?", eventIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *questionRepo) NextPosition(dbc dbctx.Context, weddingID uuid.UUID) (int, error) {
	var maxPos int
	if err := dbc.DB(r.db).
		Model(&types.Question{}).
		Where("wedding_id = ?", weddingID).
		Select("COALESCE(MAX(position), -1)").
		Scan(&maxPos).Error; err != nil {
		return 0, err
	}
	return maxPos + 1, nil
}

func (r *questionRepo) Update(dbc dbctx.Context, questionID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Question{}).Where("id = ?", questionID).Updates(updates).Error
}

func (r *questionRepo) SetPosition(dbc dbctx.Context, questionID uuid.UUID, position int) error {
	return dbc.DB(r.db).
		Model(&types.Question{}).
		Where("id = ?", questionID).
		Update("position", position).Error
}

func (r *questionRepo) DeleteByIDs(dbc dbctx.Context, questionIDs []uuid.UUID) error {
	if len(questionIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("id IN ?", questionIDs).Delete(&types.Question{}).Error
}

func (r *questionRepo) DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error {
	return dbc.DB(r.db).Where("wedding_id = ?", weddingID).Delete(&types.Question{}).Error
}
