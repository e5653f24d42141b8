package rsvp

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

// ResponseRow is an answer joined with its question prompt and guest name.
type ResponseRow struct {
	AnswerID       uuid.UUID
	QuestionID     uuid.UUID
	Prompt         string
	Kind           string
	HouseholdID    uuid.UUID
	HouseholdName  string
	GuestID        uuid.UUID
	GuestFirstName string
	GuestLastName  string
	Value          []byte
}

type AnswerRepo interface {
	// Upsert inserts answers or replaces the value of the existing (question, household, guest) row.
	Upsert(dbc dbctx.Context, answers []*types.Answer) error
	ListByHouseholdID(dbc dbctx.Context, householdID uuid.UUID) ([]*types.Answer, error)
	ListResponses(dbc dbctx.Context, weddingID uuid.UUID) ([]ResponseRow, error)
	DeleteByQuestionIDs(dbc dbctx.Context, questionIDs []uuid.UUID) error
	DeleteByGuestIDs(dbc dbctx.Context, guestIDs []uuid.UUID) error
	DeleteByHouseholdIDs(dbc dbctx.Context, householdIDs []uuid.UUID) error
	DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error
}

type answerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnswerRepo(db *gorm.DB, baseLog *logger.Logger) AnswerRepo {
	repoLog := baseLog.With("repo", "AnswerRepo")
	return &answerRepo{db: db, log: repoLog}
}

func (r *answerRepo) Upsert(dbc dbctx.Context, answers []*types.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "question_id"}, {Name: "household_id"}, {Name: "guest_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&answers).Error
}

func (r *answerRepo) ListByHouseholdID(dbc dbctx.Context, householdID uuid.UUID) ([]*types.Answer, error) {
	var results []*types.Answer
	if err := dbc.DB(r.db).
		Where("household_id = ?", householdID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *answerRepo) ListResponses(dbc dbctx.Context, weddingID uuid.UUID) ([]ResponseRow, error) {
	var rows []ResponseRow
	err := dbc.DB(r.db).
		Table("rsvp_answer AS a").
		Select(`a.id AS answer_id, a.question_id, q.prompt, q.kind, a.household_id,
			h.name AS household_name, a.guest_id,
			COALESCE(g.first_name, '') AS guest_first_name, COALESCE(g.last_name, '') AS guest_last_name,
			a.value`).
		Joins("JOIN rsvp_question AS q ON q.id = a.question_id").
		Joins("JOIN household AS h ON h.id = a.household_id").
		Joins("LEFT JOIN guest AS g ON g.id = a.guest_id").
		Where("a.wedding_id = ?", weddingID).
		Order("q.position ASC, h.name ASC, g.position ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *answerRepo) DeleteByQuestionIDs(dbc dbctx.Context, questionIDs []uuid.UUID) error {
	if len(questionIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("question_id IN ?", questionIDs).Delete(&types.Answer{}).Error
}

func (r *answerRepo) DeleteByGuestIDs(dbc dbctx.Context, guestIDs []uuid.UUID) error {
	if len(guestIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("guest_id IN ?", guestIDs).Delete(&types.Answer{}).Error
}

func (r *answerRepo) DeleteByHouseholdIDs(dbc dbctx.Context, householdIDs []uuid.UUID) error {
	if len(householdIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("household_id IN ?", householdIDs).Delete(&types.Answer{}).Error
}

func (r *answerRepo) DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error {
	return dbc.DB(r.db).Where("wedding_id = ?", weddingID).Delete(&types.Answer{}).Error
}
