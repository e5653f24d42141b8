package guests

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/domain/guests"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

// EventStatusCount is one row of the per-event status breakdown.
type EventStatusCount struct {
	EventID uuid.UUID
	Status  string
	Count   int64
}

type InvitationRepo interface {
	Create(dbc dbctx.Context, invitations []*types.Invitation) ([]*types.Invitation, error)
	GetByGuestIDs(dbc dbctx.Context, guestIDs []uuid.UUID) ([]*types.Invitation, error)
	GetByEventIDs(dbc dbctx.Context, eventIDs []uuid.UUID) ([]*types.Invitation, error)
	// SetStatus updates one invitation; respondedAt nil clears the column.
	SetStatus(dbc dbctx.Context, invitationID uuid.UUID, status string, respondedAt *time.Time) error
	CountByEventAndStatus(dbc dbctx.Context, weddingID uuid.UUID) ([]EventStatusCount, error)
	DeleteByGuestIDs(dbc dbctx.Context, guestIDs []uuid.UUID) error
	DeleteByEventIDs(dbc dbctx.Context, eventIDs []uuid.UUID) error
	DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error
}

type invitationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInvitationRepo(db *gorm.DB, baseLog *logger.Logger) InvitationRepo {
	repoLog := baseLog.With("repo", "InvitationRepo")
	return &invitationRepo{db: db, log: repoLog}
}

func (r *invitationRepo) Create(dbc dbctx.Context, invitations []*types.Invitation) ([]*types.Invitation, error) {
	if len(invitations) == 0 {
		return []*types.Invitation{}, nil
	}
	if err := dbc.DB(r.db).CreateInBatches(&invitations, 200).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *invitationRepo) GetByGuestIDs(dbc dbctx.Context, guestIDs []uuid.UUID) ([]*types.Invitation, error) {
	var results []*types.Invitation
	if len(guestIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).Where("guest_id IN ?", guestIDs).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *invitationRepo) GetByEventIDs(dbc dbctx.Context, eventIDs []uuid.UUID) ([]*types.Invitation, error) {
	var results []*types.Invitation
	if len(eventIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).Where("event_id IN ?", eventIDs).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *invitationRepo) SetStatus(dbc dbctx.Context, invitationID uuid.UUID, status string, respondedAt *time.Time) error {
	return dbc.DB(r.db).
		Model(&types.Invitation{}).
		Where("id = ?", invitationID).
		Updates(map[string]any{
			"status":       status,
			"responded_at": respondedAt,
		}).Error
}

func (r *invitationRepo) CountByEventAndStatus(dbc dbctx.Context, weddingID uuid.UUID) ([]EventStatusCount, error) {
	var rows []EventStatusCount
	if err := dbc.DB(r.db).
		Model(&types.Invitation{}).
		Select("event_id, status, COUNT(*) AS count").
		Where("wedding_id = ? AND status <> ?", weddingID, guests.StatusNotInvited).
		Group("event_id, status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *invitationRepo) DeleteByGuestIDs(dbc dbctx.Context, guestIDs []uuid.UUID) error {
	if len(guestIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("guest_id IN ?", guestIDs).Delete(&types.Invitation{}).Error
}

func (r *invitationRepo) DeleteByEventIDs(dbc dbctx.Context, eventIDs []uuid.UUID) error {
	if len(eventIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("event_id IN ?", eventIDs).Delete(&types.Invitation{}).Error
}

func (r *invitationRepo) DeleteByWeddingID(dbc dbctx.Context, weddingID uuid.UUID) error {
	return dbc.DB(r.db).Where("wedding_id = ?", weddingID).Delete(&types.Invitation{}).Error
}
