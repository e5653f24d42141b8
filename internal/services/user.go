package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/wedsite-backend/internal/data/repos"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/pkg/ctxutil"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/pkg/normalize"
)

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
	UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
	}
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil {
		us.log.Warn("Request data not set in context")
		return nil, unauthorizedf("request data not set in context")
	}
	users, err := us.userRepo.GetByIDs(dbc, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, notFoundf("user %s", rd.UserID)
	}
	return users[0], nil
}

func (us *userService) UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, unauthorizedf("request data not set in context")
	}
	first := normalize.Text(firstName)
	last := normalize.Text(lastName)
	if first == "" {
		return nil, invalidArgf("first name is required")
	}

	var updated *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := us.userRepo.UpdateName(inner, rd.UserID, first, last); err != nil {
			return fmt.Errorf("update name: %w", err)
		}
		users, err := us.userRepo.GetByIDs(inner, []uuid.UUID{rd.UserID})
		if err != nil {
			return fmt.Errorf("reload user: %w", err)
		}
		if len(users) == 0 {
			return notFoundf("user %s", rd.UserID)
		}
		updated = users[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
