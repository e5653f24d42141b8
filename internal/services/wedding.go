package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/wedsite-backend/internal/data/repos"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/domain/wedding"
	"github.com/yungbote/wedsite-backend/internal/pkg/ctxutil"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/pkg/normalize"
	"github.com/yungbote/wedsite-backend/internal/realtime"
)

type CreateWeddingInput struct {
	PartnerOne string
	PartnerTwo string
	Date       *time.Time
	Location   string
	TimeZone   string
	Slug       string
}

// UpdateWeddingInput is a patch: nil fields are left alone.
type UpdateWeddingInput struct {
	PartnerOne *string
	PartnerTwo *string
	Date       *time.Time
	ClearDate  bool
	Location   *string
	TimeZone   *string
	Slug       *string
}

type MemberView struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type WeddingService interface {
	Create(ctx context.Context, in CreateWeddingInput) (*types.Wedding, error)
	ListMine(ctx context.Context) ([]*types.Wedding, error)
	Get(ctx context.Context, weddingID uuid.UUID) (*types.Wedding, error)
	Update(ctx context.Context, weddingID uuid.UUID, in UpdateWeddingInput) (*types.Wedding, error)
	Delete(ctx context.Context, weddingID uuid.UUID) error

	AddMember(ctx context.Context, weddingID uuid.UUID, email, role string) (*MemberView, error)
	ListMembers(ctx context.Context, weddingID uuid.UUID) ([]MemberView, error)
	RemoveMember(ctx context.Context, weddingID, userID uuid.UUID) error

	// RequireMember returns the caller's membership or a forbidden error.
	RequireMember(ctx context.Context, weddingID uuid.UUID) (*types.WeddingMember, error)
	RequireOwner(ctx context.Context, weddingID uuid.UUID) (*types.WeddingMember, error)
}

type weddingService struct {
	db          *gorm.DB
	log         *logger.Logger
	weddingRepo repos.WeddingRepo
	memberRepo  repos.WeddingMemberRepo
	userRepo    repos.UserRepo
	aggregate   domainagg.WeddingAggregate
	cache       WebsiteCache
	emitter     SSEEmitter
}

func NewWeddingService(
	db *gorm.DB,
	log *logger.Logger,
	weddingRepo repos.WeddingRepo,
	memberRepo repos.WeddingMemberRepo,
	userRepo repos.UserRepo,
	aggregate domainagg.WeddingAggregate,
	cache WebsiteCache,
	emitter SSEEmitter,
) WeddingService {
	if cache == nil {
		cache = noopCache{}
	}
	if emitter == nil {
		emitter = noopEmitter{}
	}
	return &weddingService{
		db:          db,
		log:         log.With("service", "WeddingService"),
		weddingRepo: weddingRepo,
		memberRepo:  memberRepo,
		userRepo:    userRepo,
		aggregate:   aggregate,
		cache:       cache,
		emitter:     emitter,
	}
}

func (ws *weddingService) Create(ctx context.Context, in CreateWeddingInput) (*types.Wedding, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, unauthorizedf("request data not set in context")
	}
	res, err := ws.aggregate.Create(ctx, domainagg.CreateWeddingInput{
		CreatorUserID: userID,
		PartnerOne:    in.PartnerOne,
		PartnerTwo:    in.PartnerTwo,
		Date:          in.Date,
		Location:      in.Location,
		TimeZone:      in.TimeZone,
		Slug:          in.Slug,
	})
	if err != nil {
		return nil, err
	}
	ws.log.Info("wedding created", "wedding_id", res.WeddingID, "slug", res.Slug, "user_id", userID)
	return ws.load(dbctx.Context{Ctx: ctx}, res.WeddingID)
}

func (ws *weddingService) ListMine(ctx context.Context) ([]*types.Wedding, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, unauthorizedf("request data not set in context")
	}
	out, err := ws.weddingRepo.ListByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("list weddings: %w", err)
	}
	return out, nil
}

func (ws *weddingService) Get(ctx context.Context, weddingID uuid.UUID) (*types.Wedding, error) {
	if _, err := ws.RequireMember(ctx, weddingID); err != nil {
		return nil, err
	}
	return ws.load(dbctx.Context{Ctx: ctx}, weddingID)
}

func (ws *weddingService) Update(ctx context.Context, weddingID uuid.UUID, in UpdateWeddingInput) (*types.Wedding, error) {
	if _, err := ws.RequireMember(ctx, weddingID); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.PartnerOne != nil {
		v := normalize.Text(*in.PartnerOne)
		if v == "" {
			return nil, invalidArgf("partner_one cannot be empty")
		}
		updates["partner_one"] = v
	}
	if in.PartnerTwo != nil {
		v := normalize.Text(*in.PartnerTwo)
		if v == "" {
			return nil, invalidArgf("partner_two cannot be empty")
		}
		updates["partner_two"] = v
	}
	if in.ClearDate {
		updates["date"] = nil
	} else if in.Date != nil {
		updates["date"] = in.Date.UTC()
	}
	if in.Location != nil {
		updates["location"] = normalize.Text(*in.Location)
	}
	if in.TimeZone != nil {
		tz := strings.TrimSpace(*in.TimeZone)
		if tz != "" {
			if _, err := time.LoadLocation(tz); err != nil {
				return nil, invalidArgf("unknown time zone %q", tz)
			}
		}
		updates["time_zone"] = tz
	}
	var newSlug string
	if in.Slug != nil {
		newSlug = normalize.Slug(*in.Slug)
		if !normalize.ValidSlug(newSlug) {
			return nil, invalidArgf("slug must be %d-%d characters of a-z, 0-9 and dashes", normalize.MinSlugLen, normalize.MaxSlugLen)
		}
		updates["slug"] = newSlug
	}

	var before, after *types.Wedding
	err := ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := ws.load(inner, weddingID)
		if err != nil {
			return err
		}
		before = current
		if newSlug != "" && newSlug != current.Slug {
			existing, err := ws.weddingRepo.GetBySlug(inner, newSlug)
			if err != nil {
				return fmt.Errorf("check slug: %w", err)
			}
			if existing != nil {
				return conflictf("slug %q is already taken", newSlug)
			}
		}
		if len(updates) > 0 {
			if err := ws.weddingRepo.Update(inner, weddingID, updates); err != nil {
				return fmt.Errorf("update wedding: %w", err)
			}
		}
		after, err = ws.load(inner, weddingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	ws.invalidate(ctx, before.Slug, after.Slug)
	return after, nil
}

func (ws *weddingService) Delete(ctx context.Context, weddingID uuid.UUID) error {
	if _, err := ws.RequireOwner(ctx, weddingID); err != nil {
		return err
	}
	w, err := ws.load(dbctx.Context{Ctx: ctx}, weddingID)
	if err != nil {
		return err
	}
	if err := ws.aggregate.Delete(ctx, domainagg.DeleteWeddingInput{WeddingID: weddingID}); err != nil {
		return err
	}
	ws.invalidate(ctx, w.Slug)
	ws.log.Info("wedding deleted", "wedding_id", weddingID)
	return nil
}

func (ws *weddingService) AddMember(ctx context.Context, weddingID uuid.UUID, email, role string) (*MemberView, error) {
	if _, err := ws.RequireOwner(ctx, weddingID); err != nil {
		return nil, err
	}
	email = normalize.Email(email)
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = wedding.RoleCollaborator
	}
	if email == "" {
		return nil, invalidArgf("email is required")
	}
	if !wedding.ValidRole(role) {
		return nil, invalidArgf("role must be owner or collaborator")
	}

	var view *MemberView
	err := ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		users, err := ws.userRepo.GetByEmails(inner, []string{email})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 {
			return notFoundf("no account with that email")
		}
		u := users[0]
		if err := ws.memberRepo.Create(inner, []*types.WeddingMember{{
			WeddingID: weddingID,
			UserID:    u.ID,
			Role:      role,
		}}); err != nil {
			return fmt.Errorf("create member: %w", err)
		}
		m, err := ws.memberRepo.Get(inner, weddingID, u.ID)
		if err != nil {
			return fmt.Errorf("reload member: %w", err)
		}
		if m == nil {
			return fmt.Errorf("member %s missing after insert", u.ID)
		}
		view = memberView(m, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (ws *weddingService) ListMembers(ctx context.Context, weddingID uuid.UUID) ([]MemberView, error) {
	if _, err := ws.RequireMember(ctx, weddingID); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	members, err := ws.memberRepo.ListByWeddingID(dbc, weddingID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := ws.userRepo.GetByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("load member users: %w", err)
	}
	byID := make(map[uuid.UUID]*types.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]MemberView, 0, len(members))
	for _, m := range members {
		out = append(out, *memberView(m, byID[m.UserID]))
	}
	return out, nil
}

func (ws *weddingService) RemoveMember(ctx context.Context, weddingID, userID uuid.UUID) error {
	caller, err := ws.RequireMember(ctx, weddingID)
	if err != nil {
		return err
	}
	if caller.Role != wedding.RoleOwner && caller.UserID != userID {
		return forbiddenf("only owners can remove other members")
	}
	if err := ws.aggregate.RemoveMember(ctx, domainagg.RemoveMemberInput{WeddingID: weddingID, UserID: userID}); err != nil {
		return err
	}
	// Live streams of the removed user stop receiving this wedding's events.
	ws.emitter.Emit(ctx, realtime.SSEMessage{
		Channel:      wedding.Channel(weddingID),
		Event:        realtime.SSEEventMemberRemoved,
		Data:         map[string]any{"wedding_id": weddingID, "user_id": userID},
		RevokeUserID: userID.String(),
	})
	return nil
}

func (ws *weddingService) RequireMember(ctx context.Context, weddingID uuid.UUID) (*types.WeddingMember, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, unauthorizedf("request data not set in context")
	}
	m, err := ws.memberRepo.Get(dbctx.Context{Ctx: ctx}, weddingID, userID)
	if err != nil {
		return nil, fmt.Errorf("load membership: %w", err)
	}
	if m == nil {
		return nil, forbiddenf("not a member of wedding %s", weddingID)
	}
	return m, nil
}

func (ws *weddingService) RequireOwner(ctx context.Context, weddingID uuid.UUID) (*types.WeddingMember, error) {
	m, err := ws.RequireMember(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	if m.Role != wedding.RoleOwner {
		return nil, forbiddenf("owner role required")
	}
	return m, nil
}

func (ws *weddingService) load(dbc dbctx.Context, weddingID uuid.UUID) (*types.Wedding, error) {
	w, err := ws.weddingRepo.GetByID(dbc, weddingID)
	if err != nil {
		return nil, fmt.Errorf("load wedding: %w", err)
	}
	if w == nil {
		return nil, notFoundf("wedding %s", weddingID)
	}
	return w, nil
}

func (ws *weddingService) invalidate(ctx context.Context, slugs ...string) {
	if err := ws.cache.Delete(ctx, slugs...); err != nil {
		ws.log.Warn("website cache invalidation failed", "slugs", slugs, "error", err)
	}
}

func memberView(m *types.WeddingMember, u *types.User) *MemberView {
	v := &MemberView{UserID: m.UserID, Role: m.Role, CreatedAt: m.CreatedAt}
	if u != nil {
		v.Email = u.Email
		v.FirstName = u.FirstName
		v.LastName = u.LastName
	}
	return v
}
