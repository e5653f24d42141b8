package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/wedsite-backend/internal/data/repos"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/domain/wedding"
	"github.com/yungbote/wedsite-backend/internal/pkg/ctxutil"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/wedsite-backend/internal/pkg/errors"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/pkg/normalize"
	"github.com/yungbote/wedsite-backend/internal/realtime"
)

const (
	siteAudience       = "site"
	minSitePasswordLen = 4
)

type WebsiteSettingsView struct {
	*types.WebsiteSettings
	PasswordProtected bool `json:"password_protected"`
}

// WebsitePatch updates settings; nil fields are left alone. Password and ClearPassword are exclusive.
type WebsitePatch struct {
	Published     *bool
	Headline      *string
	Story         *string
	Theme         *string
	Sections      *[]wedding.WebsiteSection
	Password      *string
	ClearPassword bool
}

type PublicEvent struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Venue       string     `json:"venue"`
	Address     string     `json:"address"`
	Attire      string     `json:"attire"`
	Description string     `json:"description"`
	CollectRSVP bool       `json:"collect_rsvp"`
}

type PublicWebsite struct {
	WeddingID         uuid.UUID                `json:"wedding_id"`
	Slug              string                   `json:"slug"`
	PartnerOne        string                   `json:"partner_one"`
	PartnerTwo        string                   `json:"partner_two"`
	Date              *time.Time               `json:"date,omitempty"`
	Location          string                   `json:"location"`
	TimeZone          string                   `json:"time_zone"`
	Headline          string                   `json:"headline"`
	Story             string                   `json:"story"`
	Theme             string                   `json:"theme"`
	Sections          []wedding.WebsiteSection `json:"sections"`
	PasswordProtected bool                     `json:"password_protected"`
	Events            []PublicEvent            `json:"events"`
}

type SiteToken struct {
	Token     string    `json:"site_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SiteClaims are carried by website unlock tokens.
type SiteClaims struct {
	WeddingID string `json:"wid"`
	jwt.RegisteredClaims
}

type WebsiteService interface {
	GetSettings(ctx context.Context, weddingID uuid.UUID) (*WebsiteSettingsView, error)
	UpdateSettings(ctx context.Context, weddingID uuid.UUID, patch WebsitePatch) (*WebsiteSettingsView, error)
	// GetPublic returns the published site. Locked sites need the site token carried in ctx.
	GetPublic(ctx context.Context, slug string) (*PublicWebsite, error)
	Unlock(ctx context.Context, slug, password string) (*SiteToken, error)
	// ResolvePublicWedding applies the same published and password rules as GetPublic.
	ResolvePublicWedding(ctx context.Context, slug string) (*types.Wedding, error)
}

type websiteService struct {
	db           *gorm.DB
	log          *logger.Logger
	weddingRepo  repos.WeddingRepo
	settingsRepo repos.WebsiteSettingsRepo
	eventRepo    repos.EventRepo
	cache        WebsiteCache
	emitter      SSEEmitter
	cfg          AuthConfig
	now          func() time.Time
}

func NewWebsiteService(
	db *gorm.DB,
	log *logger.Logger,
	weddingRepo repos.WeddingRepo,
	settingsRepo repos.WebsiteSettingsRepo,
	eventRepo repos.EventRepo,
	cache WebsiteCache,
	emitter SSEEmitter,
	cfg AuthConfig,
) WebsiteService {
	if cache == nil {
		cache = noopCache{}
	}
	if emitter == nil {
		emitter = noopEmitter{}
	}
	return &websiteService{
		db:           db,
		log:          log.With("service", "WebsiteService"),
		weddingRepo:  weddingRepo,
		settingsRepo: settingsRepo,
		eventRepo:    eventRepo,
		cache:        cache,
		emitter:      emitter,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (ws *websiteService) GetSettings(ctx context.Context, weddingID uuid.UUID) (*WebsiteSettingsView, error) {
	s, err := ws.loadSettings(dbctx.Context{Ctx: ctx}, weddingID)
	if err != nil {
		return nil, err
	}
	return &WebsiteSettingsView{WebsiteSettings: s, PasswordProtected: s.HasPassword()}, nil
}

func (ws *websiteService) UpdateSettings(ctx context.Context, weddingID uuid.UUID, patch WebsitePatch) (*WebsiteSettingsView, error) {
	if patch.Password != nil && patch.ClearPassword {
		return nil, invalidArgf("password and clear_password cannot both be set")
	}
	updates := map[string]any{}
	if patch.Published != nil {
		updates["published"] = *patch.Published
	}
	if patch.Headline != nil {
		updates["headline"] = normalize.Text(*patch.Headline)
	}
	if patch.Story != nil {
		updates["story"] = strings.TrimSpace(*patch.Story)
	}
	if patch.Theme != nil {
		theme := strings.ToLower(strings.TrimSpace(*patch.Theme))
		if _, ok := wedding.Themes[theme]; !ok {
			return nil, invalidArgf("unknown theme %q", theme)
		}
		updates["theme"] = theme
	}
	if patch.Sections != nil {
		sections, err := cleanSections(*patch.Sections)
		if err != nil {
			return nil, err
		}
		updates["sections"] = sections
	}
	if patch.ClearPassword {
		updates["password_hash"] = ""
	} else if patch.Password != nil {
		if len(*patch.Password) < minSitePasswordLen {
			return nil, invalidArgf("website password must be at least %d characters", minSitePasswordLen)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash website password: %w", err)
		}
		updates["password_hash"] = string(hash)
	}

	var (
		out  *types.WebsiteSettings
		slug string
	)
	err := ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		w, err := ws.weddingRepo.GetByID(inner, weddingID)
		if err != nil {
			return fmt.Errorf("load wedding: %w", err)
		}
		if w == nil {
			return notFoundf("wedding %s", weddingID)
		}
		slug = w.Slug
		if _, err := ws.loadSettings(inner, weddingID); err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := ws.settingsRepo.Update(inner, weddingID, updates); err != nil {
				return fmt.Errorf("update website settings: %w", err)
			}
		}
		out, err = ws.loadSettings(inner, weddingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := ws.cache.Delete(ctx, slug); err != nil {
		ws.log.Warn("website cache invalidation failed", "slug", slug, "error", err)
	}
	ws.emitter.Emit(ctx, realtime.SSEMessage{
		Channel: wedding.Channel(weddingID),
		Event:   realtime.SSEEventWebsiteUpdated,
		Data:    map[string]any{"published": out.Published, "password_protected": out.HasPassword()},
	})
	return &WebsiteSettingsView{WebsiteSettings: out, PasswordProtected: out.HasPassword()}, nil
}

func (ws *websiteService) GetPublic(ctx context.Context, slug string) (*PublicWebsite, error) {
	slug = normalize.Slug(slug)
	if slug == "" {
		return nil, notFoundf("website")
	}
	site, err := ws.cachedPublic(ctx, slug)
	if err != nil {
		return nil, err
	}
	if site.PasswordProtected && !ws.validSiteToken(ctxutil.SiteToken(ctx), site.WeddingID) {
		return nil, fmt.Errorf("%w: %s", apperr.ErrSiteLocked, "website is password protected")
	}
	return site, nil
}

func (ws *websiteService) Unlock(ctx context.Context, slug, password string) (*SiteToken, error) {
	slug = normalize.Slug(slug)
	dbc := dbctx.Context{Ctx: ctx}
	w, s, err := ws.loadPublished(dbc, slug)
	if err != nil {
		return nil, err
	}
	if s.HasPassword() {
		if err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)); err != nil {
			return nil, unauthorizedf("wrong website password")
		}
	}
	now := ws.now()
	expiresAt := now.Add(ws.cfg.SiteTokenTTL)
	claims := SiteClaims{
		WeddingID: w.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{siteAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ws.cfg.JWTSecretKey))
	if err != nil {
		return nil, fmt.Errorf("sign site token: %w", err)
	}
	return &SiteToken{Token: token, ExpiresAt: expiresAt}, nil
}

func (ws *websiteService) ResolvePublicWedding(ctx context.Context, slug string) (*types.Wedding, error) {
	w, s, err := ws.loadPublished(dbctx.Context{Ctx: ctx}, normalize.Slug(slug))
	if err != nil {
		return nil, err
	}
	if s.HasPassword() && !ws.validSiteToken(ctxutil.SiteToken(ctx), w.ID) {
		return nil, fmt.Errorf("%w: %s", apperr.ErrSiteLocked, "website is password protected")
	}
	return w, nil
}

func (ws *websiteService) cachedPublic(ctx context.Context, slug string) (*PublicWebsite, error) {
	if raw, ok, err := ws.cache.Get(ctx, slug); err != nil {
		ws.log.Warn("website cache read failed", "slug", slug, "error", err)
	} else if ok {
		var site PublicWebsite
		if err := json.Unmarshal(raw, &site); err == nil {
			return &site, nil
		}
		ws.log.Warn("dropping undecodable cached website", "slug", slug)
	}

	site, err := ws.buildPublic(dbctx.Context{Ctx: ctx}, slug)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(site); err == nil {
		if err := ws.cache.Set(ctx, slug, raw); err != nil {
			ws.log.Warn("website cache write failed", "slug", slug, "error", err)
		}
	}
	return site, nil
}

func (ws *websiteService) buildPublic(dbc dbctx.Context, slug string) (*PublicWebsite, error) {
	w, s, err := ws.loadPublished(dbc, slug)
	if err != nil {
		return nil, err
	}
	events, err := ws.eventRepo.ListByWeddingID(dbc, w.ID)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	site := &PublicWebsite{
		WeddingID:         w.ID,
		Slug:              w.Slug,
		PartnerOne:        w.PartnerOne,
		PartnerTwo:        w.PartnerTwo,
		Date:              w.Date,
		Location:          w.Location,
		TimeZone:          w.TimeZone,
		Headline:          s.Headline,
		Story:             s.Story,
		Theme:             s.Theme,
		Sections:          decodeSections(s.Sections),
		PasswordProtected: s.HasPassword(),
		Events:            make([]PublicEvent, 0, len(events)),
	}
	for _, e := range events {
		site.Events = append(site.Events, PublicEvent{
			ID:          e.ID,
			Name:        e.Name,
			StartsAt:    e.StartsAt,
			EndsAt:      e.EndsAt,
			Venue:       e.Venue,
			Address:     e.Address,
			Attire:      e.Attire,
			Description: e.Description,
			CollectRSVP: e.CollectRSVP,
		})
	}
	return site, nil
}

// loadPublished returns not found for unknown slugs and unpublished sites alike.
func (ws *websiteService) loadPublished(dbc dbctx.Context, slug string) (*types.Wedding, *types.WebsiteSettings, error) {
	if slug == "" {
		return nil, nil, notFoundf("website")
	}
	w, err := ws.weddingRepo.GetBySlug(dbc, slug)
	if err != nil {
		return nil, nil, fmt.Errorf("load wedding: %w", err)
	}
	if w == nil {
		return nil, nil, notFoundf("website %q", slug)
	}
	s, err := ws.settingsRepo.GetByWeddingID(dbc, w.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load website settings: %w", err)
	}
	if s == nil || !s.Published {
		return nil, nil, notFoundf("website %q", slug)
	}
	return w, s, nil
}

func (ws *websiteService) loadSettings(dbc dbctx.Context, weddingID uuid.UUID) (*types.WebsiteSettings, error) {
	s, err := ws.settingsRepo.GetByWeddingID(dbc, weddingID)
	if err != nil {
		return nil, fmt.Errorf("load website settings: %w", err)
	}
	if s == nil {
		return nil, notFoundf("website settings for wedding %s", weddingID)
	}
	return s, nil
}

func (ws *websiteService) validSiteToken(token string, weddingID uuid.UUID) bool {
	if token == "" {
		return false
	}
	claims := &SiteClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(ws.cfg.JWTSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(siteAudience),
		jwt.WithTimeFunc(ws.now),
	)
	if err != nil || !parsed.Valid {
		if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
			ws.log.Debug("rejected site token", "error", err)
		}
		return false
	}
	return claims.WeddingID == weddingID.String()
}

func cleanSections(in []wedding.WebsiteSection) (datatypes.JSON, error) {
	out := make([]wedding.WebsiteSection, 0, len(in))
	for i, s := range in {
		title := normalize.Text(s.Title)
		body := strings.TrimSpace(s.Body)
		if title == "" {
			return nil, invalidArgf("section %d needs a title", i+1)
		}
		out = append(out, wedding.WebsiteSection{Title: title, Body: body})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}
	return datatypes.JSON(b), nil
}

func decodeSections(raw datatypes.JSON) []wedding.WebsiteSection {
	out := []wedding.WebsiteSection{}
	if len(raw) == 0 {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}

// websiteInvalidator drops the cached public payload of a wedding after its data changes.
type websiteInvalidator struct {
	log         *logger.Logger
	weddingRepo repos.WeddingRepo
	cache       WebsiteCache
}

func newWebsiteInvalidator(log *logger.Logger, weddingRepo repos.WeddingRepo, cache WebsiteCache) websiteInvalidator {
	if cache == nil {
		cache = noopCache{}
	}
	return websiteInvalidator{log: log, weddingRepo: weddingRepo, cache: cache}
}

func (wi websiteInvalidator) invalidate(ctx context.Context, weddingID uuid.UUID) {
	if _, ok := wi.cache.(noopCache); ok {
		return
	}
	w, err := wi.weddingRepo.GetByID(dbctx.Context{Ctx: ctx}, weddingID)
	if err != nil || w == nil {
		wi.log.Warn("website cache invalidation skipped", "wedding_id", weddingID, "error", err)
		return
	}
	if err := wi.cache.Delete(ctx, w.Slug); err != nil {
		wi.log.Warn("website cache invalidation failed", "slug", w.Slug, "error", err)
	}
}
