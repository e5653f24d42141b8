package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/wedsite-backend/internal/data/repos"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/pkg/ctxutil"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/pkg/normalize"
)

const (
	accessAudience = "api"
	minPasswordLen = 8
)

type AuthConfig struct {
	JWTSecretKey string        `env:"JWT_SECRET_KEY,required"`
	AccessTTL    time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTTL   time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`
	SiteTokenTTL time.Duration `env:"SITE_TOKEN_TTL" envDefault:"24h"`
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	AccessTTL() time.Duration
}

// JWTClaims are the access token claims. sid names the user_token row backing the session.
type JWTClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	cfg           AuthConfig
	now           func() time.Time
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, userTokenRepo repos.UserTokenRepo, cfg AuthConfig) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		cfg:           cfg,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (as *authService) AccessTTL() time.Duration {
	return as.cfg.AccessTTL
}

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	email := normalize.Email(in.Email)
	first := normalize.Text(in.FirstName)
	last := normalize.Text(in.LastName)
	if email == "" || !strings.Contains(email, "@") {
		return nil, invalidArgf("a valid email is required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, invalidArgf("password must be at least %d characters", minPasswordLen)
	}
	if first == "" {
		return nil, invalidArgf("first name is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  string(hash),
		FirstName: first,
		LastName:  last,
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := as.userRepo.EmailExists(inner, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return conflictf("an account with this email already exists")
		}
		if _, err := as.userRepo.Create(inner, []*types.User{user}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = normalize.Email(email)
	if email == "" || password == "" {
		return nil, invalidArgf("email and password are required")
	}
	users, err := as.userRepo.GetByEmails(dbctx.Context{Ctx: ctx}, []string{email})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, unauthorizedf("invalid email or password")
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, unauthorizedf("invalid email or password")
	}

	var pair *TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := as.startSession(dbctx.Context{Ctx: ctx, Tx: tx}, user.ID)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		as.log.Warn("login failed", "user_id", user.ID, "error", err)
		return nil, err
	}
	return pair, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, unauthorizedf("missing refresh token")
	}
	var (
		pair    *TokenPair
		expired bool
	)
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		found, err := as.userTokenRepo.GetByRefreshTokens(inner, []string{refreshToken})
		if err != nil {
			return fmt.Errorf("load refresh token: %w", err)
		}
		if len(found) == 0 {
			return unauthorizedf("unknown refresh token")
		}
		existing := found[0]
		deleted, err := as.userTokenRepo.FullDeleteByIDs(inner, []uuid.UUID{existing.ID})
		if err != nil {
			return fmt.Errorf("delete old session: %w", err)
		}
		if deleted != 1 {
			// a concurrent refresh already rotated this token
			return unauthorizedf("refresh token already used")
		}
		if existing.Expired(as.now()) {
			// commit the delete, report after the transaction
			expired = true
			return nil
		}
		p, err := as.startSession(inner, existing.UserID)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, unauthorizedf("refresh token expired")
	}
	return pair, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.SessionID == uuid.Nil {
		return unauthorizedf("no active session")
	}
	if _, err := as.userTokenRepo.FullDeleteByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{rd.SessionID}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, unauthorizedf("missing token")
	}
	claims := &JWTClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(as.cfg.JWTSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(accessAudience),
		jwt.WithTimeFunc(as.now),
	)
	if err != nil || !parsed.Valid {
		return ctx, unauthorizedf("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, unauthorizedf("invalid subject in token")
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return ctx, unauthorizedf("invalid session in token")
	}
	sessions, err := as.userTokenRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{sessionID})
	if err != nil {
		return ctx, fmt.Errorf("load session: %w", err)
	}
	if len(sessions) == 0 || sessions[0].UserID != userID {
		return ctx, unauthorizedf("session has ended")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		SessionID:   sessionID,
	}), nil
}

// startSession stores a user_token row and signs an access token bound to it.
func (as *authService) startSession(dbc dbctx.Context, userID uuid.UUID) (*TokenPair, error) {
	now := as.now()
	row := &types.UserToken{
		ID:           uuid.New(),
		UserID:       userID,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    now.Add(as.cfg.RefreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{row}); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	expiresAt := now.Add(as.cfg.AccessTTL)
	access, err := as.signAccessToken(userID, row.ID, now, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: row.RefreshToken, ExpiresAt: expiresAt}, nil
}

func (as *authService) signAccessToken(userID, sessionID uuid.UUID, now, expiresAt time.Time) (string, error) {
	claims := JWTClaims{
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{accessAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.cfg.JWTSecretKey))
}
