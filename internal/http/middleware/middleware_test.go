package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/domain/wedding"
	"github.com/yungbote/wedsite-backend/internal/pkg/ctxutil"
	apperr "github.com/yungbote/wedsite-backend/internal/pkg/errors"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/services"
)

// fakeAuth accepts exactly one token.
type fakeAuth struct {
	services.AuthService
	token  string
	userID uuid.UUID
}

func (f fakeAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	if token != f.token {
		return nil, fmt.Errorf("%w: bad token", apperr.ErrUnauthorized)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: f.userID, SessionID: uuid.New(), TokenString: token}), nil
}

// fakeWeddings treats members as a set of wedding ids the caller belongs to.
type fakeWeddings struct {
	services.WeddingService
	members map[uuid.UUID]bool
}

func (f fakeWeddings) RequireMember(ctx context.Context, weddingID uuid.UUID) (*types.WeddingMember, error) {
	if ctxutil.UserID(ctx) == uuid.Nil {
		return nil, fmt.Errorf("%w: not signed in", apperr.ErrUnauthorized)
	}
	if !f.members[weddingID] {
		return nil, fmt.Errorf("%w: not a member", apperr.ErrForbidden)
	}
	return &types.WeddingMember{WeddingID: weddingID, UserID: ctxutil.UserID(ctx), Role: wedding.RoleOwner}, nil
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	am := NewAuthMiddleware(logger.Nop(), fakeAuth{token: "good", userID: userID})

	r := gin.New()
	r.GET("/me", am.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.UserID(c.Request.Context()).String())
	})

	cases := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"missing token", "", "", http.StatusUnauthorized},
		{"bad token", "Bearer nope", "", http.StatusUnauthorized},
		{"bearer header", "Bearer good", "", http.StatusOK},
		{"lowercase scheme", "bearer good", "", http.StatusOK},
		{"query fallback", "", "?token=good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := serve(r, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
			}
		})
	}
}

func TestAttachRequestContextReadsSiteToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachRequestContext())
	r.GET("/site", func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.SiteToken(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/site", nil)
	req.Header.Set(HeaderSiteToken, " from-header ")
	assert.Equal(t, "from-header", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/site?site_token=from-query", nil)
	assert.Equal(t, "from-query", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/site", nil)
	assert.Empty(t, serve(r, req).Body.String())
}

func TestRequireWeddingMember(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	mine := uuid.New()
	am := NewAuthMiddleware(logger.Nop(), fakeAuth{token: "good", userID: userID})

	r := gin.New()
	g := r.Group("/weddings/:"+ParamWeddingID, am.RequireAuth(), RequireWeddingMember(fakeWeddings{members: map[uuid.UUID]bool{mine: true}}))
	g.GET("", func(c *gin.Context) {
		m := Member(c)
		require.NotNil(t, m)
		c.String(http.StatusOK, m.Role)
	})

	get := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/weddings/"+id, nil)
		req.Header.Set("Authorization", "Bearer good")
		return serve(r, req)
	}

	rec := get(mine.String())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, wedding.RoleOwner, rec.Body.String())

	rec = get(uuid.NewString())
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"forbidden"`)

	rec = get("not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestLoggerNilLoggerPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(nil), Metrics(nil))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	assert.Equal(t, http.StatusTeapot, serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil)).Code)
}

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/t", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		require.NotNil(t, td)
		c.String(http.StatusOK, td.TraceID+"|"+td.RequestID)
	})

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(headerRequestID, "req-123")
	req.Header.Set(headerTraceID, "trace.abc")
	rec := serve(r, req)
	assert.Equal(t, "trace.abc|req-123", rec.Body.String())
	assert.Equal(t, "req-123", rec.Header().Get(headerRequestID))

	req = httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(headerRequestID, "has spaces; and junk")
	rec = serve(r, req)
	reqID := rec.Header().Get(headerRequestID)
	_, err := uuid.Parse(reqID)
	assert.NoError(t, err, "junk request id should be replaced")
	assert.Equal(t, reqID, rec.Header().Get(headerTraceID))
}
