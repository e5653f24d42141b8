package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/domain/wedding"
	"github.com/yungbote/wedsite-backend/internal/pkg/ctxutil"
	apperr "github.com/yungbote/wedsite-backend/internal/pkg/errors"
	"github.com/yungbote/wedsite-backend/internal/pkg/pointers"
	"github.com/yungbote/wedsite-backend/internal/realtime"
)

func TestWebsiteSettingsUpdate(t *testing.T) {
	e := newEnv(t)
	_, w, ctx := e.newWedding(t)

	s, err := e.website.GetSettings(ctx, w.ID)
	require.NoError(t, err)
	assert.False(t, s.Published)
	assert.False(t, s.PasswordProtected)

	_, err = e.website.UpdateSettings(ctx, w.ID, WebsitePatch{Theme: pointers.String("neon")})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	_, err = e.website.UpdateSettings(ctx, w.ID, WebsitePatch{Password: pointers.String("pw"), ClearPassword: true})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	_, err = e.website.UpdateSettings(ctx, w.ID, WebsitePatch{Sections: &[]wedding.WebsiteSection{{Title: " ", Body: "x"}}})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	s, err = e.website.UpdateSettings(ctx, w.ID, WebsitePatch{
		Published: pointers.Bool(true),
		Theme:     pointers.String("Garden"),
		Password:  pointers.String("secret"),
		Sections:  &[]wedding.WebsiteSection{{Title: "Travel", Body: "Fly to LIS"}},
	})
	require.NoError(t, err)
	assert.True(t, s.Published)
	assert.Equal(t, "garden", s.Theme)
	assert.True(t, s.PasswordProtected)
	assert.Contains(t, e.emitter.events(), realtime.SSEEventWebsiteUpdated)

	s, err = e.website.UpdateSettings(ctx, w.ID, WebsitePatch{ClearPassword: true})
	require.NoError(t, err)
	assert.False(t, s.PasswordProtected)
}

func TestPublicWebsiteVisibilityAndCache(t *testing.T) {
	e := newEnv(t)
	_, w, ctx := e.newWedding(t)
	_, err := e.event.Create(ctx, w.ID, domainagg.EventFields{Name: "Ceremony", Venue: "Chapel"})
	require.NoError(t, err)

	_, err = e.website.GetPublic(e.ctx, w.Slug)
	assert.ErrorIs(t, err, apperr.ErrNotFound, "unpublished sites are hidden")
	_, err = e.website.GetPublic(e.ctx, "no-such-wedding")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = e.website.UpdateSettings(ctx, w.ID, WebsitePatch{Published: pointers.Bool(true), Headline: pointers.String("We're getting married")})
	require.NoError(t, err)

	site, err := e.website.GetPublic(e.ctx, w.Slug)
	require.NoError(t, err)
	assert.Equal(t, w.ID, site.WeddingID)
	assert.Equal(t, "We're getting married", site.Headline)
	require.Len(t, site.Events, 1)
	assert.Equal(t, "Chapel", site.Events[0].Venue)
	assert.True(t, e.cache.has(w.Slug))

	_, err = e.event.Create(ctx, w.ID, domainagg.EventFields{Name: "Party"})
	require.NoError(t, err)
	assert.False(t, e.cache.has(w.Slug), "event changes evict the cached site")
	site, err = e.website.GetPublic(e.ctx, w.Slug)
	require.NoError(t, err)
	assert.Len(t, site.Events, 2)
}

func TestPublicWebsitePasswordAndUnlock(t *testing.T) {
	e := newEnv(t)
	_, w, ctx := e.newWedding(t)
	_, other, otherCtx := e.newWedding(t)
	_, err := e.website.UpdateSettings(ctx, w.ID, WebsitePatch{Published: pointers.Bool(true), Password: pointers.String("letmein")})
	require.NoError(t, err)
	_, err = e.website.UpdateSettings(otherCtx, other.ID, WebsitePatch{Published: pointers.Bool(true)})
	require.NoError(t, err)

	_, err = e.website.GetPublic(e.ctx, w.Slug)
	assert.ErrorIs(t, err, apperr.ErrSiteLocked)
	_, err = e.website.ResolvePublicWedding(e.ctx, w.Slug)
	assert.ErrorIs(t, err, apperr.ErrSiteLocked)

	_, err = e.website.Unlock(e.ctx, w.Slug, "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	tok, err := e.website.Unlock(e.ctx, w.Slug, "letmein")
	require.NoError(t, err)
	unlocked := ctxutil.WithSiteToken(e.ctx, tok.Token)
	site, err := e.website.GetPublic(unlocked, w.Slug)
	require.NoError(t, err)
	assert.True(t, site.PasswordProtected)

	otherTok, err := e.website.Unlock(e.ctx, other.Slug, "")
	require.NoError(t, err, "open sites hand out tokens freely")
	_, err = e.website.GetPublic(ctxutil.WithSiteToken(e.ctx, otherTok.Token), w.Slug)
	assert.ErrorIs(t, err, apperr.ErrSiteLocked, "a token for another wedding does not unlock this one")
}
