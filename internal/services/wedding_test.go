package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/wedsite-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/domain/wedding"
	apperr "github.com/yungbote/wedsite-backend/internal/pkg/errors"
	"github.com/yungbote/wedsite-backend/internal/pkg/pointers"
	"github.com/yungbote/wedsite-backend/internal/realtime"
)

func TestWeddingCreateAndListMine(t *testing.T) {
	e := newEnv(t)
	owner, w, ctx := e.newWedding(t)

	assert.Equal(t, owner.ID, w.CreatedByUserID)
	assert.Contains(t, w.Slug, "-and-sam")

	mine, err := e.wedding.ListMine(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, w.ID, mine[0].ID)

	stranger := e.as(e.seedUser(t))
	_, err = e.wedding.Get(stranger, w.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestWeddingUpdateSlugAndInvalidatesCache(t *testing.T) {
	e := newEnv(t)
	_, w, ctx := e.newWedding(t)
	_, other, _ := e.newWedding(t)

	require.NoError(t, e.cache.Set(ctx, w.Slug, []byte(`{}`)))
	newSlug := testutil.Unique("our-day-")
	updated, err := e.wedding.Update(ctx, w.ID, UpdateWeddingInput{
		Slug:     pointers.String(newSlug),
		Location: pointers.String(" Porto "),
	})
	require.NoError(t, err)
	assert.Equal(t, newSlug, updated.Slug)
	assert.Equal(t, "Porto", updated.Location)
	assert.False(t, e.cache.has(w.Slug), "old slug should be evicted")

	_, err = e.wedding.Update(ctx, w.ID, UpdateWeddingInput{Slug: pointers.String(other.Slug)})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = e.wedding.Update(ctx, w.ID, UpdateWeddingInput{Slug: pointers.String("ab")})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = e.wedding.Update(ctx, w.ID, UpdateWeddingInput{TimeZone: pointers.String("Mars/Olympus")})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestWeddingMembers(t *testing.T) {
	e := newEnv(t)
	owner, w, ctx := e.newWedding(t)
	planner := e.seedUser(t)

	m, err := e.wedding.AddMember(ctx, w.ID, planner.Email, "")
	require.NoError(t, err)
	assert.Equal(t, wedding.RoleCollaborator, m.Role)

	again, err := e.wedding.AddMember(ctx, w.ID, planner.Email, wedding.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, wedding.RoleCollaborator, again.Role, "adding twice keeps the first membership")

	_, err = e.wedding.AddMember(ctx, w.ID, "nobody@example.com", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = e.wedding.AddMember(ctx, w.ID, planner.Email, "admin")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	members, err := e.wedding.ListMembers(ctx, w.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	plannerCtx := e.as(planner)
	_, err = e.wedding.AddMember(plannerCtx, w.ID, owner.Email, "")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.ErrorIs(t, e.wedding.Delete(plannerCtx, w.ID), apperr.ErrForbidden)
	assert.ErrorIs(t, e.wedding.RemoveMember(plannerCtx, w.ID, owner.ID), apperr.ErrForbidden)

	err = e.wedding.RemoveMember(ctx, w.ID, owner.ID)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeInvariantViolation), "last owner: %v", err)

	require.NoError(t, e.wedding.RemoveMember(plannerCtx, w.ID, planner.ID), "members may leave")
	e.emitter.mu.Lock()
	last := e.emitter.msgs[len(e.emitter.msgs)-1]
	e.emitter.mu.Unlock()
	assert.Equal(t, realtime.SSEEventMemberRemoved, last.Event)
	assert.Equal(t, wedding.Channel(w.ID), last.Channel)
	assert.Equal(t, planner.ID.String(), last.RevokeUserID)
	_, err = e.wedding.Get(plannerCtx, w.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestWeddingDeleteByOwner(t *testing.T) {
	e := newEnv(t)
	_, w, ctx := e.newWedding(t)

	require.NoError(t, e.wedding.Delete(ctx, w.ID))
	_, err := e.wedding.Get(ctx, w.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden, "membership goes with the wedding")

	_, err = e.wedding.RequireMember(e.ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
