package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/domain/guests"
	apperr "github.com/yungbote/wedsite-backend/internal/pkg/errors"
	"github.com/yungbote/wedsite-backend/internal/pkg/pointers"
	"github.com/yungbote/wedsite-backend/internal/realtime"
)

func TestHouseholdServiceLifecycle(t *testing.T) {
	e := newEnv(t)
	_, w, ctx := e.newWedding(t)
	ceremony, err := e.event.Create(ctx, w.ID, domainagg.EventFields{Name: "Ceremony", CollectRSVP: true})
	require.NoError(t, err)

	created, err := e.household.Create(ctx, domainagg.CreateHouseholdInput{
		WeddingID: w.ID,
		Household: domainagg.HouseholdFields{Name: "The Riveras", City: "Madrid"},
		Guests: []domainagg.GuestInput{
			{FirstName: "Ana", LastName: "Rivera", InvitedEventIDs: []uuid.UUID{ceremony.ID}},
			{FirstName: "Luis", LastName: "Rivera"},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Guests, 2)
	assert.Equal(t, "Ana", created.Guests[0].FirstName)
	require.Len(t, created.Guests[0].Invitations, 1)
	assert.Equal(t, guests.StatusInvited, created.Guests[0].Invitations[0].Status)
	assert.Equal(t, guests.StatusNotInvited, created.Guests[1].Invitations[0].Status)
	assert.Nil(t, created.Gift)
	assert.Contains(t, e.emitter.events(), realtime.SSEEventHouseholdChanged)

	luisID := created.Guests[1].ID
	updated, err := e.household.Update(ctx, domainagg.UpdateHouseholdInput{
		WeddingID:       w.ID,
		HouseholdID:     created.ID,
		ExpectedVersion: pointers.Int(created.Version),
		Household:       domainagg.HouseholdFields{Name: "The Riveras"},
		Guests: []domainagg.GuestInput{
			{ID: &luisID, FirstName: "Luis", LastName: "Rivera", InvitedEventIDs: []uuid.UUID{ceremony.ID}},
		},
		Gift: &domainagg.GiftInput{Description: "Vase"},
	})
	require.NoError(t, err)
	assert.Equal(t, created.Version+1, updated.Version)
	require.Len(t, updated.Guests, 1)
	assert.Equal(t, guests.StatusInvited, updated.Guests[0].Invitations[0].Status)
	require.NotNil(t, updated.Gift)
	assert.Equal(t, "Vase", updated.Gift.Description)

	_, err = e.household.Update(ctx, domainagg.UpdateHouseholdInput{
		WeddingID:       w.ID,
		HouseholdID:     created.ID,
		ExpectedVersion: pointers.Int(created.Version),
		Guests:          []domainagg.GuestInput{{ID: &luisID, FirstName: "Luis"}},
	})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeConflict), "stale version: %v", err)

	require.NoError(t, e.household.Delete(ctx, w.ID, created.ID))
	_, err = e.household.Get(ctx, w.ID, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestHouseholdListSearch(t *testing.T) {
	e := newEnv(t)
	_, w, ctx := e.newWedding(t)
	for _, name := range []string{"Mina", "Oskar"} {
		_, err := e.household.Create(ctx, domainagg.CreateHouseholdInput{
			WeddingID: w.ID,
			Guests:    []domainagg.GuestInput{{FirstName: name, LastName: "Berg"}},
		})
		require.NoError(t, err)
	}

	all, err := e.household.List(ctx, w.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := e.household.List(ctx, w.ID, "osk")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Len(t, found[0].Guests, 1)
	assert.Equal(t, "Oskar", found[0].Guests[0].FirstName)
}

func TestHouseholdImportCollectsFailures(t *testing.T) {
	e := newEnv(t)
	_, w, ctx := e.newWedding(t)

	res, err := e.household.Import(ctx, w.ID, []domainagg.CreateHouseholdInput{
		{Guests: []domainagg.GuestInput{{FirstName: "Ida"}}},
		{Household: domainagg.HouseholdFields{Name: "Empty"}},
		{Guests: []domainagg.GuestInput{{FirstName: "Per"}, {FirstName: "Liv"}}},
	})
	require.NoError(t, err)
	assert.Len(t, res.Created, 2)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, 1, res.Failures[0].Index)
	assert.Equal(t, "Empty", res.Failures[0].Name)

	_, err = e.household.Import(ctx, w.ID, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
