package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/wedsite-backend/internal/app"
	"github.com/yungbote/wedsite-backend/internal/data/repos/testutil"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/services"
)

const sampleHouseholds = `
households:
  - name: The Riveras
    city: Porto
    guests:
      - first_name: Jamie
        last_name: Rivera
        events: [Ceremony, " reception "]
      - first_name: Kit
        last_name: Rivera
        is_child: true
        events: [ceremony]
    gift:
      description: Espresso machine
  - name: Pat Lee
    guests:
      - first_name: Pat
        last_name: Lee
`

func TestParseHouseholdsFile(t *testing.T) {
	entries, err := parseHouseholdsFile(strings.NewReader(sampleHouseholds))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "The Riveras", entries[0].Name)
	require.Len(t, entries[0].Guests, 2)
	assert.True(t, entries[0].Guests[1].IsChild)
	require.NotNil(t, entries[0].Gift)

	_, err = parseHouseholdsFile(strings.NewReader(""))
	assert.Error(t, err)

	_, err = parseHouseholdsFile(strings.NewReader("households:\n  - nmae: typo\n"))
	assert.Error(t, err, "unknown keys are rejected")
}

func TestToHouseholdInputsResolvesEventNames(t *testing.T) {
	weddingID := uuid.New()
	ceremony := &types.Event{ID: uuid.New(), Name: "Ceremony"}
	reception := &types.Event{ID: uuid.New(), Name: "Reception"}
	entries, err := parseHouseholdsFile(strings.NewReader(sampleHouseholds))
	require.NoError(t, err)

	inputs, err := toHouseholdInputs(weddingID, entries, []*types.Event{ceremony, reception})
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, weddingID, inputs[0].WeddingID)
	assert.Equal(t, []uuid.UUID{ceremony.ID, reception.ID}, inputs[0].Guests[0].InvitedEventIDs)
	assert.Equal(t, []uuid.UUID{ceremony.ID}, inputs[0].Guests[1].InvitedEventIDs)
	assert.Empty(t, inputs[1].Guests[0].InvitedEventIDs)
	assert.Equal(t, "Espresso machine", inputs[0].Gift.Description)

	_, err = toHouseholdInputs(weddingID, entries, []*types.Event{ceremony})
	assert.ErrorContains(t, err, "unknown event")
}

func TestRunImportCreatesHouseholds(t *testing.T) {
	cfg := app.Config{Auth: services.AuthConfig{JWTSecretKey: "import-test"}}
	a, err := app.Build(testutil.Logger(t), cfg, testutil.DB(t))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	ctx := t.Context()
	owner := testutil.SeedUser(t, ctx, a.DB, testutil.Unique("import-")+"@example.com")
	w := testutil.SeedWedding(t, ctx, a.DB, owner.ID)
	testutil.SeedEvent(t, ctx, a.DB, w.ID, "Ceremony", 0)
	testutil.SeedEvent(t, ctx, a.DB, w.ID, "Reception", 1)

	entries, err := parseHouseholdsFile(strings.NewReader(sampleHouseholds))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runImport(ctx, &out, a, w.ID, entries))
	assert.Contains(t, out.String(), "imported 2 household(s)")

	rows, err := a.Services.Household.List(ctx, w.ID, "rivera")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].Guests, 2)

	err = runImport(ctx, &out, a, uuid.New(), entries)
	assert.ErrorContains(t, err, "not found")
}
