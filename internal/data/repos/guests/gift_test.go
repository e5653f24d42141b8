package guests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/wedsite-backend/internal/data/repos/testutil"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
)

func TestGiftRepoStats(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	owner := testutil.SeedUser(t, ctx, tx, testutil.Unique("owner-")+"@example.com")
	w := testutil.SeedWedding(t, ctx, tx, owner.ID)
	h1 := testutil.SeedHousehold(t, ctx, tx, w.ID, "One")
	h2 := testutil.SeedHousehold(t, ctx, tx, w.ID, "Two")
	h3 := testutil.SeedHousehold(t, ctx, tx, w.ID, "Three")

	repo := NewGiftRepo(db, testutil.Logger(t))
	received := time.Now().UTC()

	for _, g := range []*types.Gift{
		{WeddingID: w.ID, HouseholdID: h1.ID, Description: "Toaster", ReceivedAt: &received, ThankYouSent: true},
		{WeddingID: w.ID, HouseholdID: h2.ID, Description: "Vase", ReceivedAt: &received},
		{WeddingID: w.ID, HouseholdID: h3.ID, Description: "Promised"},
	} {
		if err := repo.Create(dbc, g); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	stats, err := repo.Stats(dbc, w.ID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Received != 2 || stats.ThankYouPending != 1 {
		t.Fatalf("Stats: %+v", stats)
	}

	g, err := repo.GetByHouseholdID(dbc, h2.ID)
	if err != nil || g == nil {
		t.Fatalf("GetByHouseholdID: g=%+v err=%v", g, err)
	}
	if err := repo.Update(dbc, g.ID, map[string]any{"thank_you_sent": true}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	stats, _ = repo.Stats(dbc, w.ID)
	if stats.ThankYouPending != 0 {
		t.Fatalf("Stats after update: %+v", stats)
	}

	if err := repo.DeleteByHouseholdIDs(dbc, []uuid.UUID{h1.ID, h2.ID}); err != nil {
		t.Fatalf("DeleteByHouseholdIDs: %v", err)
	}
	left, err := repo.GetByHouseholdIDs(dbc, []uuid.UUID{h1.ID, h2.ID, h3.ID})
	if err != nil || len(left) != 1 || left[0].HouseholdID != h3.ID {
		t.Fatalf("GetByHouseholdIDs: err=%v left=%+v", err, left)
	}
}
