package guests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/wedsite-backend/internal/data/repos/testutil"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/domain/guests"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/normalize"
)

func TestHouseholdRepoSearch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	owner := testutil.SeedUser(t, ctx, tx, testutil.Unique("owner-")+"@example.com")
	w := testutil.SeedWedding(t, ctx, tx, owner.ID)

	rivera := testutil.SeedHousehold(t, ctx, tx, w.ID, "The Riveras")
	testutil.SeedGuest(t, ctx, tx, rivera, "Ana", "Rivera", 0)
	chen := testutil.SeedHousehold(t, ctx, tx, w.ID, "Chen Family")
	testutil.SeedGuest(t, ctx, tx, chen, "Mei", "Chen", 0)

	repo := NewHouseholdRepo(db, testutil.Logger(t))

	all, err := repo.ListByWeddingID(dbc, w.ID, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("ListByWeddingID: err=%v len=%d", err, len(all))
	}
	byGuest, err := repo.ListByWeddingID(dbc, w.ID, "MEI")
	if err != nil || len(byGuest) != 1 || byGuest[0].ID != chen.ID {
		t.Fatalf("search by guest name: err=%v got=%+v", err, byGuest)
	}
	byName, err := repo.ListByWeddingID(dbc, w.ID, "riveras")
	if err != nil || len(byName) != 1 || byName[0].ID != rivera.ID {
		t.Fatalf("search by household name: err=%v got=%+v", err, byName)
	}

	for _, term := range []string{"%", "_", "a_a"} {
		if got, err := repo.ListByWeddingID(dbc, w.ID, term); err != nil || len(got) != 0 {
			t.Fatalf("search %q should match literally: err=%v got=%+v", term, err, got)
		}
	}

	n, err := repo.CountByWeddingID(dbc, w.ID)
	if err != nil || n != 2 {
		t.Fatalf("CountByWeddingID: err=%v n=%d", err, n)
	}

	if got, err := repo.GetByID(dbc, uuid.New(), rivera.ID); err != nil || got != nil {
		t.Fatalf("GetByID with wrong wedding: got=%+v err=%v", got, err)
	}
}

func TestHouseholdRepoSearchWildcardsAreLiteral(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	owner := testutil.SeedUser(t, ctx, tx, testutil.Unique("owner-")+"@example.com")
	w := testutil.SeedWedding(t, ctx, tx, owner.ID)
	club := testutil.SeedHousehold(t, ctx, tx, w.ID, "100% Fun_Club")
	plain := testutil.SeedHousehold(t, ctx, tx, w.ID, "Funk Club")
	testutil.SeedGuest(t, ctx, tx, plain, "Ana", "Rivera", 0)

	repo := NewHouseholdRepo(db, testutil.Logger(t))
	for _, term := range []string{"%", "fun_", "0% f"} {
		got, err := repo.ListByWeddingID(dbc, w.ID, term)
		if err != nil || len(got) != 1 || got[0].ID != club.ID {
			t.Fatalf("search %q: err=%v got=%+v", term, err, got)
		}
	}
	if got, err := repo.ListByWeddingID(dbc, w.ID, `\`); err != nil || len(got) != 0 {
		t.Fatalf("backslash search: err=%v got=%+v", err, got)
	}
}

func TestGuestRepoNameKey(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	owner := testutil.SeedUser(t, ctx, tx, testutil.Unique("owner-")+"@example.com")
	w := testutil.SeedWedding(t, ctx, tx, owner.ID)
	h := testutil.SeedHousehold(t, ctx, tx, w.ID, "Núñez")
	second := testutil.SeedGuest(t, ctx, tx, h, "Pilar", "Núñez", 1)
	first := testutil.SeedGuest(t, ctx, tx, h, "José", "Núñez", 0)

	repo := NewGuestRepo(db, testutil.Logger(t))

	found, err := repo.FindByNameKey(dbc, w.ID, normalize.NameKey("  jose   NUNEZ "))
	if err != nil || len(found) != 1 || found[0].ID != first.ID {
		t.Fatalf("FindByNameKey: err=%v got=%+v", err, found)
	}

	ordered, err := repo.GetByHouseholdIDs(dbc, []uuid.UUID{h.ID})
	if err != nil || len(ordered) != 2 || ordered[0].ID != first.ID || ordered[1].ID != second.ID {
		t.Fatalf("GetByHouseholdIDs: expected position order, err=%v", err)
	}
}

func TestInvitationRepoCounts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	owner := testutil.SeedUser(t, ctx, tx, testutil.Unique("owner-")+"@example.com")
	w := testutil.SeedWedding(t, ctx, tx, owner.ID)
	ev := testutil.SeedEvent(t, ctx, tx, w.ID, "Ceremony", 0)
	h := testutil.SeedHousehold(t, ctx, tx, w.ID, "Lee")
	a := testutil.SeedGuest(t, ctx, tx, h, "Sam", "Lee", 0)
	b := testutil.SeedGuest(t, ctx, tx, h, "Kai", "Lee", 1)
	c := testutil.SeedGuest(t, ctx, tx, h, "Ren", "Lee", 2)

	testutil.SeedInvitation(t, ctx, tx, a, ev.ID, guests.StatusAttending)
	invB := testutil.SeedInvitation(t, ctx, tx, b, ev.ID, guests.StatusInvited)
	testutil.SeedInvitation(t, ctx, tx, c, ev.ID, guests.StatusNotInvited)

	repo := NewInvitationRepo(db, testutil.Logger(t))

	now := time.Now().UTC()
	if err := repo.SetStatus(dbc, invB.ID, guests.StatusDeclined, &now); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	rows, err := repo.CountByEventAndStatus(dbc, w.ID)
	if err != nil {
		t.Fatalf("CountByEventAndStatus: %v", err)
	}
	got := map[string]int64{}
	for _, r := range rows {
		if r.EventID != ev.ID {
			t.Fatalf("unexpected event id %s", r.EventID)
		}
		got[r.Status] = r.Count
	}
	if got[guests.StatusAttending] != 1 || got[guests.StatusDeclined] != 1 || got[guests.StatusNotInvited] != 0 {
		t.Fatalf("CountByEventAndStatus: %+v", got)
	}

	// Last statement: a failed insert aborts the Postgres transaction.
	dup := &types.Invitation{WeddingID: w.ID, EventID: ev.ID, GuestID: a.ID, Status: guests.StatusInvited}
	if _, err := repo.Create(dbc, []*types.Invitation{dup}); err == nil {
		t.Fatalf("Create: expected unique violation for duplicate (event, guest)")
	}
}
