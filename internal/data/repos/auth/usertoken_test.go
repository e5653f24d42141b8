package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/wedsite-backend/internal/data/repos/testutil"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
)

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, testutil.Unique("usertokenrepo-")+"@example.com")

	makeToken := func(refresh string, ttl time.Duration) *types.UserToken {
		return &types.UserToken{
			UserID:       u.ID,
			RefreshToken: refresh,
			ExpiresAt:    time.Now().Add(ttl),
		}
	}

	live := makeToken(testutil.Unique("refresh-live-"), time.Hour)
	stale := makeToken(testutil.Unique("refresh-stale-"), -time.Hour)
	if _, err := repo.Create(dbc, []*types.UserToken{live, stale}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{live.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 2 {
		t.Fatalf("GetByUserIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByRefreshTokens(dbc, []string{live.RefreshToken}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByRefreshTokens: err=%v len=%d", err, len(rows))
	}

	n, err := repo.DeleteExpired(dbc, time.Now())
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n < 1 {
		t.Fatalf("DeleteExpired: expected at least 1 row, got %d", n)
	}
	if rows, _ := repo.GetByIDs(dbc, []uuid.UUID{stale.ID}); len(rows) != 0 {
		t.Fatalf("DeleteExpired: stale session still present")
	}

	if n, err := repo.FullDeleteByIDs(dbc, []uuid.UUID{live.ID}); err != nil || n != 1 {
		t.Fatalf("FullDeleteByIDs: n=%d err=%v", n, err)
	}
	if n, err := repo.FullDeleteByIDs(dbc, []uuid.UUID{live.ID}); err != nil || n != 0 {
		t.Fatalf("FullDeleteByIDs twice: expected 0 rows, got n=%d err=%v", n, err)
	}
	if rows, _ := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); len(rows) != 0 {
		t.Fatalf("FullDeleteByIDs: expected no sessions, got %d", len(rows))
	}

	again := makeToken(testutil.Unique("refresh-again-"), time.Hour)
	if _, err := repo.Create(dbc, []*types.UserToken{again}); err != nil {
		t.Fatalf("Create again: %v", err)
	}
	if err := repo.FullDeleteByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("FullDeleteByUserIDs: %v", err)
	}
	if rows, _ := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); len(rows) != 0 {
		t.Fatalf("FullDeleteByUserIDs: expected no sessions, got %d", len(rows))
	}
}
