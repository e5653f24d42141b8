package aggregates_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/wedsite-backend/internal/data/aggregates"
	"github.com/yungbote/wedsite-backend/internal/data/repos/testutil"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/domain/guests"
	"github.com/yungbote/wedsite-backend/internal/domain/wedding"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
)

func TestWeddingCreateProvisionsTenant(t *testing.T) {
	f := newFixture(t)
	u := testutil.SeedUser(t, f.ctx, f.db, testutil.Unique("couple-")+"@example.com")
	agg := aggregates.NewWeddingAggregate(f.weddingAgg())

	partnerOne := testutil.Unique("Zoë")
	res, err := agg.Create(f.ctx, domainagg.CreateWeddingInput{CreatorUserID: u.ID, PartnerOne: partnerOne, PartnerTwo: "Sam"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	dbc := dbctx.Context{Ctx: f.ctx}
	w, err := f.weddings.GetByID(dbc, res.WeddingID)
	if err != nil || w == nil || w.Slug != res.Slug {
		t.Fatalf("wedding: %+v %v", w, err)
	}
	m, _ := f.members.Get(dbc, res.WeddingID, u.ID)
	if m == nil || m.Role != wedding.RoleOwner {
		t.Fatalf("owner member: %+v", m)
	}
	settings, _ := f.settings.GetByWeddingID(dbc, res.WeddingID)
	if settings == nil || settings.Published || settings.Headline != partnerOne+" & Sam" {
		t.Fatalf("settings: %+v", settings)
	}

	again, err := agg.Create(f.ctx, domainagg.CreateWeddingInput{CreatorUserID: u.ID, PartnerOne: partnerOne, PartnerTwo: "Sam"})
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if again.Slug != res.Slug+"-2" {
		t.Fatalf("derived slug collision: got %q after %q", again.Slug, res.Slug)
	}

	_, err = agg.Create(f.ctx, domainagg.CreateWeddingInput{CreatorUserID: u.ID, PartnerOne: "A", PartnerTwo: "B", Slug: res.Slug})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("explicit taken slug: expected conflict, got %v", err)
	}
	_, err = agg.Create(f.ctx, domainagg.CreateWeddingInput{CreatorUserID: u.ID, PartnerOne: "A", PartnerTwo: "B", Slug: "x"})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("short slug: expected validation, got %v", err)
	}
	_, err = agg.Create(f.ctx, domainagg.CreateWeddingInput{CreatorUserID: u.ID, PartnerOne: "A"})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("missing partner: expected validation, got %v", err)
	}
}

func TestWeddingDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ev := testutil.SeedEvent(t, f.ctx, f.db, f.wedding.ID, "Ceremony", 0)
	h := testutil.SeedHousehold(t, f.ctx, f.db, f.wedding.ID, "Riveras")
	g := testutil.SeedGuest(t, f.ctx, f.db, h, "Ana", "Rivera", 0)
	testutil.SeedInvitation(t, f.ctx, f.db, g, ev.ID, guests.StatusAttending)
	if err := f.db.Create(&types.Gift{WeddingID: f.wedding.ID, HouseholdID: h.ID, Description: "Toaster"}).Error; err != nil {
		t.Fatalf("seed gift: %v", err)
	}

	agg := aggregates.NewWeddingAggregate(f.weddingAgg())
	if err := agg.Delete(f.ctx, domainagg.DeleteWeddingInput{WeddingID: f.wedding.ID}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	for _, model := range []any{&types.Event{}, &types.Household{}, &types.Guest{}, &types.Invitation{}, &types.Gift{}, &types.WeddingMember{}, &types.WebsiteSettings{}} {
		var count int64
		f.db.Model(model).Where("wedding_id = ?", f.wedding.ID).Count(&count)
		if count != 0 {
			t.Fatalf("%T rows left: %d", model, count)
		}
	}
	if w, _ := f.weddings.GetByID(dbctx.Context{Ctx: f.ctx}, f.wedding.ID); w != nil {
		t.Fatalf("wedding still present")
	}
	err := agg.Delete(f.ctx, domainagg.DeleteWeddingInput{WeddingID: f.wedding.ID})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("second delete: expected not found, got %v", err)
	}
}

func TestWeddingRemoveMemberKeepsLastOwner(t *testing.T) {
	f := newFixture(t)
	agg := aggregates.NewWeddingAggregate(f.weddingAgg())
	dbc := dbctx.Context{Ctx: f.ctx}

	err := agg.RemoveMember(f.ctx, domainagg.RemoveMemberInput{WeddingID: f.wedding.ID, UserID: f.wedding.CreatedByUserID})
	if !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("last owner: expected invariant violation, got %v", err)
	}

	helper := testutil.SeedUser(t, f.ctx, f.db, testutil.Unique("planner-")+"@example.com")
	if err := f.members.Create(dbc, []*types.WeddingMember{{WeddingID: f.wedding.ID, UserID: helper.ID, Role: wedding.RoleCollaborator}}); err != nil {
		t.Fatalf("add collaborator: %v", err)
	}
	if err := agg.RemoveMember(f.ctx, domainagg.RemoveMemberInput{WeddingID: f.wedding.ID, UserID: helper.ID}); err != nil {
		t.Fatalf("remove collaborator: %v", err)
	}
	err = agg.RemoveMember(f.ctx, domainagg.RemoveMemberInput{WeddingID: f.wedding.ID, UserID: uuid.New()})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unknown member: expected not found, got %v", err)
	}
}

func TestWeddingCreateDerivedSlugAvoidsTruncatedSiblings(t *testing.T) {
	f := newFixture(t)
	u := testutil.SeedUser(t, f.ctx, f.db, testutil.Unique("couple-")+"@example.com")
	agg := aggregates.NewWeddingAggregate(f.weddingAgg())

	word := (strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", ""))[:60]
	base := word + "-and"
	sibling := word + "-a-2"
	for _, slug := range []string{base, sibling} {
		if _, err := agg.Create(f.ctx, domainagg.CreateWeddingInput{CreatorUserID: u.ID, PartnerOne: "A", PartnerTwo: "B", Slug: slug}); err != nil {
			t.Fatalf("seed %q: %v", slug, err)
		}
	}

	res, err := agg.Create(f.ctx, domainagg.CreateWeddingInput{CreatorUserID: u.ID, PartnerOne: word, PartnerTwo: "Sam"})
	if err != nil {
		t.Fatalf("derived Create: %v", err)
	}
	if want := word + "-a-3"; res.Slug != want {
		t.Fatalf("derived slug: got %q want %q", res.Slug, want)
	}
}
