package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/domain/guests"
	"github.com/yungbote/wedsite-backend/internal/domain/wedding"
	"github.com/yungbote/wedsite-backend/internal/pkg/normalize"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedWedding creates a wedding owned by ownerID with default website settings.
func SeedWedding(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) *types.Wedding {
	tb.Helper()
	w := &types.Wedding{
		ID:              uuid.New(),
		Slug:            Unique("alex-and-sam-"),
		PartnerOne:      "Alex",
		PartnerTwo:      "Sam",
		Location:        "Lisbon",
		CreatedByUserID: ownerID,
	}
	if err := tx.WithContext(ctx).Create(w).Error; err != nil {
		tb.Fatalf("seed wedding: %v", err)
	}
	m := &types.WeddingMember{WeddingID: w.ID, UserID: ownerID, Role: wedding.RoleOwner}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed wedding member: %v", err)
	}
	s := &types.WebsiteSettings{WeddingID: w.ID, Theme: "classic"}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed website settings: %v", err)
	}
	return w
}

func SeedEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, weddingID uuid.UUID, name string, position int) *types.Event {
	tb.Helper()
	e := &types.Event{
		WeddingID:   weddingID,
		Name:        name,
		CollectRSVP: true,
		Position:    position,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed event: %v", err)
	}
	return e
}

func SeedHousehold(tb testing.TB, ctx context.Context, tx *gorm.DB, weddingID uuid.UUID, name string) *types.Household {
	tb.Helper()
	h := &types.Household{WeddingID: weddingID, Name: name}
	if err := tx.WithContext(ctx).Create(h).Error; err != nil {
		tb.Fatalf("seed household: %v", err)
	}
	return h
}

func SeedGuest(tb testing.TB, ctx context.Context, tx *gorm.DB, h *types.Household, first, last string, position int) *types.Guest {
	tb.Helper()
	g := &types.Guest{
		WeddingID:   h.WeddingID,
		HouseholdID: h.ID,
		FirstName:   first,
		LastName:    last,
		NameKey:     normalize.NameKey(first + " " + last),
		Position:    position,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed guest: %v", err)
	}
	return g
}

func SeedInvitation(tb testing.TB, ctx context.Context, tx *gorm.DB, g *types.Guest, eventID uuid.UUID, status string) *types.Invitation {
	tb.Helper()
	inv := &types.Invitation{
		WeddingID: g.WeddingID,
		EventID:   eventID,
		GuestID:   g.ID,
		Status:    status,
	}
	if status == guests.StatusAttending || status == guests.StatusDeclined {
		now := time.Now().UTC()
		inv.RespondedAt = &now
	}
	if err := tx.WithContext(ctx).Create(inv).Error; err != nil {
		tb.Fatalf("seed invitation: %v", err)
	}
	return inv
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
