package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var HouseholdAggregateContract = Contract{
	Name:             "Guests.HouseholdAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns household, guest, invitation, gift and answer consistency for a party of guests.",
}

// HouseholdAggregate owns the household/guest/invitation/gift write path.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeInvariantViolation, CodeRetryable, CodeInternal.
type HouseholdAggregate interface {
	Aggregate

	// Create inserts the household and its guests, and provisions one invitation per
	// guest per existing event of the wedding.
	Create(ctx context.Context, in CreateHouseholdInput) (HouseholdResult, error)

	// Update applies the household fields, diffs the guest list, reconciles invitations
	// and upserts or removes the gift, bumping the household version.
	Update(ctx context.Context, in UpdateHouseholdInput) (HouseholdResult, error)

	// Delete removes the household together with guests, invitations, answers and gift.
	Delete(ctx context.Context, in DeleteHouseholdInput) error
}

type HouseholdFields struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	Notes        string
}

type GuestInput struct {
	// ID is nil for a new guest.
	ID              *uuid.UUID
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	IsChild         bool
	InvitedEventIDs []uuid.UUID
}

type GiftInput struct {
	Description  string
	ReceivedAt   *time.Time
	ThankYouSent bool
}

type CreateHouseholdInput struct {
	WeddingID uuid.UUID
	Household HouseholdFields
	Guests    []GuestInput
	Gift      *GiftInput
}

type UpdateHouseholdInput struct {
	WeddingID       uuid.UUID
	HouseholdID     uuid.UUID
	ExpectedVersion *int
	Household       HouseholdFields
	Guests          []GuestInput
	Gift            *GiftInput
	RemoveGift      bool
}

type DeleteHouseholdInput struct {
	WeddingID   uuid.UUID
	HouseholdID uuid.UUID
}

type HouseholdResult struct {
	HouseholdID   uuid.UUID
	Version       int
	GuestIDs      []uuid.UUID
	CreatedGuests int
	UpdatedGuests int
	DeletedGuests int
}
