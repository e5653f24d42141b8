package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var WeddingAggregateContract = Contract{
	Name:             "Wedding.TenantAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns wedding creation, membership ownership rules and tenant teardown.",
}

// WeddingAggregate owns tenant lifecycle writes.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeInvariantViolation, CodeRetryable, CodeInternal.
type WeddingAggregate interface {
	Aggregate

	// Create inserts the wedding, its owner membership and default website settings.
	// A derived slug is suffixed until unique; an explicit slug that is taken is a conflict.
	Create(ctx context.Context, in CreateWeddingInput) (CreateWeddingResult, error)

	// Delete removes the wedding and every row scoped to it.
	Delete(ctx context.Context, in DeleteWeddingInput) error

	// RemoveMember removes a membership, refusing to remove the last owner.
	RemoveMember(ctx context.Context, in RemoveMemberInput) error
}

type CreateWeddingInput struct {
	CreatorUserID uuid.UUID
	PartnerOne    string
	PartnerTwo    string
	Date          *time.Time
	Location      string
	TimeZone      string
	// Slug is optional; when empty it is derived from the partner names.
	Slug string
}

type CreateWeddingResult struct {
	WeddingID uuid.UUID
	Slug      string
}

type DeleteWeddingInput struct {
	WeddingID uuid.UUID
}

type RemoveMemberInput struct {
	WeddingID uuid.UUID
	UserID    uuid.UUID
}
