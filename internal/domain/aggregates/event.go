package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var EventAggregateContract = Contract{
	Name:             "Wedding.EventAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Keeps the guest x event invitation matrix complete when events come and go.",
}

// EventAggregate owns event creation and deletion.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeRetryable, CodeInternal.
type EventAggregate interface {
	Aggregate

	// Create inserts the event and a not_invited invitation for every guest of the wedding.
	Create(ctx context.Context, in CreateEventInput) (CreateEventResult, error)

	// Delete removes the event, its invitations, its questions and their answers.
	Delete(ctx context.Context, in DeleteEventInput) error
}

type EventFields struct {
	Name        string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Venue       string
	Address     string
	Attire      string
	Description string
	CollectRSVP bool
	Position    int
}

type CreateEventInput struct {
	WeddingID uuid.UUID
	Event     EventFields
}

type CreateEventResult struct {
	EventID                uuid.UUID
	InvitationsProvisioned int
}

type DeleteEventInput struct {
	WeddingID uuid.UUID
	EventID   uuid.UUID
}
