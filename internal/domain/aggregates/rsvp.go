package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var RSVPAggregateContract = Contract{
	Name:             "RSVP.SubmissionAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Applies one household's responses and answers atomically.",
}

// RSVPAggregate owns guest-facing RSVP submission.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeInvariantViolation, CodeRetryable, CodeInternal.
type RSVPAggregate interface {
	Aggregate

	// Submit sets invitation statuses and upserts answers for one household.
	Submit(ctx context.Context, in SubmitRSVPInput) (SubmitRSVPResult, error)
}

type RSVPResponseInput struct {
	GuestID uuid.UUID
	EventID uuid.UUID
	Status  string
}

type RSVPAnswerInput struct {
	QuestionID uuid.UUID
	// GuestID is nil for a household-level answer.
	GuestID *uuid.UUID
	Values  []string
}

type SubmitRSVPInput struct {
	WeddingID   uuid.UUID
	HouseholdID uuid.UUID
	Responses   []RSVPResponseInput
	Answers     []RSVPAnswerInput
	SubmittedAt time.Time
}

type SubmitRSVPResult struct {
	HouseholdID  uuid.UUID `json:"household_id"`
	Attending    int       `json:"attending"`
	Declined     int       `json:"declined"`
	AnswersSaved int       `json:"answers_saved"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
