package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
)

func TestExecuteWriteObservesSuccessStatus(t *testing.T) {
	hooks := &spyHooks{}
	err := executeWrite(context.Background(), BaseDeps{
		Runner: spyTxRunner{},
		Hooks:  hooks,
	}, "Guests.Household.Create", func(_ dbctx.Context) error { return nil })
	if err != nil {
		t.Fatalf("executeWrite success: %v", err)
	}
	if len(hooks.Operations) != 1 || hooks.Operations[0].Status != "success" {
		t.Fatalf("unexpected operations: %+v", hooks.Operations)
	}
}

func TestExecuteWriteMapsStatusAndCounters(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		code      domainagg.ErrorCode
		conflicts int
		retries   int
	}{
		{"validation", ValidationError("a household needs at least one guest"), domainagg.CodeValidation, 0, 0},
		{"not_found", NotFoundError("household not found"), domainagg.CodeNotFound, 0, 0},
		{"invariant", InvariantError("guest does not belong to household"), domainagg.CodeInvariantViolation, 0, 0},
		{"conflict", ConflictError("household was modified"), domainagg.CodeConflict, 1, 0},
		{"retryable", RetryableError("database is busy"), domainagg.CodeRetryable, 0, 1},
		{"internal", errors.New("disk on fire"), domainagg.CodeInternal, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &spyHooks{}
			err := executeWrite(context.Background(), BaseDeps{
				Runner: spyTxRunner{},
				Hooks:  hooks,
			}, "aggregate.test."+tc.name, func(_ dbctx.Context) error { return tc.err })
			if !domainagg.IsCode(err, tc.code) {
				t.Fatalf("expected code %s, got %q (%v)", tc.code, domainagg.CodeOf(err), err)
			}
			if len(hooks.Operations) != 1 || hooks.Operations[0].Status != string(tc.code) {
				t.Fatalf("unexpected operations: %+v", hooks.Operations)
			}
			if len(hooks.Conflicts) != tc.conflicts || len(hooks.Retries) != tc.retries {
				t.Fatalf("conflicts=%v retries=%v", hooks.Conflicts, hooks.Retries)
			}
		})
	}
}

func TestExecuteWriteKeepsCallerMessage(t *testing.T) {
	err := executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}}, "op",
		func(_ dbctx.Context) error { return ValidationError("unknown event id: x") })
	if got := domainagg.MessageOf(err); got != "unknown event id: x" {
		t.Fatalf("MessageOf: got %q", got)
	}
}

type spyTxRunner struct{}

func (spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(dbctx.Context{Ctx: ctx})
}

type spyHooks struct {
	Operations []spyOperation
	Conflicts  []string
	Retries    []string
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) {
	h.Conflicts = append(h.Conflicts, name)
}

func (h *spyHooks) IncRetry(name string) {
	h.Retries = append(h.Retries, name)
}
