package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/wedsite-backend/internal/data/aggregates"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
)

// InjectedTxRunner wraps a real runner and injects failures around the body.
// FailAfterBody makes the inner transaction roll back after the body has written.
// With a nil Inner the body runs without a transaction.
type InjectedTxRunner struct {
	Inner aggregates.TxRunner

	FailBegin     error
	FailAfterBody error

	mu            sync.Mutex
	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin, failAfter := r.FailBegin, r.FailAfterBody
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	body := func(dbc dbctx.Context) error {
		if err := fn(dbc); err != nil {
			return err
		}
		return failAfter
	}
	var err error
	if r.Inner != nil {
		err = r.Inner.InTx(ctx, body)
	} else {
		err = body(dbctx.Context{Ctx: ctx})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.RollbackCalls++
	} else {
		r.CommitCalls++
	}
	return err
}
