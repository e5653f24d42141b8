package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
)

func TestInjectedTxRunnerCommitsOnSuccess(t *testing.T) {
	r := &InjectedTxRunner{}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Fatalf("err=%v called=%v", err, called)
	}
	if r.BeginCalls != 1 || r.CommitCalls != 1 || r.RollbackCalls != 0 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunnerRollsBackOnBodyError(t *testing.T) {
	r := &InjectedTxRunner{}
	bodyErr := errors.New("boom")
	err := r.InTx(context.Background(), func(_ dbctx.Context) error { return bodyErr })
	if !errors.Is(err, bodyErr) {
		t.Fatalf("expected body err, got %v", err)
	}
	if r.CommitCalls != 0 || r.RollbackCalls != 1 {
		t.Fatalf("unexpected counters commit=%d rollback=%d", r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunnerFailAfterBody(t *testing.T) {
	injected := errors.New("crash after write")
	r := &InjectedTxRunner{FailAfterBody: injected}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if !called || !errors.Is(err, injected) {
		t.Fatalf("called=%v err=%v", called, err)
	}
	if r.RollbackCalls != 1 {
		t.Fatalf("expected rollback, got %d", r.RollbackCalls)
	}
}

func TestInjectedTxRunnerFailBeginSkipsBody(t *testing.T) {
	r := &InjectedTxRunner{FailBegin: errors.New("no connection")}
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		t.Fatalf("body must not run")
		return nil
	})
	if err == nil {
		t.Fatalf("expected begin error")
	}
}
