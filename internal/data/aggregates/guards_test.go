package aggregates

import (
	"testing"

	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
)

func TestRequireVersionMatch(t *testing.T) {
	if err := RequireVersionMatch(3, 3); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	err := RequireVersionMatch(4, 3)
	if !domainagg.IsCode(MapError("op", err), domainagg.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if err := RequireVersionMatch(1, 0); !domainagg.IsCode(MapError("op", err), domainagg.CodeValidation) {
		t.Fatalf("expected validation error for version 0, got %v", err)
	}
}

func TestRequireCASSuccess(t *testing.T) {
	if err := RequireCASSuccess(true, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := RequireCASSuccess(false, "stale"); err == nil {
		t.Fatalf("expected conflict error")
	}
}

func TestUniqueSlug(t *testing.T) {
	if got, stem := uniqueSlug("alex-and-sam", nil); got != "alex-and-sam" || stem != "alex-and-sam" {
		t.Fatalf("free slug: got %q stem %q", got, stem)
	}
	if got, _ := uniqueSlug("alex-and-sam", []string{"alex-and-sam", "alex-and-sam-2"}); got != "alex-and-sam-3" {
		t.Fatalf("taken slug: got %q", got)
	}
	long := "abcdefghij-abcdefghij-abcdefghij-abcdefghij-abcdefghij-abcdefghi"[:64]
	got, stem := uniqueSlug(long, []string{long})
	if len(got) > 64 || got[len(got)-2:] != "-2" {
		t.Fatalf("long slug: got %q (len %d)", got, len(got))
	}
	if stem == long || got != stem+"-2" {
		t.Fatalf("long slug stem: got %q for %q", stem, got)
	}
}
