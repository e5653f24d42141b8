package normalize

import "testing"

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Alex & Sam":           "alex-and-sam",
		"  José  and  Zoë ":    "jose-and-zoe",
		"Renée's Big Day!!":    "renee-s-big-day",
		"---":                  "",
		"already-a-slug-2026":  "already-a-slug-2026",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestCoupleSlug(t *testing.T) {
	if got := CoupleSlug("Alex Morgan", "Sam Lee"); got != "alex-and-sam" {
		t.Fatalf("CoupleSlug: got %q", got)
	}
	if got := CoupleSlug("Alex", ""); got != "alex" {
		t.Fatalf("CoupleSlug single: got %q", got)
	}
}

func TestValidSlug(t *testing.T) {
	if !ValidSlug("alex-and-sam") {
		t.Fatalf("expected valid")
	}
	for _, bad := range []string{"ab", "Alex-and-Sam", "alex--sam", "-alex", "alex sam"} {
		if ValidSlug(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}

func TestNameKey(t *testing.T) {
	if NameKey("  Zoë   ") != NameKey("zoe") {
		t.Fatalf("expected accent and case folding")
	}
}

func TestEmail(t *testing.T) {
	if got := Email("  Sam@Example.COM "); got != "sam@example.com" {
		t.Fatalf("Email: got %q", got)
	}
}
