package models

import "testing"

func TestValidCategory(t *testing.T) {
	if !ValidCategory("philosophy_ethics") {
		t.Error("known slug rejected")
	}
	if !ValidCategory("Philosophy_Ethics") {
		t.Error("category check should be case-insensitive")
	}
	if ValidCategory("underwater_basketweaving") {
		t.Error("unknown slug accepted")
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := CategoryLabel("philosophy_ethics"); got != "Philosophy & Ethics" {
		t.Errorf("label = %q, want Philosophy & Ethics", got)
	}
	if got := CategoryLabel(""); got != "Uncategorized" {
		t.Errorf("empty slug label = %q, want Uncategorized", got)
	}
	// Rows with retired slugs still get a readable label.
	if got := CategoryLabel("ancient_history"); got != "Ancient History" {
		t.Errorf("fallback label = %q, want Ancient History", got)
	}
}
