package core

import "testing"

func TestCustomTag(t *testing.T) {
	if got := CustomTag(" side hustle "); got != "other:side hustle" {
		t.Fatalf("unexpected custom tag: %q", got)
	}
	if got := CustomTag("   "); got != "" {
		t.Fatalf("blank input should produce no tag, got %q", got)
	}
	if !IsCustomTag("other:thing") || IsCustomTag("Groceries") {
		t.Fatalf("custom tag detection broken")
	}
}

func TestNormalizeTags(t *testing.T) {
	in := []string{" Groceries ", "Groceries", "", "other:x", "Tax", "other:x"}
	got := NormalizeTags(in)
	want := []string{"Groceries", "other:x", "Tax"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestStandardTagsIsACopy(t *testing.T) {
	a := StandardTags()
	a[0] = "mutated"
	if StandardTags()[0] == "mutated" {
		t.Fatalf("StandardTags must not expose internal state")
	}
}
