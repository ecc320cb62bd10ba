package ids

import (
	"fmt"
	"strings"
	"testing"
)

func TestGenerate_Deterministic(t *testing.T) {
	first := Generate("contact-info", "email", "")
	second := Generate("contact-info", "email", "")
	if first != second {
		t.Fatalf("expected identical ids, got %q and %q", first, second)
	}
	if want := "et-contact-info--t--email--_"; first != want {
		t.Fatalf("unexpected id: want %q, got %q", want, first)
	}
}

func TestForTraveler_ScopesBySlot(t *testing.T) {
	a := ForTraveler(0, "personal-info", "sex", "female")
	b := ForTraveler(1, "personal-info", "sex", "female")
	none := Generate("personal-info", "sex", "female")

	if a == b || a == none || b == none {
		t.Fatalf("expected distinct ids, got %q %q %q", a, b, none)
	}
	if want := "et-personal-info--t1--sex--female"; b != want {
		t.Fatalf("unexpected traveler id: want %q, got %q", want, b)
	}
	if got := ForTraveler(-3, "personal-info", "sex", "female"); got != none {
		t.Fatalf("negative index should match no traveler, got %q", got)
	}
}

func TestGenerate_SanitisesUnsafeInput(t *testing.T) {
	id := Generate("Customs Declaration", "carries <cash>?", "Sí")
	for _, r := range id {
		if !(isSlugRune(r) || r == '-' || r == '_') {
			t.Fatalf("unexpected rune %q in %q", r, id)
		}
	}
	if !strings.HasPrefix(id, "et-Customs-Declaration_") {
		t.Fatalf("expected slugified step segment, got %q", id)
	}
}

func TestGenerate_LossySegmentsStayDistinct(t *testing.T) {
	pairs := [][2]string{
		{"a b", "a-b"},
		{"a--b", "a-b"},
		{"Sí", "Si"},
		{"", "_"},
		{"-x", "x"},
	}
	for _, pair := range pairs {
		left := Generate("step", pair[0], "")
		right := Generate("step", pair[1], "")
		if left == right {
			t.Fatalf("collision between %q and %q: %q", pair[0], pair[1], left)
		}
	}
}

func TestGenerate_PairwiseDistinct(t *testing.T) {
	steps := []string{"personal-info", "contact info", "flight.info", "customs"}
	fields := []string{"email", "Email", "e mail", "hasGoods", "has-goods"}
	options := []string{"", "yes", "no", "Sí", "n/a"}
	travelers := []int{-1, 0, 1, 2, 10, 11, 12, 13, 14, 15}

	seen := make(map[string]string)
	count := 0
	for _, step := range steps {
		for _, field := range fields {
			for _, option := range options {
				for _, traveler := range travelers {
					id := ForTraveler(traveler, step, field, option)
					key := fmt.Sprintf("%d|%s|%s|%s", traveler, step, field, option)
					if prev, ok := seen[id]; ok {
						t.Fatalf("id %q produced by %s and %s", id, prev, key)
					}
					seen[id] = key
					count++
				}
			}
		}
	}
	if count != 1000 {
		t.Fatalf("expected 1000 tuples, got %d", count)
	}
}

func TestWithPrefix(t *testing.T) {
	gen := New(WithPrefix("Decl Form"))
	if got := gen.Generate("s", "f", ""); got != "Decl-Form-s--t--f--_" {
		t.Fatalf("unexpected prefixed id %q", got)
	}
	bare := New(WithPrefix(""))
	if got := bare.Generate("s", "f", "o"); got != "s--t--f--o" {
		t.Fatalf("unexpected bare id %q", got)
	}
}

func TestDerivedIDs(t *testing.T) {
	id := Generate("contact-info", "email", "")
	if LabelID(id) == DescriptionID(id) || DescriptionID(id) == ErrorID(id) {
		t.Fatalf("derived ids must differ")
	}
	if !strings.HasPrefix(ErrorID(id), id) {
		t.Fatalf("derived id should extend control id")
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"José María":  "Jose-Maria",
		"  padded  ":  "padded",
		"a__b":        "a-b",
		"already-ok1": "already-ok1",
		"***":         "",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q): want %q, got %q", in, want, got)
		}
	}
}
