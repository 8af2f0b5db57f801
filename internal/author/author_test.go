package author

import (
	"context"
	"strconv"
	"testing"

	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		path, name, initials string
	}{
		{"/in/Jon Smith_482113_assignsubmission_file_quiz.xlsx", "Jon Smith", "JS"},
		{"/in/Jan van Berg - networks 2024.xlsx", "Jan van Berg", "JB"},
		{"jon_smith.xlsx", "jon smith", "JS"},
		{"Ana-Maria_Lopez.xls", "Ana Maria Lopez", "AML"},
		{"Jon  Smith .xlsx", "Jon Smith", "JS"},
	}
	for _, tc := range cases {
		name, initials := Resolve(tc.path)
		if name != tc.name || initials != tc.initials {
			t.Errorf("Resolve(%q) = %q, %q; want %q, %q", tc.path, name, initials, tc.name, tc.initials)
		}
	}
}

func counter() func() string {
	n := 0
	return func() string { n++; return "a-" + strconv.Itoa(n) }
}

func TestRegistryDedupesNameVariants(t *testing.T) {
	r := NewRegistry(counter(), nil)
	ctx := context.Background()
	a, created, err := r.Dedupe(ctx, "Jon Smith")
	if err != nil || !created {
		t.Fatalf("first: %+v %v %v", a, created, err)
	}
	b, created, err := r.Dedupe(ctx, "Jon  Smith ")
	if err != nil || created || b.ID != a.ID {
		t.Fatalf("variant made a second author: %+v created=%v", b, created)
	}
	c, _, _ := r.Dedupe(ctx, "jon smith")
	d, _, _ := r.Dedupe(ctx, "Jon Smith Jr")
	if c.ID != a.ID || d.ID != a.ID {
		t.Fatalf("case or substring variant not merged: %+v %+v", c, d)
	}
	e, created, _ := r.Dedupe(ctx, "Mary Jones")
	if !created || e.ID == a.ID {
		t.Fatalf("distinct author merged: %+v", e)
	}
	if got := len(r.Authors()); got != 2 {
		t.Fatalf("want 2 authors, got %d", got)
	}
}

func TestRegistryShortNamesDoNotSubstringMatch(t *testing.T) {
	r := NewRegistry(counter(), nil)
	ctx := context.Background()
	a, _, _ := r.Dedupe(ctx, "Al Jo")
	b, created, _ := r.Dedupe(ctx, "Jo")
	if !created || a.ID == b.ID {
		t.Fatal("two-letter name swallowed by substring match")
	}
}

func TestRegistryConsultsStorage(t *testing.T) {
	store := quiz.NewMemoryStore()
	ctx := context.Background()
	stored, err := store.CreateAuthor(ctx, quiz.Author{Name: "Jon Smith", Initials: "JS"})
	if err != nil {
		t.Fatal(err)
	}
	r := NewRegistry(counter(), StoreLookup(store))
	a, created, err := r.Dedupe(ctx, "jon smith")
	if err != nil || created || a.ID != stored.ID {
		t.Fatalf("stored author not reused: %+v created=%v err=%v", a, created, err)
	}
}
