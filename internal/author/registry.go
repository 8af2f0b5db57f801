package author

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
)

// minSubstring keeps one- and two-letter fragments from matching everybody.
const minSubstring = 3

// LookupFunc finds an author persisted by an earlier run. found=false means
// no such author.
type LookupFunc func(ctx context.Context, name string) (a quiz.Author, found bool, err error)

// Registry remembers the authors seen during one import run. Create one per
// run; it is never shared between runs.
type Registry struct {
	mu      sync.Mutex
	authors []quiz.Author
	lookup  LookupFunc
	newID   func() string
}

func NewRegistry(newID func() string, lookup LookupFunc) *Registry {
	return &Registry{newID: newID, lookup: lookup}
}

// StoreLookup adapts a quiz.Store to a LookupFunc.
func StoreLookup(s quiz.Store) LookupFunc {
	return func(ctx context.Context, name string) (quiz.Author, bool, error) {
		a, err := s.FindAuthorByName(ctx, name)
		if errors.Is(err, quiz.ErrNotFound) {
			return quiz.Author{}, false, nil
		}
		if err != nil {
			return quiz.Author{}, false, err
		}
		return a, true, nil
	}
}

// Dedupe returns the author candidate stands for. Matching is exact
// (case-insensitive) first, then substring either way. created reports a new
// author the caller still has to persist.
func (r *Registry) Dedupe(ctx context.Context, candidate string) (a quiz.Author, created bool, err error) {
	name := Normalize(candidate)
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.match(name); ok {
		return a, false, nil
	}
	if r.lookup != nil {
		found, ok, err := r.lookup(ctx, name)
		if err != nil {
			return quiz.Author{}, false, err
		}
		if ok {
			r.authors = append(r.authors, found)
			return found, false, nil
		}
	}
	a = quiz.Author{ID: r.newID(), Name: name, Initials: Initials(name)}
	r.authors = append(r.authors, a)
	return a, true, nil
}

func (r *Registry) match(name string) (quiz.Author, bool) {
	key := strings.ToLower(name)
	for _, a := range r.authors {
		if strings.ToLower(a.Name) == key {
			return a, true
		}
	}
	for _, a := range r.authors {
		other := strings.ToLower(a.Name)
		if len(key) < minSubstring || len(other) < minSubstring {
			continue
		}
		if strings.Contains(other, key) || strings.Contains(key, other) {
			return a, true
		}
	}
	return quiz.Author{}, false
}

// Authors lists the authors seen so far in first-seen order.
func (r *Registry) Authors() []quiz.Author {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]quiz.Author, len(r.authors))
	copy(out, r.authors)
	return out
}
