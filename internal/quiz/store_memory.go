package quiz

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memoryStore struct {
	mu          sync.RWMutex
	quizzes     map[string]Quiz
	authors     map[string]Author
	quizAuthors map[string]QuizAuthor
	questions   []Question
	errs        []QuizError
}

// NewMemoryStore is used for dry runs and tests.
func NewMemoryStore() Store {
	return &memoryStore{
		quizzes:     map[string]Quiz{},
		authors:     map[string]Author{},
		quizAuthors: map[string]QuizAuthor{},
	}
}

func (m *memoryStore) FindQuiz(_ context.Context, name, course string, year int) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, q := range m.quizzes {
		if q.Name == name && q.Course == course && q.Year == year {
			return q, nil
		}
	}
	return Quiz{}, ErrNotFound
}

func (m *memoryStore) CreateQuiz(_ context.Context, q Quiz) (Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.quizzes {
		if e.Name == q.Name && e.Course == q.Course && e.Year == q.Year {
			return e, nil
		}
	}
	if q.ID == "" {
		q.ID = NewID()
	}
	m.quizzes[q.ID] = q
	return q, nil
}

func (m *memoryStore) GetQuiz(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrNotFound
	}
	return q, nil
}

func (m *memoryStore) ListQuizzes(_ context.Context) ([]Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Quiz, 0, len(m.quizzes))
	for _, q := range m.quizzes {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *memoryStore) FindAuthorByName(_ context.Context, name string) (Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.authors {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return Author{}, ErrNotFound
}

func (m *memoryStore) CreateAuthor(_ context.Context, a Author) (Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = NewID()
	}
	m.authors[a.ID] = a
	return a, nil
}

func (m *memoryStore) ListAuthors(_ context.Context) ([]Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Author, 0, len(m.authors))
	for _, a := range m.authors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryStore) FindQuizAuthor(_ context.Context, quizID, authorID, filePath string) (QuizAuthor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, qa := range m.quizAuthors {
		if qa.QuizID == quizID && qa.AuthorID == authorID && qa.FilePath == filePath {
			return qa, nil
		}
	}
	return QuizAuthor{}, ErrNotFound
}

func (m *memoryStore) CreateQuizAuthor(_ context.Context, qa QuizAuthor) (QuizAuthor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if qa.ID == "" {
		qa.ID = NewID()
	}
	m.quizAuthors[qa.ID] = qa
	return qa, nil
}

func (m *memoryStore) DeleteQuizAuthor(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizAuthors[id]; !ok {
		return ErrNotFound
	}
	delete(m.quizAuthors, id)
	qs := m.questions[:0]
	for _, q := range m.questions {
		if q.QuizAuthorID != id {
			qs = append(qs, q)
		}
	}
	m.questions = qs
	es := m.errs[:0]
	for _, e := range m.errs {
		if e.QuizAuthorID != id {
			es = append(es, e)
		}
	}
	m.errs = es
	return nil
}

func (m *memoryStore) CreateQuestions(_ context.Context, qs []Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range qs {
		if qs[i].ID == "" {
			qs[i].ID = NewID()
		}
	}
	m.questions = append(m.questions, qs...)
	return nil
}

func (m *memoryStore) ListQuestions(_ context.Context, opts ListOpts) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Question
	for _, q := range m.questions {
		if opts.QuizID != "" && m.quizAuthors[q.QuizAuthorID].QuizID != opts.QuizID {
			continue
		}
		out = append(out, q)
	}
	return page(out, opts), nil
}

func (m *memoryStore) CreateQuizErrors(_ context.Context, es []QuizError) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range es {
		if es[i].ID == "" {
			es[i].ID = NewID()
		}
	}
	m.errs = append(m.errs, es...)
	return nil
}

func (m *memoryStore) ListQuizErrors(_ context.Context, opts ListOpts) ([]QuizError, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []QuizError
	for _, e := range m.errs {
		if opts.QuizID != "" && m.quizAuthors[e.QuizAuthorID].QuizID != opts.QuizID {
			continue
		}
		out = append(out, e)
	}
	return page(out, opts), nil
}

func (m *memoryStore) DeleteQuizErrors(_ context.Context, quizID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	es := m.errs[:0]
	for _, e := range m.errs {
		if quizID == "" || m.quizAuthors[e.QuizAuthorID].QuizID == quizID {
			n++
			continue
		}
		es = append(es, e)
	}
	m.errs = es
	return n, nil
}

func page[T any](in []T, opts ListOpts) []T {
	if opts.Offset > 0 {
		if opts.Offset >= len(in) {
			return nil
		}
		in = in[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(in) {
		in = in[:opts.Limit]
	}
	return in
}
