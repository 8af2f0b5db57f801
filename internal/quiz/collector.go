package quiz

import "sync"

// Problem is a validation finding before it is bound to stored entities.
type Problem struct {
	Row         int
	Description string
	// Question is the draft the problem belongs to, if any.
	Question *Question
}

// Collector accumulates problems for one file. It is append-only; nothing added
// is ever dropped, including when the file later fails as a whole.
type Collector struct {
	mu       sync.Mutex
	filePath string
	problems []Problem
}

func NewCollector(filePath string) *Collector {
	return &Collector{filePath: filePath}
}

func (c *Collector) FilePath() string { return c.filePath }

// Add records problems for a row, optionally tied to a question draft.
func (c *Collector) Add(row int, q *Question, descriptions ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range descriptions {
		c.problems = append(c.problems, Problem{Row: row, Description: d, Question: q})
	}
}

// AddProblems records problems returned by validators.
func (c *Collector) AddProblems(ps ...Problem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.problems = append(c.problems, ps...)
}

// AddFileError records a file-level failure. Row 0 marks "whole file".
func (c *Collector) AddFileError(description string) {
	c.Add(0, nil, description)
}

// Problems returns a copy in insertion order.
func (c *Collector) Problems() []Problem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Problem, len(c.problems))
	copy(out, c.problems)
	return out
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.problems)
}

// Bind turns collected problems into QuizError records owned by quizAuthorID.
// Problems tied to a question draft pick up that draft's ID.
func (c *Collector) Bind(quizAuthorID string, newID func() string) []QuizError {
	ps := c.Problems()
	out := make([]QuizError, 0, len(ps))
	for _, p := range ps {
		qe := QuizError{
			ID:           newID(),
			QuizAuthorID: quizAuthorID,
			Row:          p.Row,
			Description:  p.Description,
			FilePath:     c.filePath,
		}
		if p.Question != nil {
			qe.QuestionID = p.Question.ID
		}
		out = append(out, qe)
	}
	return out
}
