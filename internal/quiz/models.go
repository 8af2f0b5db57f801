package quiz

import (
	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
)

// Kind is the question kind carried by a sheet.
type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindTrueFalse      Kind = "true_false"
)

type Quiz struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Course string `json:"course"`
	Year   int    `json:"year"`
}

type Author struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
}

// QuizAuthor binds one author to one quiz for one submitted file.
type QuizAuthor struct {
	ID       string              `json:"id"`
	QuizID   string              `json:"quiz_id"`
	AuthorID string              `json:"author_id"`
	FilePath string              `json:"file_path"`
	Template layout.TemplateType `json:"template"`
}

type Option struct {
	Text     string   `json:"text,omitempty"`
	Feedback string   `json:"feedback,omitempty"`
	Weight   *float64 `json:"weight,omitempty"` // nil when the cell was blank
}

type Question struct {
	ID           string `json:"id"`
	QuizAuthorID string `json:"quiz_author_id"`
	Kind         Kind   `json:"kind"`
	Row          int    `json:"row"`       // sequence number from the row column
	SheetRow     int    `json:"sheet_row"` // 1-based physical row
	Course       string `json:"course,omitempty"`
	Title        string `json:"title"`
	Text         string `json:"text"`

	Options     [4]Option `json:"options"`
	WeightTrue  *float64  `json:"weight_true,omitempty"`
	WeightFalse *float64  `json:"weight_false,omitempty"`

	// UnreadableWeights counts weight cells that held something other than a number.
	UnreadableWeights int `json:"-"`
	// FilePath is the source file; set during import, not persisted on the row.
	FilePath string `json:"-"`
}

// QuizError is one validation failure. QuestionID is empty for file-level and
// row-shape errors that produced no question.
type QuizError struct {
	ID           string `json:"id"`
	QuizAuthorID string `json:"quiz_author_id,omitempty"`
	QuestionID   string `json:"question_id,omitempty"`
	Row          int    `json:"row"`
	Description  string `json:"description"`
	FilePath     string `json:"file_path,omitempty"`
}

// Weights returns the option weights; absent weights are nil.
func (q Question) Weights() [4]*float64 {
	var out [4]*float64
	for i, o := range q.Options {
		out[i] = o.Weight
	}
	return out
}

// F is a helper for building optional weights.
func F(v float64) *float64 { return &v }
