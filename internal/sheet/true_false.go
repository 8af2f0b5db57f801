package sheet

import (
	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
	"github.com/mind-engage/mindengage-quizsheets/internal/validation"
)

type trueFalse struct {
	rowReader
	v   *validation.Validator
	min int
}

func (trueFalse) Kind() quiz.Kind { return quiz.KindTrueFalse }
func (s trueFalse) MinCells() int { return s.min }

// ParseRow skips blank rows and reports short rows, then keeps reading.
// Unlike multiple-choice sheets, a short row here is an authoring mistake.
func (s trueFalse) ParseRow(row Row, l layout.Layout) RowOutcome {
	n := row.NonEmpty()
	if n == 0 {
		return RowOutcome{Blank: true, Row: row.Number}
	}
	rowNo := s.rowNumber(row, l)
	if n < s.min {
		return RowOutcome{Row: rowNo, Problems: []string{quiz.MsgInsufficientValues}}
	}
	q := &quiz.Question{
		Kind:     quiz.KindTrueFalse,
		Row:      rowNo,
		SheetRow: row.Number,
	}
	problems := s.header(row, l, q)
	q.WeightTrue = s.weight(row, l.MustPosition(layout.FieldWeightTrue), q, &problems)
	q.WeightFalse = s.weight(row, l.MustPosition(layout.FieldWeightFalse), q, &problems)
	return RowOutcome{Row: q.Row, Question: q, Problems: problems}
}

func (s trueFalse) Validate(q *quiz.Question) []quiz.Problem {
	return s.v.CheckTrueFalseWeights(q)
}
