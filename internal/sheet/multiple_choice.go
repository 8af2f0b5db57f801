package sheet

import (
	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
	"github.com/mind-engage/mindengage-quizsheets/internal/validation"
)

type multipleChoice struct {
	rowReader
	v   *validation.Validator
	min int
}

func (multipleChoice) Kind() quiz.Kind { return quiz.KindMultipleChoice }
func (s multipleChoice) MinCells() int { return s.min }

// ParseRow treats a short row as the end of the sheet. Authors leave trailing
// notes below the questions, so nothing after it is read.
func (s multipleChoice) ParseRow(row Row, l layout.Layout) RowOutcome {
	if row.NonEmpty() < s.min {
		return RowOutcome{EndOfData: true}
	}
	q := &quiz.Question{
		Kind:     quiz.KindMultipleChoice,
		Row:      s.rowNumber(row, l),
		SheetRow: row.Number,
	}
	problems := s.header(row, l, q)
	for i := 0; i < layout.OptionCount; i++ {
		opt := &q.Options[i]
		opt.Text, _ = s.x.AsString(row.At(l.MustPosition(layout.OptionFields[i])))
		opt.Feedback, _ = s.x.AsString(row.At(l.MustPosition(layout.FeedbackFields[i])))
		opt.Weight = s.weight(row, l.MustPosition(layout.WeightFields[i]), q, &problems)
	}
	return RowOutcome{Row: q.Row, Question: q, Problems: problems}
}

func (s multipleChoice) Validate(q *quiz.Question) []quiz.Problem {
	return s.v.CheckMultipleChoiceWeights(q)
}
