package sheet

import (
	"errors"

	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
	"github.com/mind-engage/mindengage-quizsheets/internal/validation"
)

// Default row-width thresholds. Below MinCellsMultipleChoice a multiple-choice
// sheet has ended; below MinCellsTrueFalse a true/false row is incomplete.
const (
	DefaultMinCellsMultipleChoice = 5
	DefaultMinCellsTrueFalse      = 4
)

// RowOutcome is what a strategy made of one row.
type RowOutcome struct {
	// EndOfData stops the sheet; nothing else in the outcome is meaningful.
	EndOfData bool
	// Blank rows are passed over without a record.
	Blank bool
	// Row is the row number used for problems (row-number cell, or the physical row).
	Row int
	// Question is nil when the row was too malformed to produce one.
	Question *quiz.Question
	// Problems found while reading cells.
	Problems []string
}

// Strategy parses and validates rows of one question kind. A processor picks
// one per file.
type Strategy interface {
	Kind() quiz.Kind
	MinCells() int
	ParseRow(row Row, l layout.Layout) RowOutcome
	Validate(q *quiz.Question) []quiz.Problem
}

// Strategies builds the strategy table keyed by kind.
func Strategies(x *Extractor, v *validation.Validator, minMC, minTF int) map[quiz.Kind]Strategy {
	if minMC <= 0 {
		minMC = DefaultMinCellsMultipleChoice
	}
	if minTF <= 0 {
		minTF = DefaultMinCellsTrueFalse
	}
	base := rowReader{x: x}
	return map[quiz.Kind]Strategy{
		quiz.KindMultipleChoice: multipleChoice{rowReader: base, v: v, min: minMC},
		quiz.KindTrueFalse:      trueFalse{rowReader: base, v: v, min: minTF},
	}
}

// rowReader holds the field reads both strategies share.
type rowReader struct {
	x *Extractor
}

func (r rowReader) rowNumber(row Row, l layout.Layout) int {
	if col := l.MustPosition(layout.FieldRow); col != layout.NotPresent {
		if n, err := r.x.AsInt(row.At(col)); err == nil {
			return n
		}
	}
	return row.Number
}

func (r rowReader) header(row Row, l layout.Layout, q *quiz.Question) []string {
	var problems []string
	if col := l.MustPosition(layout.FieldCourse); col != layout.NotPresent {
		q.Course, _ = r.x.AsString(row.At(col))
	}
	title, err := r.x.AsString(row.At(l.MustPosition(layout.FieldTitle)))
	switch {
	case errors.Is(err, ErrNotPresent):
		problems = append(problems, quiz.MsgMissingTitle)
	case err != nil:
		problems = append(problems, quiz.MsgTitleNotText)
	}
	q.Title = title
	text, err := r.x.AsString(row.At(l.MustPosition(layout.FieldText)))
	switch {
	case errors.Is(err, ErrNotPresent):
		problems = append(problems, quiz.MsgEmptyText)
	case err != nil:
		problems = append(problems, quiz.MsgTextNotText)
	}
	q.Text = text
	return problems
}

// weight reads an optional weight. Blank is nil; anything unreadable is counted
// on the question and reported once per cell.
func (r rowReader) weight(row Row, col int, q *quiz.Question, problems *[]string) *float64 {
	if col == layout.NotPresent {
		return nil
	}
	v, err := r.x.AsDouble(row.At(col))
	switch {
	case err == nil:
		return &v
	case errors.Is(err, ErrNotPresent):
		return nil
	default:
		q.UnreadableWeights++
		*problems = append(*problems, quiz.MsgPointsNotNumber)
		return nil
	}
}
