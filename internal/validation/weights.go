package validation

import (
	"github.com/shopspring/decimal"

	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
)

// DefaultTolerance is the allowed distance between a weight sum and 1.
const DefaultTolerance = 0.01

var (
	one     = decimal.NewFromInt(1)
	quarter = decimal.RequireFromString("0.25")
)

// CheckMultipleChoiceWeights verifies that the four option weights add up to 1.
// Blank weights count as 0. When the sum is off, the message names how many
// weights fall off the quarter grid so authors can find the bad cell; a correct
// sum made of off-grid weights is reported on its own.
func (v *Validator) CheckMultipleChoiceWeights(q *quiz.Question) []quiz.Problem {
	if q.UnreadableWeights > 0 {
		return v.problem(q, quiz.MsgCannotCheckPoints)
	}
	sum := decimal.Zero
	present := 0
	offGrid := 0
	for _, w := range q.Weights() {
		if w == nil {
			continue
		}
		present++
		d := decimal.NewFromFloat(*w)
		sum = sum.Add(d)
		if !onQuarterGrid(d) {
			offGrid++
		}
	}
	if present == 0 {
		return v.problem(q, quiz.MsgCannotCheckPoints)
	}
	if v.withinTolerance(sum) {
		if offGrid > 0 {
			return v.problem(q, quiz.MsgPointsNotQuarter)
		}
		return nil
	}
	switch offGrid {
	case 1:
		return v.problem(q, quiz.MsgWrongSumOneQuarter)
	case 2:
		return v.problem(q, quiz.MsgWrongSumTwoQuarters)
	case 3:
		return v.problem(q, quiz.MsgWrongSumThreeQuarters)
	default:
		return v.problem(q, quiz.MsgWrongSum)
	}
}

// CheckTrueFalseWeights verifies weight_true + weight_false = 1. A single blank
// weight counts as 0; both blank means there is nothing to check against.
func (v *Validator) CheckTrueFalseWeights(q *quiz.Question) []quiz.Problem {
	if q.UnreadableWeights > 0 || (q.WeightTrue == nil && q.WeightFalse == nil) {
		return v.problem(q, quiz.MsgCannotCheckPoints)
	}
	sum := decimal.Zero
	for _, w := range []*float64{q.WeightTrue, q.WeightFalse} {
		if w != nil {
			sum = sum.Add(decimal.NewFromFloat(*w))
		}
	}
	if v.withinTolerance(sum) {
		return nil
	}
	return v.problem(q, quiz.MsgWrongSumTrueFalse)
}

func (v *Validator) withinTolerance(sum decimal.Decimal) bool {
	return sum.Sub(one).Abs().LessThanOrEqual(v.tolerance)
}

// onQuarterGrid reports whether d is one of 0, .25, .5, .75, 1.
func onQuarterGrid(d decimal.Decimal) bool {
	if d.IsNegative() || d.GreaterThan(one) {
		return false
	}
	return d.Mod(quarter).IsZero()
}

func (v *Validator) problem(q *quiz.Question, desc string) []quiz.Problem {
	return []quiz.Problem{{Row: q.Row, Description: desc, Question: q}}
}
