// Package validation holds the pure checks applied to parsed question rows.
// Checks return problems; recording them is the caller's job.
package validation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
)

// Rules configures a Validator.
type Rules struct {
	Tolerance       float64
	ForbiddenTitles []string // exact, case-insensitive
	RemovalMarkers  []string // substring of title or text, case-insensitive
}

// DefaultRules returns the rules used when nothing is configured.
func DefaultRules() Rules {
	return Rules{
		Tolerance:       DefaultTolerance,
		ForbiddenTitles: []string{"ICMP"},
		RemovalMarkers:  []string{"to be removed", "delete this row", "[remove]"},
	}
}

type Validator struct {
	tolerance decimal.Decimal
	forbidden map[string]bool
	markers   []string
}

func New(r Rules) *Validator {
	v := &Validator{
		tolerance: decimal.NewFromFloat(r.Tolerance),
		forbidden: make(map[string]bool, len(r.ForbiddenTitles)),
	}
	for _, t := range r.ForbiddenTitles {
		if t = strings.TrimSpace(t); t != "" {
			v.forbidden[strings.ToLower(t)] = true
		}
	}
	for _, m := range r.RemovalMarkers {
		if m = strings.TrimSpace(m); m != "" {
			v.markers = append(v.markers, strings.ToLower(m))
		}
	}
	return v
}

// Skip reports whether a row is a placeholder that must vanish without a trace:
// a removal marker in title or text, or a forbidden title.
func (v *Validator) Skip(q *quiz.Question) bool {
	title := strings.ToLower(strings.TrimSpace(q.Title))
	if v.forbidden[title] {
		return true
	}
	text := strings.ToLower(q.Text)
	for _, m := range v.markers {
		if strings.Contains(title, m) || strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// CheckRow runs the content checks that come before weight checks.
// Only multiple-choice rows carry answers.
func (v *Validator) CheckRow(q *quiz.Question) []quiz.Problem {
	if q.Kind != quiz.KindMultipleChoice {
		return nil
	}
	if missingAnswer(q) {
		return v.problem(q, quiz.MsgMissingAnswer)
	}
	return nil
}

// missingAnswer: no option text at all, or a positively weighted option without text.
func missingAnswer(q *quiz.Question) bool {
	hasText := false
	for _, o := range q.Options {
		if o.Text != "" {
			hasText = true
			continue
		}
		if o.Weight != nil && *o.Weight > 0 {
			return true
		}
	}
	return !hasText
}

// CheckWeights dispatches to the weight check for the question's kind.
func (v *Validator) CheckWeights(q *quiz.Question) []quiz.Problem {
	switch q.Kind {
	case quiz.KindTrueFalse:
		return v.CheckTrueFalseWeights(q)
	default:
		return v.CheckMultipleChoiceWeights(q)
	}
}
