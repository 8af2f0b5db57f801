package validation

import (
	"strings"

	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
)

// FindDuplicates flags questions whose title repeats an earlier one (trimmed,
// case-insensitive) and options repeated inside a single question. The first
// occurrence of a title is never flagged. Input order decides which is "earlier".
func FindDuplicates(qs []*quiz.Question) []quiz.Problem {
	var out []quiz.Problem
	seen := make(map[string]bool, len(qs))
	for _, q := range qs {
		if key := foldKey(q.Title); key != "" {
			if seen[key] {
				out = append(out, quiz.Problem{Row: q.Row, Description: quiz.MsgDuplicateTitle, Question: q})
			}
			seen[key] = true
		}
		opts := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			key := foldKey(o.Text)
			if key == "" {
				continue
			}
			if opts[key] {
				out = append(out, quiz.Problem{Row: q.Row, Description: quiz.MsgDuplicateAnswer, Question: q})
				break
			}
			opts[key] = true
		}
	}
	return out
}

func foldKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
