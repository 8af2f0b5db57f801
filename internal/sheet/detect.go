package sheet

import (
	"strings"
	"unicode"

	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
)

// DetectKind decides which strategy a sheet needs. An explicit kind wins; then
// the sheet name, the header words, and finally the shape of the first data row.
func DetectKind(explicit quiz.Kind, sheetName string, headers []Row, first Row, l layout.Layout) quiz.Kind {
	if explicit != "" {
		return explicit
	}
	if k, ok := kindFromName(sheetName); ok {
		return k
	}
	if k, ok := kindFromHeaders(headers); ok {
		return k
	}
	if trueFalseShaped(first, l) {
		return quiz.KindTrueFalse
	}
	return quiz.KindMultipleChoice
}

// trueFalseShaped: nothing right of the false-weight column, and the two weight
// columns hold numbers. A one-option MC row has answer text where the true
// weight would be.
func trueFalseShaped(r Row, l layout.Layout) bool {
	wf := l.MustPosition(layout.FieldWeightFalse)
	if lastFilled(r) > wf {
		return false
	}
	numbers := 0
	for _, col := range []int{l.MustPosition(layout.FieldWeightTrue), wf} {
		c := r.At(col)
		switch {
		case c.Kind == KindBlank:
		case isNumeric(c):
			numbers++
		default:
			return false
		}
	}
	return numbers > 0
}

func isNumeric(c Cell) bool {
	if c.Kind == KindNumber {
		return true
	}
	if c.Kind != KindText {
		return false
	}
	_, err := parseFloatLoose(strings.TrimSpace(c.Value))
	return err == nil
}

func kindFromName(name string) (quiz.Kind, bool) {
	var tokens []string
	var letters strings.Builder
	for _, f := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool { return !unicode.IsLetter(r) }) {
		tokens = append(tokens, f)
		letters.WriteString(f)
	}
	joined := letters.String()
	switch {
	case strings.Contains(joined, "truefalse"):
		return quiz.KindTrueFalse, true
	case strings.Contains(joined, "multiplechoice"):
		return quiz.KindMultipleChoice, true
	}
	for i, t := range tokens {
		if t == "t" && i+1 < len(tokens) && tokens[i+1] == "f" {
			return quiz.KindTrueFalse, true
		}
		switch t {
		case "tf":
			return quiz.KindTrueFalse, true
		case "mc", "mcq":
			return quiz.KindMultipleChoice, true
		}
	}
	return "", false
}

func kindFromHeaders(headers []Row) (quiz.Kind, bool) {
	var b strings.Builder
	for _, r := range headers {
		for _, c := range r.Cells {
			if c.Kind == KindText {
				b.WriteString(strings.ToLower(c.Value))
				b.WriteByte(' ')
			}
		}
	}
	words := b.String()
	switch {
	case strings.Contains(words, "true") && strings.Contains(words, "false"):
		return quiz.KindTrueFalse, true
	case strings.Contains(words, "answer"), strings.Contains(words, "option"), strings.Contains(words, "response"):
		return quiz.KindMultipleChoice, true
	}
	return "", false
}

// lastFilled is the index of the rightmost non-blank cell, or -1.
func lastFilled(r Row) int {
	for i := len(r.Cells) - 1; i >= 0; i-- {
		if r.Cells[i].Kind != KindBlank {
			return i
		}
	}
	return -1
}
