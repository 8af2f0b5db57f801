package sheet

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CellKind is the native type a decoder reported for a cell.
type CellKind int

const (
	KindBlank CellKind = iota
	KindText
	KindNumber
	KindBool
	KindError // formula evaluated to an error (#DIV/0!, #N/A, ...)
)

func (k CellKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

type Cell struct {
	Value string
	Kind  CellKind
}

// Row is one physical sheet row. Number is 1-based.
type Row struct {
	Number int
	Cells  []Cell
}

// At returns the cell at a zero-based column; out-of-range columns are blank.
func (r Row) At(col int) Cell {
	if col < 0 || col >= len(r.Cells) {
		return Cell{Kind: KindBlank}
	}
	return r.Cells[col]
}

// NonEmpty counts cells that are not blank.
func (r Row) NonEmpty() int {
	n := 0
	for _, c := range r.Cells {
		if c.Kind != KindBlank {
			n++
		}
	}
	return n
}

var (
	// ErrNotPresent marks a blank cell. Callers decide whether absence is a problem.
	ErrNotPresent = errors.New("cell not present")
	// ErrConversion marks a cell whose content cannot serve as the requested type.
	ErrConversion = errors.New("cell conversion failed")
)

var formulaErrors = map[string]bool{
	"#NULL!": true, "#DIV/0!": true, "#VALUE!": true, "#REF!": true,
	"#NAME?": true, "#NUM!": true, "#N/A": true, "#GETTING_DATA": true,
}

// Classify infers a kind from raw text, for decoders without native types.
func Classify(raw string) CellKind {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return KindBlank
	case formulaErrors[strings.ToUpper(s)]:
		return KindError
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return KindNumber
	}
	return KindText
}

// TextCell and NumberCell build cells for callers that assemble rows by hand.
func TextCell(s string) Cell { return Cell{Value: s, Kind: Classify(s)} }

func NumberCell(v float64) Cell {
	return Cell{Value: strconv.FormatFloat(v, 'f', -1, 64), Kind: KindNumber}
}

// Cells converts raw strings to classified cells.
func Cells(values ...string) []Cell {
	out := make([]Cell, len(values))
	for i, v := range values {
		out[i] = TextCell(v)
	}
	return out
}

// leading enumeration such as "1.", "12)", "a)", "(b)", "C."
var enumPrefix = regexp.MustCompile(`^\(?(?:\d{1,3}|[A-Za-z])[.)]\s+`)

// Extractor turns cells into cleaned strings and numbers.
type Extractor struct {
	disallowed map[rune]bool
}

func NewExtractor(disallowed string) *Extractor {
	m := make(map[rune]bool, len(disallowed))
	for _, r := range disallowed {
		m[r] = true
	}
	return &Extractor{disallowed: m}
}

// AsString returns cleaned text. Blank -> ErrNotPresent; formula error -> ErrConversion.
// Cleaning may empty a cell (only disallowed characters): that is ErrNotPresent too.
func (e *Extractor) AsString(c Cell) (string, error) {
	switch c.Kind {
	case KindBlank:
		return "", ErrNotPresent
	case KindError:
		return "", ErrConversion
	}
	s := e.Clean(c.Value)
	if c.Kind == KindText {
		s = enumPrefix.ReplaceAllString(s, "")
	}
	if s == "" {
		return "", ErrNotPresent
	}
	return s, nil
}

// Clean normalises text without touching enumeration markers.
func (e *Extractor) Clean(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if e.disallowed[r] {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// AsDouble returns a number. Blank -> ErrNotPresent; anything non-numeric -> ErrConversion.
// Accepts a decimal comma and a trailing percent sign.
func (e *Extractor) AsDouble(c Cell) (float64, error) {
	switch c.Kind {
	case KindBlank:
		return 0, ErrNotPresent
	case KindError, KindBool:
		return 0, ErrConversion
	}
	s := strings.TrimSpace(e.Clean(c.Value))
	if s == "" {
		return 0, ErrNotPresent
	}
	return parseFloatLoose(s)
}

// AsInt is AsDouble restricted to whole numbers.
func (e *Extractor) AsInt(c Cell) (int, error) {
	v, err := e.AsDouble(c)
	if err != nil {
		return 0, err
	}
	if v != float64(int(v)) {
		return 0, ErrConversion
	}
	return int(v), nil
}

func parseFloatLoose(s string) (float64, error) {
	pct := false
	if strings.HasSuffix(s, "%") {
		pct = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrConversion
	}
	if pct {
		v /= 100
	}
	return v, nil
}
