package layout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// TemplateType names a column-layout convention used by spreadsheet authors.
type TemplateType string

const (
	V2023 TemplateType = "v2023"
	V2024 TemplateType = "v2024"
)

// Field is a semantic column of a quiz sheet.
type Field string

const (
	FieldRow         Field = "row"
	FieldCourse      Field = "course"
	FieldTitle       Field = "title"
	FieldText        Field = "text"
	FieldOption1     Field = "option1"
	FieldOption2     Field = "option2"
	FieldOption3     Field = "option3"
	FieldOption4     Field = "option4"
	FieldFeedback1   Field = "feedback1"
	FieldFeedback2   Field = "feedback2"
	FieldFeedback3   Field = "feedback3"
	FieldFeedback4   Field = "feedback4"
	FieldWeight1     Field = "weight1"
	FieldWeight2     Field = "weight2"
	FieldWeight3     Field = "weight3"
	FieldWeight4     Field = "weight4"
	FieldWeightTrue  Field = "weight_true"
	FieldWeightFalse Field = "weight_false"
)

// NotPresent is returned for a field a template deliberately does not carry.
const NotPresent = -1

// OptionCount is the number of answer options on a multiple-choice row.
const OptionCount = 4

var (
	ErrUnknownTemplate = errors.New("unknown template type")
	ErrUnknownField    = errors.New("unknown template field")
)

// Option fields indexed by option number (0-based).
var (
	OptionFields   = [OptionCount]Field{FieldOption1, FieldOption2, FieldOption3, FieldOption4}
	FeedbackFields = [OptionCount]Field{FieldFeedback1, FieldFeedback2, FieldFeedback3, FieldFeedback4}
	WeightFields   = [OptionCount]Field{FieldWeight1, FieldWeight2, FieldWeight3, FieldWeight4}
)

// mandatory fields every registered layout must map to a real column.
var mandatory = []Field{
	FieldRow, FieldTitle, FieldText,
	FieldOption1, FieldOption2, FieldOption3, FieldOption4,
	FieldWeight1, FieldWeight2, FieldWeight3, FieldWeight4,
	FieldWeightTrue, FieldWeightFalse,
}

// optional fields may be mapped to NotPresent.
var optional = map[Field]bool{
	FieldCourse:    true,
	FieldFeedback1: true,
	FieldFeedback2: true,
	FieldFeedback3: true,
	FieldFeedback4: true,
}

// Layout is the fixed field -> zero-based column mapping of one template.
type Layout struct {
	Template TemplateType
	Columns  map[Field]int
}

// PositionOf resolves a field on this layout.
func (l Layout) PositionOf(f Field) (int, error) {
	idx, ok := l.Columns[f]
	if !ok {
		if optional[f] {
			return NotPresent, nil
		}
		return 0, fmt.Errorf("%w: %s has no column for %q", ErrUnknownField, l.Template, f)
	}
	return idx, nil
}

// MustPosition is PositionOf for fields already checked by Register.
func (l Layout) MustPosition(f Field) int {
	idx, err := l.PositionOf(f)
	if err != nil {
		return NotPresent
	}
	return idx
}

// Width is one past the highest mapped column.
func (l Layout) Width() int {
	w := 0
	for _, idx := range l.Columns {
		if idx+1 > w {
			w = idx + 1
		}
	}
	return w
}

var (
	mu       sync.RWMutex
	registry = map[TemplateType]Layout{}
)

// Register adds a template layout. Column clashes are allowed only between the
// multiple-choice and true/false weight columns, which never share a sheet.
func Register(l Layout) error {
	if l.Template == "" {
		return errors.New("layout: template type is required")
	}
	cols := make(map[Field]int, len(l.Columns))
	for f, idx := range l.Columns {
		cols[f] = idx
	}
	l.Columns = cols
	for _, f := range mandatory {
		idx, ok := l.Columns[f]
		if !ok || idx < 0 {
			return fmt.Errorf("layout %s: mandatory field %q is not mapped", l.Template, f)
		}
	}
	seen := map[int]Field{}
	for _, f := range sortedFields(l.Columns) {
		idx := l.Columns[f]
		if idx < 0 {
			if !optional[f] {
				return fmt.Errorf("layout %s: field %q cannot be absent", l.Template, f)
			}
			delete(l.Columns, f)
			continue
		}
		if f == FieldWeightTrue || f == FieldWeightFalse {
			continue
		}
		if other, dup := seen[idx]; dup {
			return fmt.Errorf("layout %s: fields %q and %q share column %d", l.Template, other, f, idx)
		}
		seen[idx] = f
	}
	mu.Lock()
	defer mu.Unlock()
	registry[l.Template] = l
	return nil
}

// Lookup returns the layout registered for t.
func Lookup(t TemplateType) (Layout, error) {
	mu.RLock()
	defer mu.RUnlock()
	l, ok := registry[t]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, t)
	}
	return l, nil
}

// PositionOf resolves (template, field) to a zero-based column index.
func PositionOf(t TemplateType, f Field) (int, error) {
	l, err := Lookup(t)
	if err != nil {
		return 0, err
	}
	return l.PositionOf(f)
}

// Templates lists registered template types in name order.
func Templates() []TemplateType {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]TemplateType, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseTemplateType accepts "v2023", "2023" and the like.
func ParseTemplateType(s string) (TemplateType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s != "" && !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	t := TemplateType(s)
	if _, err := Lookup(t); err != nil {
		return "", err
	}
	return t, nil
}

func sortedFields(m map[Field]int) []Field {
	out := make([]Field, 0, len(m))
	for f := range m {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
