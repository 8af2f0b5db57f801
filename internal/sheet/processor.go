package sheet

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
	"github.com/mind-engage/mindengage-quizsheets/internal/validation"
)

// DefaultMaxHeaderRows bounds how many leading rows may be taken as headers
// when no row-number cell is found.
const DefaultMaxHeaderRows = 3

type Options struct {
	FilePath string
	Layout   layout.Layout
	// Kind forces a strategy; empty means detect.
	Kind          quiz.Kind
	MaxHeaderRows int
}

// FileParse is everything one sheet produced. Problems reference the draft
// questions by pointer; IDs are assigned later.
type FileParse struct {
	SheetName string
	Kind      quiz.Kind
	Questions []*quiz.Question
	Problems  *quiz.Collector
	// Interrupted is set when reading stopped before the end of the sheet.
	Interrupted bool
}

type Processor struct {
	x          *Extractor
	v          *validation.Validator
	strategies map[quiz.Kind]Strategy
}

func NewProcessor(x *Extractor, v *validation.Validator, strategies map[quiz.Kind]Strategy) *Processor {
	return &Processor{x: x, v: v, strategies: strategies}
}

// Process reads src in row order. It never fails as a whole: a read error
// becomes a file-level problem and everything gathered before it is kept.
func (p *Processor) Process(ctx context.Context, src RowSource, opts Options) FileParse {
	fp := FileParse{SheetName: src.SheetName(), Problems: quiz.NewCollector(opts.FilePath)}
	maxHeaders := opts.MaxHeaderRows
	if maxHeaders <= 0 {
		maxHeaders = DefaultMaxHeaderRows
	}

	var (
		headers []Row
		strat   Strategy
	)
	for {
		if err := ctx.Err(); err != nil {
			fp.Problems.AddFileError(quiz.MsgImportFailed)
			fp.Interrupted = true
			return fp
		}
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("sheet: %s: %v", opts.FilePath, err)
			fp.Problems.AddFileError(quiz.MsgUnreadableFile)
			fp.Interrupted = true
			break
		}

		if strat == nil {
			if !p.startsData(row, opts.Layout) && len(headers) < maxHeaders {
				headers = append(headers, row)
				continue
			}
			kind := DetectKind(opts.Kind, fp.SheetName, headers, row, opts.Layout)
			s, ok := p.strategies[kind]
			if !ok {
				log.Printf("sheet: %s: no strategy for kind %q", opts.FilePath, kind)
				fp.Problems.AddFileError(quiz.MsgImportFailed)
				fp.Interrupted = true
				return fp
			}
			strat = s
			fp.Kind = kind
		}

		if stop := p.handleRow(strat, row, opts.Layout, &fp); stop {
			break
		}
	}
	return fp
}

func (p *Processor) handleRow(s Strategy, row Row, l layout.Layout, fp *FileParse) (stop bool) {
	out := s.ParseRow(row, l)
	switch {
	case out.EndOfData:
		return true
	case out.Blank:
		return false
	case out.Question == nil:
		fp.Problems.Add(out.Row, nil, out.Problems...)
		return false
	}
	q := out.Question
	if p.v.Skip(q) {
		return false
	}
	fp.Problems.Add(out.Row, q, out.Problems...)
	fp.Problems.AddProblems(p.v.CheckRow(q)...)
	fp.Problems.AddProblems(s.Validate(q)...)
	fp.Questions = append(fp.Questions, q)
	return false
}

var weightColumns = []layout.Field{
	layout.FieldWeight1, layout.FieldWeight2, layout.FieldWeight3, layout.FieldWeight4,
	layout.FieldWeightTrue, layout.FieldWeightFalse,
}

// startsData: the row-number column holds a number, or the row carries a
// title or text next to a numeric weight. Unnumbered question rows take their
// physical row number.
func (p *Processor) startsData(row Row, l layout.Layout) bool {
	if _, err := p.x.AsInt(row.At(l.MustPosition(layout.FieldRow))); err == nil {
		return true
	}
	_, errTitle := p.x.AsString(row.At(l.MustPosition(layout.FieldTitle)))
	_, errText := p.x.AsString(row.At(l.MustPosition(layout.FieldText)))
	if errTitle != nil && errText != nil {
		return false
	}
	for _, f := range weightColumns {
		if _, err := p.x.AsDouble(row.At(l.MustPosition(f))); err == nil {
			return true
		}
	}
	return false
}
