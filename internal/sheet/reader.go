package sheet

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrNoSheet         = errors.New("workbook has no sheets")
)

// RowSource yields the rows of a workbook's first sheet in order. Next returns
// io.EOF after the last row.
type RowSource interface {
	SheetName() string
	Next() (Row, error)
	Close() error
}

// Supported reports whether path has a spreadsheet extension Open can decode.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm", ".xls":
		return true
	}
	return false
}

// Open picks a decoder by extension and positions it on the first sheet.
func Open(path string) (RowSource, error) {
	var (
		src RowSource
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		src, err = openXLSX(path)
	case ".xls":
		src, err = openXLS(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return src, nil
}

// ---- xlsx (excelize) ----

type xlsxSource struct {
	f     *excelize.File
	sheet string
	rows  [][]string
	next  int
}

func openXLSX(path string) (*xlsxSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", filepath.Base(path), err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheets[0], err)
	}
	return &xlsxSource{f: f, sheet: sheets[0], rows: rows}, nil
}

func (s *xlsxSource) SheetName() string { return s.sheet }

func (s *xlsxSource) Next() (Row, error) {
	if s.next >= len(s.rows) {
		return Row{}, io.EOF
	}
	raw := s.rows[s.next]
	s.next++
	row := Row{Number: s.next, Cells: make([]Cell, len(raw))}
	for i, v := range raw {
		kind, err := s.kindOf(i+1, row.Number, v)
		if err != nil {
			return Row{}, fmt.Errorf("row %d: %w", row.Number, err)
		}
		row.Cells[i] = Cell{Value: v, Kind: kind}
	}
	return row, nil
}

func (s *xlsxSource) kindOf(col, rowNo int, v string) (CellKind, error) {
	if strings.TrimSpace(v) == "" {
		return KindBlank, nil
	}
	axis, err := excelize.CoordinatesToCellName(col, rowNo)
	if err != nil {
		return KindBlank, err
	}
	ct, err := s.f.GetCellType(s.sheet, axis)
	if err != nil {
		return KindBlank, err
	}
	switch ct {
	case excelize.CellTypeError:
		return KindError, nil
	case excelize.CellTypeBool:
		return KindBool, nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return KindText, nil
	case excelize.CellTypeNumber, excelize.CellTypeDate:
		return KindNumber, nil
	default:
		// untyped cells are numbers in practice, but check the text
		return Classify(v), nil
	}
}

func (s *xlsxSource) Close() error { return s.f.Close() }

// ---- legacy xls (extrame/xls) ----

type xlsSource struct {
	sheet  *xls.WorkSheet
	maxRow int
	next   int
}

func openXLS(path string) (src *xlsSource, err error) {
	// the decoder panics on some malformed containers
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("open xls file %s: %v", filepath.Base(path), r)
		}
	}()
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls file %s: %w", filepath.Base(path), err)
	}
	if wb.NumSheets() == 0 {
		return nil, ErrNoSheet
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, ErrNoSheet
	}
	return &xlsSource{sheet: ws, maxRow: int(ws.MaxRow)}, nil
}

func (s *xlsSource) SheetName() string { return s.sheet.Name }

func (s *xlsSource) Next() (row Row, err error) {
	if s.next > s.maxRow {
		return Row{}, io.EOF
	}
	idx := s.next
	s.next++
	defer func() {
		if r := recover(); r != nil {
			row, err = Row{}, fmt.Errorf("row %d: %v", idx+1, r)
		}
	}()
	row = Row{Number: idx + 1}
	xr := s.rowAt(idx)
	if xr == nil {
		return row, nil
	}
	last := xr.LastCol()
	cells := make([]Cell, 0, last+1)
	for c := 0; c <= last; c++ {
		v := xr.Col(c)
		cells = append(cells, Cell{Value: v, Kind: Classify(v)})
	}
	for len(cells) > 0 && cells[len(cells)-1].Kind == KindBlank {
		cells = cells[:len(cells)-1]
	}
	row.Cells = cells
	return row, nil
}

// rowAt returns nil for rows the file does not store; the library dereferences
// a nil row in that case.
func (s *xlsSource) rowAt(i int) (r *xls.Row) {
	defer func() {
		if recover() != nil {
			r = nil
		}
	}()
	return s.sheet.Row(i)
}

func (s *xlsSource) Close() error { return nil }

// ---- in-memory ----

// SliceSource serves prepared rows; used by callers that already hold row data.
type SliceSource struct {
	Name string
	Rows []Row
	// Err, when set, is returned after the rows are exhausted instead of io.EOF.
	Err  error
	next int
}

func (s *SliceSource) SheetName() string { return s.Name }

func (s *SliceSource) Next() (Row, error) {
	if s.next >= len(s.Rows) {
		if s.Err != nil {
			return Row{}, s.Err
		}
		return Row{}, io.EOF
	}
	r := s.Rows[s.next]
	s.next++
	if r.Number == 0 {
		r.Number = s.next
	}
	return r, nil
}

func (s *SliceSource) Close() error { return nil }
