package sheet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
	"github.com/mind-engage/mindengage-quizsheets/internal/sheet"
	"github.com/mind-engage/mindengage-quizsheets/internal/sheet/sheettest"
	"github.com/mind-engage/mindengage-quizsheets/internal/validation"
)

func newProcessor() *sheet.Processor {
	x := sheet.NewExtractor("")
	v := validation.New(validation.DefaultRules())
	return sheet.NewProcessor(x, v, sheet.Strategies(x, v, 0, 0))
}

func v2023(t *testing.T) layout.Layout {
	t.Helper()
	l, err := layout.Lookup(layout.V2023)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestProcessMultipleChoiceSheet(t *testing.T) {
	src := &sheet.SliceSource{Name: "Sheet1", Rows: []sheet.Row{
		row(0, "No.", "Title", "Question", "Answer A", "Points"),
		row(0, "1", "What is TCP?", "Describe TCP.", "A", "0.25", "B", "0.25", "C", "0.25", "D", "0.25"),
		row(0, "2", "ICMP", "What is ICMP?", "A", "1"),
		row(0, "3", "", "Describe UDP.", "A", "0.25", "B", "0.25", "C", "0.25", "D", "0.20"),
		row(0, "4", "Ports", "What is a port?", "A", "1", "B", "0"),
		row(0, "Total"),
		row(0, "5", "Ignored", "After the end", "A", "1"),
	}}
	fp := newProcessor().Process(context.Background(), src, sheet.Options{FilePath: "a.xlsx", Layout: v2023(t)})

	if fp.Kind != quiz.KindMultipleChoice {
		t.Fatalf("kind = %q", fp.Kind)
	}
	if len(fp.Questions) != 3 {
		t.Fatalf("want 3 questions, got %d", len(fp.Questions))
	}
	for i, want := range []int{1, 3, 4} {
		if fp.Questions[i].Row != want {
			t.Fatalf("question %d row = %d, want %d", i, fp.Questions[i].Row, want)
		}
	}
	if fp.Questions[0].SheetRow != 2 {
		t.Fatalf("sheet row = %d", fp.Questions[0].SheetRow)
	}

	ps := fp.Problems.Problems()
	if len(ps) != 2 {
		t.Fatalf("want 2 problems, got %+v", ps)
	}
	if ps[0].Row != 3 || ps[0].Description != quiz.MsgMissingTitle || ps[0].Question != fp.Questions[1] {
		t.Fatalf("missing title: %+v", ps[0])
	}
	if ps[1].Row != 3 || ps[1].Description != quiz.MsgWrongSumOneQuarter {
		t.Fatalf("weight sum: %+v", ps[1])
	}
}

func TestProcessTrueFalseDetectedFromHeaders(t *testing.T) {
	src := &sheet.SliceSource{Name: "Sheet1", Rows: []sheet.Row{
		row(0, "No.", "Title", "Statement", "True", "False"),
		row(0, "1", "Sky", "The sky is blue.", "1", "0"),
		row(0),
		row(0, "2", "Half"),
		row(0, "3", "Grass", "Grass is red.", "0.6", "0.6"),
	}}
	fp := newProcessor().Process(context.Background(), src, sheet.Options{FilePath: "tf.xlsx", Layout: v2023(t)})
	if fp.Kind != quiz.KindTrueFalse {
		t.Fatalf("kind = %q", fp.Kind)
	}
	if len(fp.Questions) != 2 {
		t.Fatalf("want 2 questions, got %d", len(fp.Questions))
	}
	ps := fp.Problems.Problems()
	if len(ps) != 2 || ps[0].Description != quiz.MsgInsufficientValues || ps[0].Row != 2 || ps[0].Question != nil {
		t.Fatalf("insufficient values: %+v", ps)
	}
	if ps[1].Description != quiz.MsgWrongSumTrueFalse || ps[1].Row != 3 {
		t.Fatalf("true/false sum: %+v", ps[1])
	}
}

func TestProcessKeepsRowsBeforeReadFailure(t *testing.T) {
	src := &sheet.SliceSource{
		Rows: []sheet.Row{
			row(0, "1", "", "Describe TCP.", "A", "1", "B", "0"),
			row(0, "2", "UDP", "Describe UDP.", "A", "1"),
		},
		Err: errors.New("truncated zip"),
	}
	fp := newProcessor().Process(context.Background(), src, sheet.Options{
		FilePath: "c.xlsx", Layout: v2023(t), Kind: quiz.KindMultipleChoice,
	})
	if len(fp.Questions) != 2 {
		t.Fatalf("questions lost: %d", len(fp.Questions))
	}
	ps := fp.Problems.Problems()
	if !fp.Interrupted || len(ps) != 2 || ps[0].Description != quiz.MsgMissingTitle {
		t.Fatalf("row problem lost: %+v", ps)
	}
	if ps[1].Row != 0 || ps[1].Description != quiz.MsgUnreadableFile {
		t.Fatalf("file problem: %+v", ps[1])
	}
}

func TestProcessWorkbookOnDisk(t *testing.T) {
	path := sheettest.WriteXLSX(t, t.TempDir(), "q.xlsx", "", [][]interface{}{
		{"Row", "Title", "Text", "A", "wA", "B", "wB", "C", "wC", "D", "wD"},
		sheettest.TCPRow(3, 0.25),
		sheettest.TCPRow(4, 0.20),
	})
	src, err := sheet.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	fp := newProcessor().Process(context.Background(), src, sheet.Options{FilePath: path, Layout: v2023(t)})
	if len(fp.Questions) != 2 || fp.Questions[0].Row != 3 {
		t.Fatalf("questions: %+v", fp.Questions)
	}
	// the second TCP row repeats the title, which is checked per author later
	ps := fp.Problems.Problems()
	if len(ps) != 1 || ps[0].Row != 4 || ps[0].Description != quiz.MsgWrongSumOneQuarter {
		t.Fatalf("problems: %+v", ps)
	}
}

func TestProcessUnnumberedSheet(t *testing.T) {
	rows := []sheet.Row{row(0, "", "Title", "Question", "Answer A", "Points")}
	for _, title := range []string{"Q1", "Q2", "Q3", "Q4", "Q5"} {
		rows = append(rows, row(0, "", title, "Text "+title, "A", "1", "B", "0"))
	}
	src := &sheet.SliceSource{Name: "Sheet1", Rows: rows}
	fp := newProcessor().Process(context.Background(), src, sheet.Options{FilePath: "n.xlsx", Layout: v2023(t)})

	if len(fp.Questions) != 5 {
		t.Fatalf("want 5 questions, got %d", len(fp.Questions))
	}
	for i, q := range fp.Questions {
		if q.Row != i+2 || q.Title != rows[i+1].Cells[1].Value {
			t.Fatalf("question %d: row %d title %q", i, q.Row, q.Title)
		}
	}
	if n := fp.Problems.Len(); n != 0 {
		t.Fatalf("unexpected problems: %+v", fp.Problems.Problems())
	}
}

func TestProcessSingleOptionRowStaysMultipleChoice(t *testing.T) {
	src := &sheet.SliceSource{Name: "Sheet1", Rows: []sheet.Row{
		row(0, "1", "Q1", "Text1", "A", "1"),
		row(0, "2", "Q2", "Text2", "A", "0.5", "B", "0.5"),
	}}
	fp := newProcessor().Process(context.Background(), src, sheet.Options{FilePath: "s.xlsx", Layout: v2023(t)})
	if fp.Kind != quiz.KindMultipleChoice {
		t.Fatalf("kind = %q", fp.Kind)
	}
	if len(fp.Questions) != 2 || fp.Problems.Len() != 0 {
		t.Fatalf("questions %d problems %+v", len(fp.Questions), fp.Problems.Problems())
	}
}

func TestDetectKind(t *testing.T) {
	l := v2023(t)
	wide := row(2, "1", "T", "X", "A", "1", "B", "0")
	narrow := row(2, "1", "T", "X", "1", "0")
	oneOption := row(2, "1", "T", "X", "A", "1")
	trueOnly := row(2, "1", "T", "X", "1")
	cases := []struct {
		name     string
		explicit quiz.Kind
		sheet    string
		headers  []sheet.Row
		first    sheet.Row
		want     quiz.Kind
	}{
		{"explicit wins", quiz.KindTrueFalse, "Multiple choice", nil, wide, quiz.KindTrueFalse},
		{"sheet name tf", "", "Network T/F", nil, wide, quiz.KindTrueFalse},
		{"sheet name mc", "", "MCQ", nil, narrow, quiz.KindMultipleChoice},
		{"headers", "", "Sheet1", []sheet.Row{row(1, "n", "title", "text", "True", "False")}, wide, quiz.KindTrueFalse},
		{"width narrow", "", "Sheet1", nil, narrow, quiz.KindTrueFalse},
		{"width wide", "", "Sheet1", nil, wide, quiz.KindMultipleChoice},
		{"one option", "", "Sheet1", nil, oneOption, quiz.KindMultipleChoice},
		{"true weight only", "", "Sheet1", nil, trueOnly, quiz.KindTrueFalse},
	}
	for _, tc := range cases {
		if got := sheet.DetectKind(tc.explicit, tc.sheet, tc.headers, tc.first, l); got != tc.want {
			t.Errorf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}
