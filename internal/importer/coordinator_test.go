package importer

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
	"github.com/mind-engage/mindengage-quizsheets/internal/sheet"
	"github.com/mind-engage/mindengage-quizsheets/internal/sheet/sheettest"
	"github.com/mind-engage/mindengage-quizsheets/internal/storage"
	syncx "github.com/mind-engage/mindengage-quizsheets/internal/sync"
	"github.com/mind-engage/mindengage-quizsheets/internal/validation"
)

var header = []interface{}{"Row", "Title", "Text", "A", "wA", "B", "wB", "C", "wC", "D", "wD"}

func mcRow(n int, title string, last float64) []interface{} {
	return []interface{}{n, title, "Explain " + title, "A", 0.25, "B", 0.25, "C", 0.25, "D", last}
}

func newCoordinator(t *testing.T, store quiz.Store, base string, opts ...Option) *Coordinator {
	t.Helper()
	src, err := storage.NewFSSource(base)
	if err != nil {
		t.Fatal(err)
	}
	x := sheet.NewExtractor("")
	v := validation.New(validation.DefaultRules())
	proc := sheet.NewProcessor(x, v, sheet.Strategies(x, v, 0, 0))
	all := append([]Option{WithPool(PoolConfig{Core: 2, Max: 3, QueueCapacity: 1})}, opts...)
	return NewCoordinator(store, src, proc, all...)
}

func request() Request {
	return Request{Dir: "in", Course: "NET101", QuizName: "Week 1", Year: 2024, Template: layout.V2023}
}

// three files, the middle one corrupt
func writeFolder(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	in := filepath.Join(base, "in")
	sheettest.WriteXLSX(t, in, "Ann Archer.xlsx", "", [][]interface{}{
		header, mcRow(1, "What is TCP?", 0.25), mcRow(2, "What is UDP?", 0.25),
	})
	sheettest.WriteCorrupt(t, in, "Bob Brown.xlsx")
	sheettest.WriteXLSX(t, in, "Cid Carter.xlsx", "", [][]interface{}{
		header, mcRow(1, "What is IP?", 0.25), mcRow(2, "What is ARP?", 0.20),
	})
	return base
}

func TestRunKeepsGoingPastCorruptFile(t *testing.T) {
	base := writeFolder(t)
	store := quiz.NewMemoryStore()
	ctx := context.Background()
	res, err := newCoordinator(t, store, base).Run(ctx, request())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.FilesProcessed != 3 || res.Questions != 4 || res.Errors != 2 {
		t.Fatalf("result: files=%d questions=%d errors=%d", res.FilesProcessed, res.Questions, res.Errors)
	}
	bad := res.Files[1]
	if bad.Path != "Bob Brown.xlsx" || bad.State != Failed || bad.Errors != 1 || bad.Questions != 0 {
		t.Fatalf("corrupt file outcome: %+v", bad)
	}
	if res.Files[0].State != Succeeded || res.Files[2].State != Succeeded {
		t.Fatalf("good files: %+v", res.Files)
	}

	errs, err := store.ListQuizErrors(ctx, quiz.ListOpts{QuizID: res.QuizID})
	if err != nil {
		t.Fatal(err)
	}
	var fileLevel, rowLevel int
	for _, e := range errs {
		switch {
		case e.Row == 0 && e.Description == quiz.MsgUnreadableFile && e.FilePath == "Bob Brown.xlsx":
			fileLevel++
		case e.Row == 2 && e.Description == quiz.MsgWrongSumOneQuarter && e.QuestionID != "":
			rowLevel++
		}
	}
	if fileLevel != 1 || rowLevel != 1 {
		t.Fatalf("stored errors: %+v", errs)
	}
	if len(res.Authors) != 3 {
		t.Fatalf("authors: %+v", res.Authors)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	base := writeFolder(t)
	store := quiz.NewMemoryStore()
	ctx := context.Background()
	c := newCoordinator(t, store, base)

	rows := func(quizID string) ([]int, int) {
		qs, err := store.ListQuestions(ctx, quiz.ListOpts{QuizID: quizID})
		if err != nil {
			t.Fatal(err)
		}
		es, err := store.ListQuizErrors(ctx, quiz.ListOpts{QuizID: quizID})
		if err != nil {
			t.Fatal(err)
		}
		var out []int
		for _, q := range qs {
			out = append(out, q.Row)
		}
		return out, len(es)
	}

	first, err := c.Run(ctx, request())
	if err != nil {
		t.Fatal(err)
	}
	rows1, errs1 := rows(first.QuizID)
	second, err := c.Run(ctx, request())
	if err != nil {
		t.Fatal(err)
	}
	rows2, errs2 := rows(second.QuizID)

	if first.QuizID != second.QuizID {
		t.Fatal("same quiz identity created twice")
	}
	if first.Questions != second.Questions || first.Errors != second.Errors {
		t.Fatalf("counts differ: %+v vs %+v", first, second)
	}
	if errs1 != errs2 || !reflect.DeepEqual(rows1, rows2) {
		t.Fatalf("stored state differs: %v/%d vs %v/%d", rows1, errs1, rows2, errs2)
	}
	authors, _ := store.ListAuthors(ctx)
	if len(authors) != 3 {
		t.Fatalf("authors duplicated across runs: %+v", authors)
	}
}

func TestRunRecoversFromPanickingTask(t *testing.T) {
	base := writeFolder(t)
	opener := func(p string) (sheet.RowSource, error) {
		if strings.Contains(p, "Cid") {
			panic("decoder exploded")
		}
		return sheet.Open(p)
	}
	res, err := newCoordinator(t, quiz.NewMemoryStore(), base, WithOpener(opener)).Run(context.Background(), request())
	if err != nil {
		t.Fatal(err)
	}
	cid := res.Files[2]
	if cid.State != Failed || cid.Errors != 1 || cid.Questions != 0 {
		t.Fatalf("panicking file: %+v", cid)
	}
	if res.Files[0].Questions != 2 {
		t.Fatalf("other files affected: %+v", res.Files[0])
	}
}

func TestRunMergesAuthorVariantsAndFlagsDuplicates(t *testing.T) {
	base := t.TempDir()
	in := filepath.Join(base, "in")
	sheettest.WriteXLSX(t, in, "Jon Smith_1001_assignsubmission_file_a.xlsx", "", [][]interface{}{
		header, mcRow(1, "What is TCP?", 0.25),
	})
	sheettest.WriteXLSX(t, in, "Jon  Smith .xlsx", "", [][]interface{}{
		header, mcRow(1, "what is tcp?", 0.25), mcRow(2, "What is DNS?", 0.25),
	})
	store := quiz.NewMemoryStore()
	res, err := newCoordinator(t, store, base).Run(context.Background(), request())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Authors) != 1 || res.Authors[0].Name != "Jon Smith" {
		t.Fatalf("want one author, got %+v", res.Authors)
	}
	errs, _ := store.ListQuizErrors(context.Background(), quiz.ListOpts{QuizID: res.QuizID})
	if len(errs) != 1 || errs[0].Description != quiz.MsgDuplicateTitle {
		t.Fatalf("want one duplicate title error, got %+v", errs)
	}
	// files are merged in path order; the Moodle file sorts second
	if errs[0].FilePath != "Jon Smith_1001_assignsubmission_file_a.xlsx" {
		t.Fatalf("duplicate reported on %s", errs[0].FilePath)
	}
}

func TestRunRecursiveTakesAuthorFromFolder(t *testing.T) {
	base := t.TempDir()
	in := filepath.Join(base, "in")
	sheettest.WriteXLSX(t, in, "Mary Jones/quiz.xlsx", "", [][]interface{}{header, mcRow(1, "What is TCP?", 0.25)})
	sheettest.WriteXLSX(t, in, "Ann Archer/quiz.xlsx", "", [][]interface{}{header, mcRow(1, "What is UDP?", 0.25)})
	req := request()
	req.Recursive = true
	res, err := newCoordinator(t, quiz.NewMemoryStore(), base).Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 2 || res.Files[0].Author != "Ann Archer" || res.Files[1].Author != "Mary Jones" {
		t.Fatalf("files: %+v", res.Files)
	}
}

type recordingSink struct{ got []syncx.ImportSummary }

func (r *recordingSink) ImportCompleted(_ context.Context, s syncx.ImportSummary) error {
	r.got = append(r.got, s)
	return nil
}

func TestRunRecordsEvent(t *testing.T) {
	sink := &recordingSink{}
	res, err := newCoordinator(t, quiz.NewMemoryStore(), writeFolder(t), WithEvents(sink)).Run(context.Background(), request())
	if err != nil {
		t.Fatal(err)
	}
	if len(sink.got) != 1 {
		t.Fatalf("events: %+v", sink.got)
	}
	s := sink.got[0]
	if s.QuizID != res.QuizID || s.FilesProcessed != 3 || s.FilesFailed != 1 || s.Questions != 4 {
		t.Fatalf("summary: %+v", s)
	}
}

func TestRunRejectsBadRequest(t *testing.T) {
	c := newCoordinator(t, quiz.NewMemoryStore(), t.TempDir())
	if _, err := c.Run(context.Background(), Request{QuizName: "x"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("missing dir: %v", err)
	}
	req := request()
	req.Template = "v1999"
	if _, err := c.Run(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("unknown template: %v", err)
	}
}
