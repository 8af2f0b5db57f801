// Package importer runs folder imports: every spreadsheet is parsed on a
// worker pool, then one goroutine merges the results into the store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/mind-engage/mindengage-quizsheets/internal/author"
	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
	"github.com/mind-engage/mindengage-quizsheets/internal/sheet"
	"github.com/mind-engage/mindengage-quizsheets/internal/storage"
	syncx "github.com/mind-engage/mindengage-quizsheets/internal/sync"
)

var ErrInvalidRequest = errors.New("invalid import request")

// Request names one import run: a folder and the quiz it feeds.
type Request struct {
	Dir      string              `json:"dir" validate:"required"`
	Course   string              `json:"course"`
	QuizName string              `json:"quiz_name" validate:"required"`
	Year     int                 `json:"year" validate:"gte=2000,lte=2100"`
	Template layout.TemplateType `json:"template"`
	// Kind forces the question kind of every sheet; empty detects per file.
	Kind quiz.Kind `json:"kind" validate:"omitempty,oneof=multiple_choice true_false"`
	// Recursive reads one folder per author; the folder name names the author.
	Recursive bool `json:"recursive"`
}

type FileOutcome struct {
	Path      string    `json:"path"`
	Author    string    `json:"author"`
	Kind      quiz.Kind `json:"kind,omitempty"`
	State     FileState `json:"state"`
	Questions int       `json:"questions"`
	Errors    int       `json:"errors"`
}

type Result struct {
	QuizID         string        `json:"quiz_id"`
	FilesProcessed int           `json:"files_processed"`
	Questions      int           `json:"questions"`
	Errors         int           `json:"errors"`
	Files          []FileOutcome `json:"files"`
	Authors        []quiz.Author `json:"authors"`
}

// EventSink records finished runs. *syncx.EventRepo implements it.
type EventSink interface {
	ImportCompleted(ctx context.Context, s syncx.ImportSummary) error
}

// Opener opens a spreadsheet for reading; sheet.Open by default.
type Opener func(path string) (sheet.RowSource, error)

type Option func(*Coordinator)

func WithPool(cfg PoolConfig) Option            { return func(c *Coordinator) { c.pool = cfg } }
func WithEvents(s EventSink) Option             { return func(c *Coordinator) { c.events = s } }
func WithOpener(o Opener) Option                { return func(c *Coordinator) { c.open = o } }
func WithIDs(newID func() string) Option        { return func(c *Coordinator) { c.newID = newID } }
func WithTemplate(t layout.TemplateType) Option { return func(c *Coordinator) { c.template = t } }

type Coordinator struct {
	store    quiz.Store
	source   storage.Source
	proc     *sheet.Processor
	pool     PoolConfig
	events   EventSink
	open     Opener
	newID    func() string
	template layout.TemplateType
}

func NewCoordinator(store quiz.Store, source storage.Source, proc *sheet.Processor, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:    store,
		source:   source,
		proc:     proc,
		pool:     DefaultPoolConfig(),
		open:     sheet.Open,
		newID:    quiz.NewID,
		template: layout.V2024,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// fileResult is what a task hands back to the merge step.
type fileResult struct {
	entry  storage.Entry
	author string
	status FileStatus
	parse  sheet.FileParse
}

// Run imports every file below req.Dir. Row and file problems become
// QuizError records; only setup and storage failures return an error.
func (c *Coordinator) Run(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	if strings.TrimSpace(req.Dir) == "" || strings.TrimSpace(req.QuizName) == "" {
		return Result{}, fmt.Errorf("%w: dir and quiz name are required", ErrInvalidRequest)
	}
	tmpl := req.Template
	if tmpl == "" {
		tmpl = c.template
	}
	l, err := layout.Lookup(tmpl)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	local, cleanup, err := c.source.Stage(ctx, req.Dir)
	if err != nil {
		return Result{}, fmt.Errorf("stage %s: %w", req.Dir, err)
	}
	defer cleanup()
	entries, err := storage.List(local, req.Recursive)
	if err != nil {
		return Result{}, fmt.Errorf("list %s: %w", req.Dir, err)
	}
	log.Printf("importer: %s: %d files (template %s)", req.Dir, len(entries), tmpl)

	results := c.parseAll(ctx, entries, l, req)
	res, err := c.merge(ctx, req, l, results)
	if err != nil {
		return res, err
	}

	if c.events != nil {
		failed := 0
		for _, f := range res.Files {
			if f.State == Failed {
				failed++
			}
		}
		summary := syncx.ImportSummary{
			QuizID:         res.QuizID,
			Dir:            req.Dir,
			FilesProcessed: res.FilesProcessed,
			FilesFailed:    failed,
			Questions:      res.Questions,
			Errors:         res.Errors,
			DurationMS:     time.Since(started).Milliseconds(),
		}
		if err := c.events.ImportCompleted(ctx, summary); err != nil {
			log.Printf("importer: record event: %v", err)
		}
	}
	log.Printf("importer: %s: %d files, %d questions, %d errors in %s",
		req.Dir, res.FilesProcessed, res.Questions, res.Errors, time.Since(started).Round(time.Millisecond))
	return res, nil
}

// parseAll fans the files out to the pool and waits for all of them. Results
// come back over a channel and are ordered by path, so the merge sees the same
// sequence regardless of which worker finished first.
func (c *Coordinator) parseAll(ctx context.Context, entries []storage.Entry, l layout.Layout, req Request) []fileResult {
	out := make(chan fileResult, len(entries))
	pool := NewPool(c.pool)
	for _, e := range entries {
		e := e
		pool.Submit(func() { out <- c.parseFile(ctx, e, l, req) })
	}
	pool.Wait()
	close(out)

	results := make([]fileResult, 0, len(entries))
	for r := range out {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].entry.Rel < results[j].entry.Rel })
	return results
}

// parseFile runs inside a worker. It touches nothing shared.
func (c *Coordinator) parseFile(ctx context.Context, e storage.Entry, l layout.Layout, req Request) (res fileResult) {
	res = fileResult{entry: e, status: FileStatus{Path: e.Rel}}
	if req.Recursive && e.Folder != "" {
		res.author, _ = author.ResolveName(e.Folder)
	} else {
		res.author, _ = author.Resolve(e.Path)
	}
	res.parse.Problems = quiz.NewCollector(e.Rel)
	_ = res.status.advance(Running)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("importer: %s: panic: %v", e.Rel, r)
			collector := res.parse.Problems
			res.parse = sheet.FileParse{Problems: collector}
			res.parse.Problems.AddFileError(quiz.MsgImportFailed)
			res.status.State = Failed
		}
	}()

	src, err := c.open(e.Path)
	if err != nil {
		log.Printf("importer: %s: %v", e.Rel, err)
		res.parse.Problems.AddFileError(openFailure(err))
		_ = res.status.advance(Failed)
		return res
	}
	defer src.Close()

	fp := c.proc.Process(ctx, src, sheet.Options{FilePath: e.Rel, Layout: l, Kind: req.Kind})
	res.parse = fp
	if fp.Interrupted {
		_ = res.status.advance(Failed)
	} else {
		_ = res.status.advance(Succeeded)
	}
	return res
}

func openFailure(err error) string {
	switch {
	case errors.Is(err, sheet.ErrUnsupportedFile):
		return quiz.MsgUnsupportedFile
	case errors.Is(err, sheet.ErrNoSheet):
		return quiz.MsgNoSheet
	default:
		return quiz.MsgUnreadableFile
	}
}
