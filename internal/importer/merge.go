package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/mind-engage/mindengage-quizsheets/internal/author"
	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
	"github.com/mind-engage/mindengage-quizsheets/internal/validation"
)

// merged is one file after its author and QuizAuthor are settled.
type merged struct {
	fileResult
	author     quiz.Author
	quizAuthor quiz.QuizAuthor
}

// merge runs on a single goroutine after every task finished.
func (c *Coordinator) merge(ctx context.Context, req Request, l layout.Layout, results []fileResult) (Result, error) {
	qz, err := c.findOrCreateQuiz(ctx, req)
	if err != nil {
		return Result{}, err
	}
	reg := author.NewRegistry(c.newID, author.StoreLookup(c.store))

	files := make([]merged, 0, len(results))
	byAuthor := map[string][]*quiz.Question{}
	var authorOrder []string
	for _, r := range results {
		a, created, err := reg.Dedupe(ctx, r.author)
		if err != nil {
			return Result{}, fmt.Errorf("resolve author for %s: %w", r.entry.Rel, err)
		}
		if created {
			if a, err = c.store.CreateAuthor(ctx, a); err != nil {
				return Result{}, fmt.Errorf("create author %q: %w", r.author, err)
			}
		}
		qa, err := c.replaceQuizAuthor(ctx, qz.ID, a.ID, r.entry.Rel, l.Template)
		if err != nil {
			return Result{}, err
		}
		for _, q := range r.parse.Questions {
			q.ID = c.newID()
			q.QuizAuthorID = qa.ID
			q.FilePath = r.entry.Rel
		}
		if _, seen := byAuthor[a.ID]; !seen {
			authorOrder = append(authorOrder, a.ID)
		}
		byAuthor[a.ID] = append(byAuthor[a.ID], r.parse.Questions...)
		files = append(files, merged{fileResult: r, author: a, quizAuthor: qa})
	}

	// duplicates are judged across all files of one author
	byPath := make(map[string]*merged, len(files))
	for i := range files {
		byPath[files[i].entry.Rel] = &files[i]
	}
	for _, id := range authorOrder {
		for _, p := range validation.FindDuplicates(byAuthor[id]) {
			if f := byPath[p.Question.FilePath]; f != nil {
				f.parse.Problems.AddProblems(p)
			}
		}
	}

	res := Result{QuizID: qz.ID, FilesProcessed: len(files), Authors: reg.Authors()}
	for _, f := range files {
		qs := make([]quiz.Question, len(f.parse.Questions))
		for i, q := range f.parse.Questions {
			qs[i] = *q
		}
		if len(qs) > 0 {
			if err := c.store.CreateQuestions(ctx, qs); err != nil {
				return res, fmt.Errorf("store questions for %s: %w", f.entry.Rel, err)
			}
		}
		errs := f.parse.Problems.Bind(f.quizAuthor.ID, c.newID)
		if len(errs) > 0 {
			if err := c.store.CreateQuizErrors(ctx, errs); err != nil {
				return res, fmt.Errorf("store errors for %s: %w", f.entry.Rel, err)
			}
		}
		res.Questions += len(qs)
		res.Errors += len(errs)
		res.Files = append(res.Files, FileOutcome{
			Path:      f.entry.Rel,
			Author:    f.author.Name,
			Kind:      f.parse.Kind,
			State:     f.status.State,
			Questions: len(qs),
			Errors:    len(errs),
		})
	}
	return res, nil
}

func (c *Coordinator) findOrCreateQuiz(ctx context.Context, req Request) (quiz.Quiz, error) {
	qz, err := c.store.FindQuiz(ctx, req.QuizName, req.Course, req.Year)
	if err == nil {
		return qz, nil
	}
	if !errors.Is(err, quiz.ErrNotFound) {
		return quiz.Quiz{}, fmt.Errorf("find quiz: %w", err)
	}
	qz, err = c.store.CreateQuiz(ctx, quiz.Quiz{ID: c.newID(), Name: req.QuizName, Course: req.Course, Year: req.Year})
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	return qz, nil
}

// replaceQuizAuthor drops what an earlier import stored for the same file so
// re-running an import does not double its questions and errors.
func (c *Coordinator) replaceQuizAuthor(ctx context.Context, quizID, authorID, path string, t layout.TemplateType) (quiz.QuizAuthor, error) {
	old, err := c.store.FindQuizAuthor(ctx, quizID, authorID, path)
	switch {
	case err == nil:
		if err := c.store.DeleteQuizAuthor(ctx, old.ID); err != nil {
			return quiz.QuizAuthor{}, fmt.Errorf("replace %s: %w", path, err)
		}
	case !errors.Is(err, quiz.ErrNotFound):
		return quiz.QuizAuthor{}, fmt.Errorf("find quiz author for %s: %w", path, err)
	}
	qa, err := c.store.CreateQuizAuthor(ctx, quiz.QuizAuthor{
		ID: c.newID(), QuizID: quizID, AuthorID: authorID, FilePath: path, Template: t,
	})
	if err != nil {
		return quiz.QuizAuthor{}, fmt.Errorf("create quiz author for %s: %w", path, err)
	}
	return qa, nil
}
