package quiz_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
)

func TestCollectorKeepsRowErrorsAfterFileFailure(t *testing.T) {
	c := quiz.NewCollector("a.xlsx")
	q := &quiz.Question{ID: "q-1", Row: 2}
	c.Add(2, q, quiz.MsgMissingTitle, quiz.MsgEmptyText)
	c.Add(5, nil, quiz.MsgInsufficientValues)
	c.AddFileError(quiz.MsgUnreadableFile)

	ps := c.Problems()
	if len(ps) != 4 {
		t.Fatalf("want 4 problems, got %d", len(ps))
	}
	if ps[3].Row != 0 || ps[3].Description != quiz.MsgUnreadableFile {
		t.Fatalf("file error not last: %+v", ps[3])
	}

	n := 0
	errs := c.Bind("qa-1", func() string { n++; return "e-" + strconv.Itoa(n) })
	if len(errs) != 4 {
		t.Fatalf("want 4 bound errors, got %d", len(errs))
	}
	if errs[0].QuestionID != "q-1" || errs[1].QuestionID != "q-1" || errs[2].QuestionID != "" {
		t.Fatalf("question links wrong: %+v", errs)
	}
	for _, e := range errs {
		if e.QuizAuthorID != "qa-1" || e.FilePath != "a.xlsx" || e.ID == "" {
			t.Fatalf("binding incomplete: %+v", e)
		}
	}
}

func TestCollectorConcurrentAdds(t *testing.T) {
	c := quiz.NewCollector("b.xlsx")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(row int) {
			defer wg.Done()
			c.Add(row, nil, quiz.MsgWrongSum)
		}(i)
	}
	wg.Wait()
	if c.Len() != 50 {
		t.Fatalf("lost problems: %d", c.Len())
	}
}
