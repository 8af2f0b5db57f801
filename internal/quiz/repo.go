package quiz

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type ListOpts struct {
	QuizID string
	Limit  int
	Offset int
}

// Store is the persistence collaborator. Calls are synchronous and each one is
// its own transaction.
type Store interface {
	FindQuiz(ctx context.Context, name, course string, year int) (Quiz, error)
	CreateQuiz(ctx context.Context, q Quiz) (Quiz, error)
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	ListQuizzes(ctx context.Context) ([]Quiz, error)

	FindAuthorByName(ctx context.Context, name string) (Author, error)
	CreateAuthor(ctx context.Context, a Author) (Author, error)
	ListAuthors(ctx context.Context) ([]Author, error)

	FindQuizAuthor(ctx context.Context, quizID, authorID, filePath string) (QuizAuthor, error)
	CreateQuizAuthor(ctx context.Context, qa QuizAuthor) (QuizAuthor, error)
	// DeleteQuizAuthor removes the binding and cascades to its questions and errors.
	DeleteQuizAuthor(ctx context.Context, id string) error

	CreateQuestions(ctx context.Context, qs []Question) error
	ListQuestions(ctx context.Context, opts ListOpts) ([]Question, error)

	CreateQuizErrors(ctx context.Context, es []QuizError) error
	ListQuizErrors(ctx context.Context, opts ListOpts) ([]QuizError, error)
	DeleteQuizErrors(ctx context.Context, quizID string) (int64, error)
}
