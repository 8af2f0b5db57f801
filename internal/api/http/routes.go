// internal/api/http/routes.go
package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
	"github.com/mind-engage/mindengage-quizsheets/internal/rbac"
)

// MountAPI adds the authenticated quiz and import routes to r. The caller
// installs authentication; events may be nil.
func MountAPI(r chi.Router, store quiz.Store, imp Importer, events EventLister) {
	v := validator.New()
	checker := rbac.Default()

	r.Get("/me", MeHandler(checker))

	r.With(checker.Require(rbac.PermImportRun)).Post("/imports", RunImportHandler(imp, v))
	if events != nil {
		r.With(checker.Require(rbac.PermQuizView)).Get("/imports", ListImportsHandler(events))
	}

	r.With(checker.Require(rbac.PermQuizView)).Get("/quizzes", ListQuizzesHandler(store))
	r.With(checker.Require(rbac.PermQuizView)).Get("/quizzes/{id}/questions", ListQuestionsHandler(store))
	r.With(checker.Require(rbac.PermQuizView)).Get("/quizzes/{id}/errors", ListQuizErrorsHandler(store))
	r.With(checker.Require(rbac.PermErrorsDelete)).Delete("/quizzes/{id}/errors", DeleteQuizErrorsHandler(store))
	r.With(checker.Require(rbac.PermQuizDelete)).Delete("/quiz-authors/{id}", DeleteQuizAuthorHandler(store))
	r.With(checker.Require(rbac.PermQuizView)).Get("/authors", ListAuthorsHandler(store))
}
