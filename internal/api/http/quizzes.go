// internal/api/http/quizzes.go
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
)

// GET /quizzes
func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListQuizzes(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /quizzes/{id}/questions?limit=&offset=
func ListQuestionsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, ok := quizListOpts(w, r, store)
		if !ok {
			return
		}
		qs, err := store.ListQuestions(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

// GET /quizzes/{id}/errors?limit=&offset=
func ListQuizErrorsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, ok := quizListOpts(w, r, store)
		if !ok {
			return
		}
		es, err := store.ListQuizErrors(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, es)
	}
}

// DELETE /quizzes/{id}/errors
func DeleteQuizErrorsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := store.GetQuiz(r.Context(), id); err != nil {
			notFoundOr500(w, err)
			return
		}
		n, err := store.DeleteQuizErrors(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
	}
}

// DELETE /quiz-authors/{id} removes one submitted file with its questions and errors.
func DeleteQuizAuthorHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteQuizAuthor(r.Context(), chi.URLParam(r, "id")); err != nil {
			notFoundOr500(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /authors
func ListAuthorsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListAuthors(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func quizListOpts(w http.ResponseWriter, r *http.Request, store quiz.Store) (quiz.ListOpts, bool) {
	id := chi.URLParam(r, "id")
	if _, err := store.GetQuiz(r.Context(), id); err != nil {
		notFoundOr500(w, err)
		return quiz.ListOpts{}, false
	}
	return quiz.ListOpts{
		QuizID: id,
		Limit:  parseIntDefault(r.URL.Query().Get("limit"), 200),
		Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
	}, true
}

func notFoundOr500(w http.ResponseWriter, err error) {
	if errors.Is(err, quiz.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
