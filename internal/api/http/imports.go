// internal/api/http/imports.go
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/mind-engage/mindengage-quizsheets/internal/importer"
	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
	syncx "github.com/mind-engage/mindengage-quizsheets/internal/sync"
)

// Importer runs one folder import.
type Importer interface {
	Run(ctx context.Context, req importer.Request) (importer.Result, error)
}

// EventLister reads the import history.
type EventLister interface {
	List(ctx context.Context, typ string, after int64, limit int) ([]syncx.Event, error)
}

// POST /imports  {"dir": "...", "quiz_name": "...", "course": "...", "year": 2024, ...}
// Runs synchronously and returns the run's Result.
func RunImportHandler(imp Importer, v *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importer.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := v.Struct(req); err != nil {
			http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Template != "" {
			t, err := layout.ParseTemplateType(string(req.Template))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			req.Template = t
		}
		res, err := imp.Run(r.Context(), req)
		if err != nil {
			if errors.Is(err, importer.ErrInvalidRequest) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Printf("import %s: %v", req.Dir, err)
			http.Error(w, "import failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /imports?after=&limit=  completed runs, oldest first.
func ListImportsHandler(events EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after, _ := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
		list, err := events.List(r.Context(), syncx.TypeImportCompleted, after, parseIntDefault(r.URL.Query().Get("limit"), 100))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []syncx.Event{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}
