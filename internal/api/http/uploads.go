// internal/api/http/uploads.go
package http

import (
	"io"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quizsheets/internal/sheet"
)

type Uploader interface {
	Put(key string, r io.Reader) (string, error)
}

// MountUploads adds POST /{batch}: a multipart "file" is stored as
// batch/<filename>, ready for an import of dir=batch.
func MountUploads(r chi.Router, up Uploader) {
	r.Post("/{batch}", func(w http.ResponseWriter, r *http.Request) {
		batch := chi.URLParam(r, "batch")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()
		name := path.Base(hdr.Filename)
		if !sheet.Supported(name) {
			http.Error(w, "not a spreadsheet: "+name, http.StatusBadRequest)
			return
		}
		key, err := up.Put(batch+"/"+name, f)
		if err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"key": key, "dir": batch})
	})
}
