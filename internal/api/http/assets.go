// internal/api/http/assets.go
package http

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/padeltech/padelboard/internal/storage"
)

// MountAssets serves the board page and its static files.
func MountAssets(r chi.Router, as storage.AssetStore) {
	serve := func(w http.ResponseWriter, key string) {
		rc, err := as.Open(key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", as.ContentType(key))
		_, _ = io.Copy(w, rc)
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		serve(w, storage.AssetBoardPage)
	})
	// Flat file names only; API routes are registered explicitly and chi
	// matches them ahead of the parameter route.
	r.Get("/{file}", func(w http.ResponseWriter, r *http.Request) {
		serve(w, chi.URLParam(r, "file"))
	})
}
