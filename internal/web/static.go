package web

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/rook-computer/vtdash/internal/assets"
)

// StaticUIHandler serves staticDir when it is an existing directory and the
// embedded dashboard page otherwise. HTML is always revalidated; other
// files may be cached by the client for an hour.
func StaticUIHandler(staticDir string) http.Handler {
	var fsys fs.FS = assets.WebUI
	if staticDir != "" {
		if st, err := os.Stat(staticDir); err == nil && st.IsDir() {
			fsys = os.DirFS(staticDir)
		}
	}
	fileServer := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Clean path to avoid oddities.
		r.URL.Path = path.Clean("/" + r.URL.Path)
		if r.URL.Path == "/" || strings.HasSuffix(r.URL.Path, ".html") {
			w.Header().Set("Cache-Control", "no-cache")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		fileServer.ServeHTTP(w, r)
	})
}
