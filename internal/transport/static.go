package transport

import (
	"net/http"
	"strings"
)

// newStaticHandler serves files under dir. Dotfiles and dot-directories
// are hidden.
func newStaticHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, segment := range strings.Split(r.URL.Path, "/") {
			if strings.HasPrefix(segment, ".") && segment != "." {
				writeError(w, http.StatusNotFound, "Not found")
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}
