package middleware

import (
	"net/http"
	"strings"
)

// TrimSlash redirects paths with a trailing slash to the same path without it.
// GET and HEAD get 301. Other methods get 308 so uploads and deletes keep their
// method and body. The root path "/" passes through.
func TrimSlash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if len(path) <= 1 || !strings.HasSuffix(path, "/") {
				next.ServeHTTP(w, r)
				return
			}

			u := *r.URL
			u.Path = strings.TrimRight(path, "/")
			if u.Path == "" {
				u.Path = "/"
			}
			u.RawPath = ""

			status := http.StatusMovedPermanently
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				status = http.StatusPermanentRedirect
			}
			http.Redirect(w, r, u.RequestURI(), status)
		})
	}
}
