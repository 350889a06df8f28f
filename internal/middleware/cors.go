package middleware

import "net/http"

// CORS applies the permissive cross-origin policy the SPA client relies on:
// any origin, the verbs the API serves, and JSON/authorization headers.
// Preflight requests are answered directly.
type CORS struct{}

func NewCORS() *CORS {
	return &CORS{}
}

func (c *CORS) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
