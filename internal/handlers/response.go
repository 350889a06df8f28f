package handlers

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

type routeMissResponse struct {
	Error  string `json:"error"`
	Path   string `json:"path"`
	Method string `json:"method"`
}

// WithNotFound wraps a ServeMux so any request that matches no registered
// pattern gets a JSON 404 instead of the mux's default plain-text response.
// Method mismatches on a known path are reported the same way.
func WithNotFound(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, pattern := mux.Handler(r)
		if pattern == "" {
			writeJSON(w, http.StatusNotFound, routeMissResponse{
				Error:  "Route not found",
				Path:   r.URL.Path,
				Method: r.Method,
			})
			return
		}
		mux.ServeHTTP(w, r)
	})
}
