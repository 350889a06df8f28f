package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/pagebound/pagebound/internal/logging"
)

// Recover converts panics into a 500 response carrying the error message and
// stack, so a bad handler never tears down the server.
type Recover struct {
	logger *logging.Logger
}

func NewRecover(logger *logging.Logger) *Recover {
	if logger == nil {
		logger = logging.Default
	}
	return &Recover{logger: logger}
}

type panicResponse struct {
	Error string `json:"error"`
	Stack string `json:"stack"`
}

func (rc *Recover) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := string(debug.Stack())
				rc.logger.Error("Panic recovered", map[string]interface{}{
					"error":  fmt.Sprint(rec),
					"method": r.Method,
					"path":   r.URL.Path,
					"stack":  stack,
				})

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(panicResponse{
					Error: fmt.Sprint(rec),
					Stack: stack,
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
