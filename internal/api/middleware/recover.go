package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/taskdeck/internal/api/shared"
)

// Recoverer turns a panic in a handler into a 500 JSON response.
// http.ErrAbortHandler is re-panicked so the server can abort the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if err, ok := rvr.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				// ALLOW-PANIC
				panic(rvr)
			}

			err := fmt.Errorf("panic: %v\n%s", rvr, debug.Stack())
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Internal server error", err)
		}()

		next.ServeHTTP(w, r)
	})
}
