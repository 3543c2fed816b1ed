package middleware

import (
	"log"
	"net/http"
	"runtime"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/utils"
)

// Recover turns a handler panic into a 500 and logs the stack.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				stack := make([]byte, 8*1024)
				stack = stack[:runtime.Stack(stack, false)]
				log.Printf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, stack)
				utils.ErrorResponse(w, http.StatusInternalServerError, "Server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
