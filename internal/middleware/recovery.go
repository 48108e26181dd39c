package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"narration-backend/internal/apperr"
	"narration-backend/pkg/utils"
)

// PanicRecovery converts an unhandled panic into the same JSON error
// shape the handlers produce, so clients never see a dropped connection
// or a bare 500
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				log.Printf("[Recovery] panic on %s %s: %v\n%s", r.Method, r.URL.Path, v, debug.Stack())
				utils.Error(w, apperr.Persistence(fmt.Errorf("%v", v), "unhandled panic"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
