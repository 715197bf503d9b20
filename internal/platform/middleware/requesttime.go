package middleware

import (
	"net/http"
	"time"

	"vendra/pkg/requestcontext"
)

// RequestTime captures the current time at the start of the request and
// stores it in the context. All timestamps written while handling a single
// request come from this one instant, so the status stamp, readiness
// evaluation, and audit entry of one mutation can never disagree.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
