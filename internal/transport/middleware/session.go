package middleware

import (
	"net/http"

	"github.com/frahmantamala/budget-ledger/internal"
	"github.com/frahmantamala/budget-ledger/pkg/logger"
	"github.com/go-chi/chi"
)

// SessionParam is the route parameter naming the session.
const SessionParam = "sessionID"

// SessionContext copies the session id from the route into the request
// context and the request logger.
func SessionContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, SessionParam)

		ctx := internal.ContextWithSessionID(r.Context(), sessionID)
		ctx = logger.With(ctx, "session_id", sessionID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
