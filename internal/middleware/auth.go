package middleware

import (
	"net/http"

	apperrors "github.com/guncad/market-server-go/internal/errors"
)

// RequireIdentity rejects API calls that arrive without a signed-in user.
// Page routes are redirected by the gate instead.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetIdentity(r.Context()) == nil {
			writeError(w, apperrors.Unauthorized("Not signed in"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
