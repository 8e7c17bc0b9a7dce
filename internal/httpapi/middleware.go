package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/mandalnilabja/BrowserOS/internal/auth"
)

type contextKey string

// SubjectKey carries the authenticated token subject through the request
// context.
const SubjectKey contextKey = "subject"

// jwtMiddleware validates bearer tokens on protected read endpoints.
func jwtMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				respondWithError(w, http.StatusUnauthorized, "Missing authentication token")
				return
			}
			tokenString = strings.TrimPrefix(tokenString, "Bearer ")

			subject, err := auth.ValidateJWT(tokenString, secret)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
