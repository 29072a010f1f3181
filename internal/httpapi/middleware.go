package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"checklists/internal/apperr"
	"checklists/internal/service"
)

type ctxKey struct{}

// requireUser rejects requests without a valid "Authorization: Bearer" token
// and stores the user id in the request context.
func requireUser(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				respondError(w, r, apperr.Unauthorized(apperr.CodeInvalidAccessToken, "missing access token"))
				return
			}
			userID, err := auth.Authenticate(r.Context(), strings.TrimSpace(token))
			if err != nil {
				respondError(w, r, err)
				return
			}
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user", userID)
			})
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
		})
	}
}

func userFrom(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}
