package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hongminglow/taskboard/internal/apperr"
	"github.com/hongminglow/taskboard/internal/auth"
	"github.com/hongminglow/taskboard/internal/http/respond"
	"github.com/hongminglow/taskboard/internal/models"
)

// TokenCookie is the cookie carrying the access token.
const TokenCookie = "token"

// Authenticator turns a raw token into a live principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Principal, error)
}

// Authenticate requires a valid token and stores the principal on the request context.
// The cookie is checked before the Authorization header.
func Authenticate(authn Authenticator, rw *respond.Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				rw.Fail(w, r, apperr.Unauthorized("Authentication required. Please log in."))
				return
			}
			principal, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				rw.Fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
