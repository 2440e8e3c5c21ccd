package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casbin/casbin/v2"

	"github.com/hongminglow/taskboard/internal/apperr"
	"github.com/hongminglow/taskboard/internal/auth"
	"github.com/hongminglow/taskboard/internal/http/respond"
)

// Authorize checks the principal's role against the casbin policy for obj.
// GET and HEAD count as reads, everything else as writes.
func Authorize(enforcer casbin.IEnforcer, rw *respond.Writer, obj string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				rw.Fail(w, r, apperr.Unauthorized("Authentication required"))
				return
			}

			act := auth.ActionWrite
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				act = auth.ActionRead
			}

			allowed, err := enforcer.Enforce(string(principal.Role), obj, act)
			if err != nil {
				rw.Fail(w, r, apperr.Internal("authorization check failed", err))
				return
			}
			if !allowed {
				roles := strings.Join(auth.RolesFor(enforcer, obj, act), ", ")
				rw.Fail(w, r, apperr.Forbidden(fmt.Sprintf("Access denied. Required roles: %s", roles)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
