package pkgrouter

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgauth"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgerror"
)

// TokenVerifier validates a bearer token and returns the user id it names.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// MiddlewareAuth rejects requests without a valid bearer token and stores the
// resolved user id in the request context (see pkgauth.GetUserID).
func MiddlewareAuth(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeError(w, pkgerror.NewUnauthorized("authorization token required"))
				return
			}

			userID, err := v.Verify(token)
			if err != nil {
				slog.WarnContext(r.Context(), "rejected bearer token", "error", err)
				writeError(w, pkgerror.NewUnauthorized("invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(pkgauth.SetUserID(r.Context(), userID)))
		})
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
