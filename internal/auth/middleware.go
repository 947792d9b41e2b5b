// Package auth guards the admin surface with HMAC-signed JWTs.
package auth

import (
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/b8shield/commerce-api/internal/common"
)

// Admin verifies bearer tokens for admin routes.
type Admin struct {
	Secret []byte
	Issuer string
}

// NewAdmin constructs the middleware.
func NewAdmin(secret, issuer string) *Admin {
	return &Admin{Secret: []byte(secret), Issuer: issuer}
}

// Middleware rejects requests without a valid admin token. The token
// must carry the configured issuer and a role claim of "admin"; the
// subject ends up in the request context for audit logging.
func (a *Admin) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "missing bearer token", nil)
			return
		}
		token, err := jwt.Parse([]byte(raw),
			jwt.WithKey(jwa.HS256, a.Secret),
			jwt.WithIssuer(a.Issuer),
			jwt.WithValidate(true),
		)
		if err != nil {
			common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "invalid token", nil)
			return
		}
		role, _ := token.Get("role")
		if s, ok := role.(string); !ok || s != "admin" {
			common.JSONError(w, http.StatusForbidden, common.CodeForbidden, "admin role required", nil)
			return
		}
		ctx := common.WithAdminSubject(r.Context(), token.Subject())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
