package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b8shield/commerce-api/internal/common"
)

const testIssuer = "b8shield-admin"

var testSecret = []byte("test-secret-key")

func signToken(t *testing.T, mutate func(*jwt.Builder) *jwt.Builder) string {
	t.Helper()
	builder := jwt.NewBuilder().
		Issuer(testIssuer).
		Subject("admin-1").
		Claim("role", "admin").
		Expiration(time.Now().Add(time.Hour))
	if mutate != nil {
		builder = mutate(builder)
	}
	token, err := builder.Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, testSecret))
	require.NoError(t, err)
	return string(signed)
}

func runMiddleware(t *testing.T, authHeader string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var subject string
	handler := NewAdmin(string(testSecret), testIssuer).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, _ = common.AdminSubject(r.Context())
			w.WriteHeader(http.StatusOK)
		}))
	req := httptest.NewRequest(http.MethodGet, "/admin/campaigns", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, subject
}

func TestAdminMiddlewareAcceptsValidToken(t *testing.T) {
	rec, subject := runMiddleware(t, "Bearer "+signToken(t, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin-1", subject)
}

func TestAdminMiddlewareRejectsMissingToken(t *testing.T) {
	rec, _ := runMiddleware(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminMiddlewareRejectsWrongIssuer(t *testing.T) {
	token := signToken(t, func(b *jwt.Builder) *jwt.Builder { return b.Issuer("someone-else") })
	rec, _ := runMiddleware(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminMiddlewareRejectsNonAdminRole(t *testing.T) {
	token := signToken(t, func(b *jwt.Builder) *jwt.Builder { return b.Claim("role", "viewer") })
	rec, _ := runMiddleware(t, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminMiddlewareRejectsExpiredToken(t *testing.T) {
	token := signToken(t, func(b *jwt.Builder) *jwt.Builder { return b.Expiration(time.Now().Add(-time.Minute)) })
	rec, _ := runMiddleware(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
