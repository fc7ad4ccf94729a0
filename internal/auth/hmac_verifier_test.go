package auth

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"sation/internal/domain"
	"sation/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-entropy"

func newTestVerifier(t *testing.T) JWTVerifier {
	t.Helper()
	v, err := NewHMACVerifier(testSecret, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return v
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims *models.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestHMACVerifier_RoundTrip(t *testing.T) {
	v := newTestVerifier(t)

	token, err := IssueHMACToken(testSecret, "user-1", time.Hour)
	require.NoError(t, err)

	claims, err := v.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.GetUserID())
}

func TestHMACVerifier_Rejects(t *testing.T) {
	v := newTestVerifier(t)
	now := time.Now()

	valid := func(mod func(c *models.Claims)) *models.Claims {
		c := &models.Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}}
		if mod != nil {
			mod(c)
		}
		return c
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("other"), valid(nil))},
		{"wrong algorithm", sign(t, jwt.SigningMethodHS512, []byte(testSecret), valid(nil))},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte(testSecret), valid(func(c *models.Claims) {
			c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
		}))},
		{"missing subject", sign(t, jwt.SigningMethodHS256, []byte(testSecret), valid(func(c *models.Claims) {
			c.Subject = ""
		}))},
		{"anonymous role", sign(t, jwt.SigningMethodHS256, []byte(testSecret), valid(func(c *models.Claims) {
			c.Role = "anon"
		}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.VerifyToken(tt.token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestNewHMACVerifier_EmptySecret(t *testing.T) {
	_, err := NewHMACVerifier("", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
