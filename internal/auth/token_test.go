package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Presence/internal/domain"
)

const testSecret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJWTVerifier_Verify(t *testing.T) {
	v, err := NewJWTVerifier(testSecret, "")
	require.NoError(t, err)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("should accept an issued token", func(t *testing.T) {
		req := require.New(t)
		tok, err := v.Issue("u1", "Alice", time.Minute)
		req.NoError(err)

		id, err := v.Verify(ctx, tok)
		req.NoError(err)
		req.Equal(domain.Identity{ID: "u1", DisplayName: "Alice"}, id)
	})

	t.Run("should strip a bearer prefix", func(t *testing.T) {
		req := require.New(t)
		tok, err := v.Issue("u1", "Alice", time.Minute)
		req.NoError(err)

		id, err := v.Verify(ctx, "Bearer "+tok)
		req.NoError(err)
		req.Equal(domain.UserID("u1"), id.ID)
	})

	t.Run("should accept a numeric user id", func(t *testing.T) {
		req := require.New(t)
		tok := sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"userId": 42, "exp": exp})

		id, err := v.Verify(ctx, tok)
		req.NoError(err)
		req.Equal(domain.UserID("42"), id.ID)
		req.Equal("42", id.DisplayName, "name falls back to the id")
	})

	t.Run("should fall back to the subject", func(t *testing.T) {
		req := require.New(t)
		tok := sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"sub": "u9", "name": "Nine", "exp": exp})

		id, err := v.Verify(ctx, tok)
		req.NoError(err)
		req.Equal(domain.Identity{ID: "u9", DisplayName: "Nine"}, id)
	})

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "expired",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"userId": "u1", "exp": time.Now().Add(-time.Minute).Unix()})
			},
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, "other", jwt.MapClaims{"userId": "u1", "exp": exp})
			},
		},
		{
			name: "wrong algorithm",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS512, testSecret, jwt.MapClaims{"userId": "u1", "exp": exp})
			},
		},
		{
			name: "no expiry",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"userId": "u1"})
			},
		},
		{
			name: "no identity",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"name": "ghost", "exp": exp})
			},
		},
		{
			name: "identity too long",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"userId": strings.Repeat("x", 65), "exp": exp})
			},
		},
		{
			name:  "garbage",
			token: func(*testing.T) string { return "not-a-jwt" },
		},
	}
	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			_, err := v.Verify(ctx, tt.token(t))
			require.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}

func TestJWTVerifier_Issuer(t *testing.T) {
	req := require.New(t)
	v, err := NewJWTVerifier(testSecret, "kanban-api")
	req.NoError(err)

	tok, err := v.Issue("u1", "", time.Minute)
	req.NoError(err)
	_, err = v.Verify(context.Background(), tok)
	req.NoError(err)

	foreign := sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"userId": "u1", "iss": "elsewhere", "exp": time.Now().Add(time.Hour).Unix()})
	_, err = v.Verify(context.Background(), foreign)
	req.ErrorIs(err, domain.ErrUnauthenticated)
}

func TestNewJWTVerifier_EmptySecret(t *testing.T) {
	_, err := NewJWTVerifier("", "")
	require.ErrorIs(t, err, ErrEmptySecret)
}
