package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkeye/Presence/internal/domain"
)

var ErrEmptySecret = errors.New("jwt secret is empty")

// flexString accepts a JSON string or number, user ids come both ways.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// Claims is the payload of an identity token.
type Claims struct {
	UserID flexString `json:"userId,omitempty"`
	Name   string     `json:"name,omitempty"`
	Email  string     `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier checks HS256 tokens signed with a shared secret.
// It never consults a user store beyond the token itself.
type JWTVerifier struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

func NewJWTVerifier(secret, issuer string, opts ...jwt.ParserOption) (*JWTVerifier, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	popts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		popts = append(popts, jwt.WithIssuer(issuer))
	}
	popts = append(popts, opts...)
	return &JWTVerifier{
		secret: []byte(secret),
		issuer: issuer,
		parser: jwt.NewParser(popts...),
	}, nil
}

// Verify implements core.Verifier. The identity is the userId claim,
// falling back to sub; the name claim becomes the display name.
func (v *JWTVerifier) Verify(_ context.Context, credential string) (domain.Identity, error) {
	tokenStr := strings.TrimSpace(strings.TrimPrefix(credential, "Bearer "))

	var claims Claims
	token, err := v.parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, jwt.ErrSignatureInvalid)
	}

	uid := string(claims.UserID)
	if uid == "" {
		uid = claims.Subject
	}
	id, err := domain.NewIdentity(domain.UserID(uid), claims.Name)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	return id, nil
}

// Issue signs a token for userID. The presence service never issues
// tokens to clients; this serves tests and local tooling.
func (v *JWTVerifier) Issue(userID, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: flexString(userID),
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    v.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
