package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	svcErr "github.com/meteormate/backend/internal/errors"
)

// Identity is the verified caller extracted from an identity token.
// The id is the stable, provider-issued user id.
type Identity struct {
	UserID        string
	Email         string
	EmailVerified bool
}

// TokenVerifier abstracts the external identity provider. The backend
// never sees credentials, only opaque verified tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// JWTVerifier validates HS256 tokens minted by the identity provider.
// Claims: sub (user id), email, email_verified.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, raw string) (Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, svcErr.Unauthorized("invalid authentication token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, svcErr.Unauthorized("token missing subject")
	}

	email, _ := claims["email"].(string)
	verified, _ := claims["email_verified"].(bool)

	return Identity{UserID: sub, Email: email, EmailVerified: verified}, nil
}

// Issue mints a token for the given identity. Used by the seeder and
// tests; production tokens come from the identity provider itself.
func (v *JWTVerifier) Issue(ident Identity) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":            ident.UserID,
		"email":          ident.Email,
		"email_verified": ident.EmailVerified,
	})
	return token.SignedString(v.secret)
}
