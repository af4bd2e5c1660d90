package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// SupabaseClaims are the fields read from a Supabase Auth access token.
// Subject is the auth user id.
type SupabaseClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`

	jwtlib.RegisteredClaims
}

// SupabaseVerifier checks access tokens signed with the project's JWT secret.
type SupabaseVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewSupabaseVerifier(secret string) *SupabaseVerifier {
	return &SupabaseVerifier{secret: []byte(secret), now: time.Now}
}

func (v *SupabaseVerifier) Verify(tokenString string) (SupabaseClaims, error) {
	if len(v.secret) == 0 {
		return SupabaseClaims{}, ErrTokenInvalid
	}
	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(v.now),
	)

	var c SupabaseClaims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return SupabaseClaims{}, ErrTokenExpired
		}
		return SupabaseClaims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid || strings.TrimSpace(c.Subject) == "" {
		return SupabaseClaims{}, ErrTokenInvalid
	}
	return c, nil
}
