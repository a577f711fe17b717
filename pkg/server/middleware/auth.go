// Package middleware contains HTTP middleware for the API server.
package middleware

import (
	"net/http"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mizu-in-go/pkg/identity"
)

var bearerRegex = regexp.MustCompile(`^Bearer (\S+)$`)

// Claims are the token claims the gate cares about. The issuing SSO puts the
// stable username in preferred_username; that value keys the credit ledger.
type Claims struct {
	PreferredUsername string `json:"preferred_username"`
	jwt.RegisteredClaims
}

// TokenAuthenticator is middleware that validates bearer tokens
type TokenAuthenticator struct {
	secret []byte
}

// NewTokenAuthenticator creates a new bearer token middleware. secret is the
// HS256 key shared with the token issuer.
func NewTokenAuthenticator(secret []byte) *TokenAuthenticator {
	return &TokenAuthenticator{secret: secret}
}

// Middleware returns an HTTP middleware that validates bearer tokens and
// stores the resolved identity in the request context.
func (a *TokenAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Authorization missing"))
			return
		}

		tokenMatches := bearerRegex.FindStringSubmatch(authHeader)
		if len(tokenMatches) != 2 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Malformed authorization header"))
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(
			tokenMatches[1],
			claims,
			func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return a.secret, nil
			},
		)
		if err != nil || !token.Valid {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Invalid authorization token"))
			return
		}

		if claims.PreferredUsername == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Token missing preferred_username claim"))
			return
		}

		id := &identity.Identity{
			Username:  claims.PreferredUsername,
			IssuedAt:  numericDateTime(claims.IssuedAt),
			ExpiresAt: numericDateTime(claims.ExpiresAt),
		}

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

func numericDateTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
