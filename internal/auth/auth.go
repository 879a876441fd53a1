package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidToken = errors.New("invalid admin token")

type Claims struct {
	Subject string
	IsAdmin bool
}

const claimsContextKey = "auth_claims"

// Authenticator guards the admin API with a single static token, compared
// either against a bcrypt hash or in constant time against the plain value.
type Authenticator struct {
	adminToken string
	adminHash  []byte

	// bcrypt is slow; remember digests of tokens that already matched.
	verified sync.Map
}

func NewAuthenticator(adminToken, adminTokenBcrypt string) *Authenticator {
	a := &Authenticator{adminToken: adminToken}
	if strings.TrimSpace(adminTokenBcrypt) != "" {
		a.adminHash = []byte(strings.TrimSpace(adminTokenBcrypt))
	}
	return a
}

func (a *Authenticator) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractToken(c.Request())
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing admin token")
		}

		claims, err := a.Authenticate(c.Request().Context(), token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid admin token")
		}
		c.Set(claimsContextKey, claims)

		return next(c)
	}
}

func (a *Authenticator) Authenticate(_ context.Context, token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrInvalidToken
	}
	digest := sha256.Sum256([]byte(token))
	if _, ok := a.verified.Load(digest); ok {
		return adminClaims(), nil
	}

	switch {
	case len(a.adminHash) > 0:
		if err := bcrypt.CompareHashAndPassword(a.adminHash, []byte(token)); err != nil {
			return Claims{}, ErrInvalidToken
		}
	case a.adminToken != "":
		if subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) != 1 {
			return Claims{}, ErrInvalidToken
		}
	default:
		return Claims{}, ErrInvalidToken
	}

	a.verified.Store(digest, struct{}{})
	return adminClaims(), nil
}

func adminClaims() Claims {
	return Claims{Subject: "admin", IsAdmin: true}
}

func GetClaims(c echo.Context) (Claims, bool) {
	raw := c.Get(claimsContextKey)
	if raw == nil {
		return Claims{}, false
	}
	claims, ok := raw.(Claims)
	return claims, ok
}

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	return ""
}

// ExtractToken prefers the bearer header and falls back to X-API-Token.
func ExtractToken(r *http.Request) string {
	return extractToken(r)
}

func extractToken(r *http.Request) string {
	if token := BearerToken(r); token != "" {
		return token
	}
	return strings.TrimSpace(r.Header.Get("X-API-Token"))
}
