package middlewares

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cognitoidp/internal/auth"
	"cognitoidp/internal/ratelimit"

	"github.com/labstack/echo/v4"
)

const adminPathPrefix = "/api/v1/admin"

type tokenVerifier interface {
	Authenticate(context.Context, string) (auth.Claims, error)
}

func NewRateLimitMiddleware(verifier tokenVerifier) echo.MiddlewareFunc {
	return newRateLimitMiddlewareWithConfig(verifier, ratelimit.Config{
		Window:   time.Minute,
		AuthIP:   30,
		AdminIP:  60,
		AdminKey: 600,
	})
}

func newRateLimitMiddlewareWithConfig(verifier tokenVerifier, cfg ratelimit.Config) echo.MiddlewareFunc {
	limiter := ratelimit.New(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scope, limited := requestScope(c.Request().URL.Path)
			if !limited {
				return next(c)
			}
			kind, bucket := resolveRateLimitBucket(c, scope, verifier)

			result := limiter.Take(time.Now().UTC(), scope, kind, bucket)
			setRateLimitHeaders(c.Response().Header(), result)

			if !result.Allowed {
				c.Response().Header().Set("Retry-After", strconv.FormatInt(result.ResetIn, 10))
				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"error": "rate limit exceeded",
				})
			}
			return next(c)
		}
	}
}

// requestScope reports the limiter scope for a path; health and metrics are not limited.
func requestScope(path string) (ratelimit.Scope, bool) {
	switch {
	case path == "/healthz" || path == "/metrics":
		return "", false
	case strings.HasPrefix(path, adminPathPrefix):
		return ratelimit.ScopeAdmin, true
	default:
		return ratelimit.ScopeAuth, true
	}
}

// resolveRateLimitBucket keys admin traffic by verified token subject. Auth
// traffic is always keyed by IP since its bearer tokens belong to end users.
func resolveRateLimitBucket(c echo.Context, scope ratelimit.Scope, verifier tokenVerifier) (ratelimit.BucketKind, string) {
	if scope == ratelimit.ScopeAdmin && verifier != nil {
		if token := auth.ExtractToken(c.Request()); token != "" {
			claims, err := verifier.Authenticate(c.Request().Context(), token)
			if err == nil {
				subject := strings.TrimSpace(claims.Subject)
				if subject != "" {
					return ratelimit.BucketKey, subject
				}
			}
		}
	}

	ip := strings.TrimSpace(c.RealIP())
	if ip == "" {
		ip = clientIPFromRemoteAddr(c.Request().RemoteAddr)
	}
	if ip == "" {
		ip = "unknown"
	}
	return ratelimit.BucketIP, ip
}

func setRateLimitHeaders(header http.Header, result ratelimit.Result) {
	limit := strconv.Itoa(result.Limit)
	remaining := strconv.Itoa(result.Remaining)
	resetEpoch := strconv.FormatInt(result.ResetAt, 10)
	resetDelay := strconv.FormatInt(result.ResetIn, 10)

	header.Set("X-RateLimit-Limit", limit)
	header.Set("X-RateLimit-Remaining", remaining)
	header.Set("X-RateLimit-Reset", resetEpoch)

	header.Set("RateLimit-Limit", limit)
	header.Set("RateLimit-Remaining", remaining)
	header.Set("RateLimit-Reset", resetDelay)
}

func clientIPFromRemoteAddr(remoteAddr string) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(remoteAddr))
	if err != nil {
		return strings.TrimSpace(remoteAddr)
	}
	return strings.TrimSpace(host)
}
