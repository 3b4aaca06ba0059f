package handlers

import (
	"strings"

	"github.com/labstack/echo/v4"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
)

const identityContextKey = "identity"

// IdentityMiddleware resolves the bearer token to an Identity and stores it
// in the request context. A missing or unknown token is not an error here:
// the validator rejects unauthenticated bids with its own reason, and some
// endpoints are public.
func IdentityMiddleware(sessions domain.SessionStore, log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return next(c)
			}
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" {
				return next(c)
			}

			identity, err := sessions.Resolve(c.Request().Context(), token)
			if err != nil {
				log.Warn("Session lookup failed", "error", err)
				return next(c)
			}
			if identity != nil {
				c.Set(identityContextKey, identity)
			}

			return next(c)
		}
	}
}

// callerIdentity returns the resolved identity for the request, or nil for an
// anonymous caller.
func callerIdentity(c echo.Context) *domain.Identity {
	identity, _ := c.Get(identityContextKey).(*domain.Identity)
	return identity
}
