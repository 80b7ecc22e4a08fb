package middleware

import (
	"strings"

	"quizhub/internal/domain"
	"quizhub/internal/logger"
	"quizhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Locals keys under which the authenticated identity is stored.
const (
	UserIDKey    = "userID"
	UserEmailKey = "userEmail"
	UserRoleKey  = "userRole"
)

// SessionCookieName is the cookie checked before the Authorization header.
const SessionCookieName = "session_token"

// TokenFromRequest looks for the session cookie first and falls back to the
// Authorization header. A "Bearer " prefix on the header value is stripped,
// with or without it the raw token is accepted.
func TokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies(SessionCookieName); cookie != "" {
		return cookie
	}
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return token
	}
	return header
}

// Protected returns a middleware that authenticates every request except the
// given public paths. All failure modes produce the same generic 401 so
// callers cannot distinguish a missing token from an expired or tampered one.
func Protected(authService service.AuthService, publicPaths map[string]bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if publicPaths[c.Path()] {
			return c.Next()
		}

		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			return domain.NewUnauthenticatedError("Authentication required")
		}

		claims, err := authService.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("Token validation failed",
				zap.String("path", c.Path()),
				zap.Error(err))
			return domain.NewUnauthenticatedError("Authentication required")
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(UserEmailKey, claims.Email)
		c.Locals(UserRoleKey, claims.Role)
		return c.Next()
	}
}

// RequireRole returns a middleware that rejects authenticated callers whose
// role differs from the required one. Requests that never passed Protected
// get a 401, not a 403.
func RequireRole(requiredRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(UserRoleKey).(string)
		if !ok || role == "" {
			return domain.NewUnauthenticatedError("Authentication required")
		}
		if role != requiredRole {
			logger.Get().Warn("Role check failed",
				zap.String("path", c.Path()),
				zap.String("requiredRole", requiredRole),
				zap.String("role", role))
			return domain.NewForbiddenError(requiredRole)
		}
		return c.Next()
	}
}

// GetUserID reads the authenticated user's id from locals. The empty string
// means the request skipped authentication.
func GetUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(UserIDKey).(string)
	return userID
}
