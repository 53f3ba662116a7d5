package router

import (
	"strings"

	"github.com/swipefolio/landing-api/pkg/auth"
	apperrors "github.com/swipefolio/landing-api/pkg/errors"
)

const ClaimsContextKey = "auth_claims"

// RequireRole accepts only requests carrying a valid bearer token whose role is in roles.
func RequireRole(issuer *auth.TokenIssuer, roles ...string) MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *RequestContext) {
		logger := GetLogger(c)

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortWithError(c, apperrors.NewUnauthorizedError("Authentication required", nil))
			return
		}

		claims, err := issuer.ParseValidate(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			logger.Warn("Rejected bearer token", "error", err)
			abortWithError(c, apperrors.NewUnauthorizedError("Invalid or expired token", err))
			return
		}

		if _, ok := allowed[claims.Role]; !ok {
			logger.Warn("Bearer token lacks required role", "role", claims.Role, "subject", claims.Subject)
			abortWithError(c, apperrors.NewForbiddenError("Insufficient permissions", nil))
			return
		}

		c.Set(ClaimsContextKey, claims)
		c.Next()
	}
}

func abortWithError(c *RequestContext, err error) {
	result := ErrorResultFromError(err)
	c.AbortWithStatusJSON(result.StatusCode, result.ToJSON())
}
