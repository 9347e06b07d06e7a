package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ardenlim/stockpoint/internal/auth"
	"github.com/ardenlim/stockpoint/internal/core/domain"
)

const claimsContextKey = "authClaims"

// AuthRequired rejects requests without a valid bearer token. A 401 here
// is the authorization-expired signal: clients clear their session on it.
func AuthRequired(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const bearer = "Bearer "
		if !strings.HasPrefix(header, bearer) {
			respondError(c, http.StatusUnauthorized, CodeUnauthenticated, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := tokens.Validate(header[len(bearer):])
		if err != nil {
			respondError(c, http.StatusUnauthorized, CodeUnauthenticated, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireRoles gates a route group to the given roles. Distinct from a
// 401: the session stays valid, the actor just lacks the capability.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil || !allowed[domain.Role(claims.Role)] {
			respondError(c, http.StatusForbidden, CodeForbidden, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
