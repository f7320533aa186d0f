package middleware

import (
	"net/http"
	"strings"

	"github.com/draftie/storyboard-api/pkg/services"
	"github.com/draftie/storyboard-api/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Gin context key for storing user claims.
const UserClaimsContextKey = "userClaims"

// SessionCookieName is the HttpOnly cookie carrying the session token.
const SessionCookieName = "session"

// AuthMiddleware authenticates requests via the session cookie or an
// Authorization: Bearer header (for API clients).
func AuthMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			log.Debug("AuthMiddleware: No session cookie or Authorization header.")
			utils.ResponseWithError(c, http.StatusUnauthorized, "Authentication required", nil)
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			log.Debugf("AuthMiddleware: Invalid or expired token: %v", err)
			utils.ResponseWithError(c, http.StatusUnauthorized, "Invalid or expired session", nil)
			c.Abort()
			return
		}

		c.Set(UserClaimsContextKey, claims)
		log.Debugf("AuthMiddleware: User %s (ID: %s) authenticated.", claims.Username, claims.UserID.String())
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// GetUserClaimsFromContext extracts user claims from the Gin context.
func GetUserClaimsFromContext(c *gin.Context) (*services.Claims, bool) {
	claims, exists := c.Get(UserClaimsContextKey)
	if !exists {
		return nil, false
	}
	userClaims, ok := claims.(*services.Claims)
	if !ok {
		return nil, false
	}
	return userClaims, true
}
