package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"adoption-server/internal/schemas"
	"adoption-server/internal/utils"
)

// RequireAdmin rejects the request with Forbidden unless the validated JWT
// claims carry the admin role. It runs before any store access.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := c.Value(utils.ClaimsKey.String()).(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
			return
		}

		role, _ := claims["role"].(string)
		if role != schemas.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, &schemas.ErrorDTO{Error: *schemas.Forbidden})
			return
		}

		c.Next()
	}
}
