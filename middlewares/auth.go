package middlewares

import (
	"net/http"
	"slices"
	"strings"

	"frontdesk/pkg/resp"
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks the bearer token and, when roles are given,
// requires one of them.
func AuthMiddleware(secret string, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			resp.Abort(c, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		claims, err := utils.ParseToken(strings.TrimPrefix(h, "Bearer "), secret)
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		if len(requiredRoles) > 0 && !slices.Contains(requiredRoles, claims.Role) {
			resp.Abort(c, http.StatusForbidden, "forbidden")
			return
		}
		utils.SetClaims(c, claims)
		c.Next()
	}
}
