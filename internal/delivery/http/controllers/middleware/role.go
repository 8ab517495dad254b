package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles aborts unless the token carries at least one of the wanted
// roles.
func RequireRoles(wanted ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ClientRolesCtx)
		if !exists {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		roles, ok := v.([]string)
		if !ok {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		for _, want := range wanted {
			for _, have := range roles {
				if want == have {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatus(http.StatusForbidden)
	}
}
