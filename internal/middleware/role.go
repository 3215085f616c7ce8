package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"FinAI_Community/internal/model"
)

// RequireRole 必须挂在 AuthMiddleware 之后
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := model.Role(c.GetString(ContextRoleKey))
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": 1, "msg": "forbidden"})
	}
}
