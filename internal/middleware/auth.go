package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"FinAI_Community/internal/pkg"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "role"
)

// Authenticator 校验 access token，由 UserService 实现
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*pkg.Claims, error)
}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 1, "msg": "missing authorization token"})
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			status := pkg.HTTPStatus(pkg.KindOf(err))
			msg := err.Error()
			if status == http.StatusInternalServerError {
				msg = "internal server error"
			}
			c.AbortWithStatusJSON(status, gin.H{"code": 1, "msg": msg})
			return
		}

		// 注入 user_id 和角色
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

// extractToken 依次从 Authorization 头、token 参数、accessToken cookie 中取
func extractToken(c *gin.Context) (string, bool) {
	// 非 Bearer 的 Authorization 头忽略，继续尝试后两个来源
	if parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		if t := strings.TrimSpace(parts[1]); t != "" {
			return t, true
		}
	}
	if t := c.Query("token"); t != "" {
		return t, true
	}
	if t, err := c.Cookie("accessToken"); err == nil && t != "" {
		return t, true
	}
	return "", false
}
