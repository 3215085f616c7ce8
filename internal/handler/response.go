package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"FinAI_Community/internal/middleware"
	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

func respond(c *gin.Context, status int, msg string, data any) {
	body := gin.H{"code": 0, "msg": msg}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// fail 统一错误出口，内部错误只记日志不外泄
func fail(c *gin.Context, err error) {
	kind := pkg.KindOf(err)
	status := pkg.HTTPStatus(kind)
	msg := err.Error()
	if kind == pkg.KindInternal {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "err", err)
		msg = "internal server error"
	}
	var appErr *pkg.AppError
	if errors.As(err, &appErr) && kind != pkg.KindInternal {
		msg = appErr.Msg
	}
	c.JSON(status, gin.H{"code": 1, "msg": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": msg})
}

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func userIDFromCtx(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(middleware.ContextUserIDKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": 1, "msg": "unauthorized"})
		return 0, false
	}
	id, ok := v.(uint64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": 1, "msg": "unauthorized"})
		return 0, false
	}
	return id, true
}

func roleFromCtx(c *gin.Context) model.Role {
	return model.Role(c.GetString(middleware.ContextRoleKey))
}
