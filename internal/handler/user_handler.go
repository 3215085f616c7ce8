package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
	"FinAI_Community/internal/service"
)

type UserService interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, userID uint64) error
	Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error)
	Current(ctx context.Context, userID uint64) (*service.CurrentUser, error)
	ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error
	Verify(ctx context.Context, userID uint64) (*model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	Delete(ctx context.Context, userID uint64) error
}

type UserHandler struct {
	svc UserService
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register 注册接口，注册后需管理员审核才能登录
func (h *UserHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "user registered, verification pending", user)
}

// Login 登录接口
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	setTokenCookies(c, res.Pair)
	respond(c, http.StatusOK, "user logged in", gin.H{
		"user":         res.User,
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return
	}
	if err := h.svc.Logout(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}
	c.SetCookie("accessToken", "", -1, "/", "", false, true)
	c.SetCookie("refreshToken", "", -1, "/", "", false, true)
	respond(c, http.StatusOK, "user logged out", nil)
}

// RefreshToken 利用 refresh 来更新 access，body 缺省时读 cookie
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req RefreshReq
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie("refreshToken")
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, err)
		return
	}
	setTokenCookies(c, pair)
	respond(c, http.StatusOK, "access token refreshed", pair)
}

func (h *UserHandler) CurrentUser(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return
	}
	cur, err := h.svc.Current(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "current user fetched", cur)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return
	}
	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "password changed, please login again", nil)
}

// Verify 管理员审核用户
func (h *UserHandler) Verify(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.svc.Verify(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "user verified", user)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.ListByRole(c.Request.Context(), model.Role(c.Query("role")))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "users fetched", users)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "user deleted", nil)
}

func setTokenCookies(c *gin.Context, pair *pkg.Pair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("accessToken", pair.AccessToken, int(pkg.AccessTTL.Seconds()), "/", "", false, true)
	c.SetCookie("refreshToken", pair.RefreshToken, int(pkg.RefreshTTL.Seconds()), "/", "", false, true)
}
