package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

func init() { gin.SetMode(gin.TestMode) }

type tokenTable map[string]*pkg.Claims

func (t tokenTable) Authenticate(_ context.Context, token string) (*pkg.Claims, error) {
	if c, ok := t[token]; ok {
		return c, nil
	}
	return nil, pkg.AuthError("invalid or expired token")
}

func newEngine() *gin.Engine {
	auth := AuthMiddleware(tokenTable{
		"member-token":   {UserID: 1, Role: string(model.RoleMember)},
		"reviewer-token": {UserID: 2, Role: string(model.RoleReviewer)},
	})
	r := gin.New()
	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint64(ContextUserIDKey)})
	}
	r.GET("/me", auth, ok)
	r.GET("/review", auth, RequireRole(model.RoleReviewer), ok)
	r.GET("/admin", AdminKey("s3cret"), ok)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthTokenSources(t *testing.T) {
	r := newEngine()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer member-token")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":1}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token member-token")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me?token=member-token", nil)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "member-token"})
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	// 非 Bearer 头不影响 cookie 和 query 参数
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "member-token"})
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me?token=reviewer-token", nil)
	req.Header.Set("Authorization", "Token junk")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":2}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer forged")
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":1`)
}

func TestRequireRole(t *testing.T) {
	r := newEngine()

	req := httptest.NewRequest(http.MethodGet, "/review", nil)
	req.Header.Set("Authorization", "Bearer member-token")
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/review", nil)
	req.Header.Set("Authorization", "Bearer reviewer-token")
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestAdminKey(t *testing.T) {
	r := newEngine()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(AdminKeyHeader, "s3cret")
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	disabled := gin.New()
	disabled.GET("/admin", AdminKey(""), func(c *gin.Context) { c.Status(http.StatusOK) })
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(AdminKeyHeader, "")
	assert.Equal(t, http.StatusForbidden, serve(disabled, req).Code)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://app.example.com"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
