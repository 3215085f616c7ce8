package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"FinAI_Community/internal/handler"
	"FinAI_Community/internal/metrics"
	"FinAI_Community/internal/middleware"
	"FinAI_Community/internal/model"
)

// Deps 路由需要的全部处理器
type Deps struct {
	Auth        middleware.Authenticator
	AdminKey    string
	CORSOrigin  string
	User        *handler.UserHandler
	Community   *handler.CommunityHandler
	Message     *handler.MessageHandler
	Application *handler.ApplicationHandler
	News        *handler.NewsHandler
	WS          *handler.WSHandler
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics(), middleware.CORS(d.CORSOrigin))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1")
	auth := middleware.AuthMiddleware(d.Auth)
	reviewer := middleware.RequireRole(model.RoleReviewer)

	// 用户相关接口
	userGroup := api.Group("/users")
	{
		userGroup.POST("/register", d.User.Register)
		userGroup.POST("/login", d.User.Login)
		userGroup.POST("/refresh-token", d.User.RefreshToken)
		userGroup.POST("/logout", auth, d.User.Logout)
		userGroup.GET("/current-user", auth, d.User.CurrentUser)
		userGroup.POST("/change-password", auth, d.User.ChangePassword)
	}

	// 管理接口
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminKey(d.AdminKey))
	{
		adminGroup.POST("/users/:id/verify", d.User.Verify)
		adminGroup.GET("/users", d.User.List)
		adminGroup.DELETE("/users/:id", d.User.Delete)
	}

	// 社区相关接口
	communityGroup := api.Group("/communities")
	communityGroup.Use(auth)
	{
		communityGroup.POST("/create", reviewer, d.Community.Create)
		communityGroup.GET("", d.Community.List)
		communityGroup.GET("/:id", d.Community.Get)
		communityGroup.POST("/:id/join", d.Community.Join)
		communityGroup.POST("/:id/add-user", d.Community.AddMember)
		communityGroup.POST("/:id/leave", d.Community.Leave)
	}

	// 消息相关接口
	messageGroup := api.Group("/messages")
	messageGroup.Use(auth)
	{
		messageGroup.POST("/:id/send", d.Message.Send)
		messageGroup.GET("/:id/messages", d.Message.List)
	}

	// 融资申请相关接口
	applicationGroup := api.Group("/application")
	applicationGroup.Use(auth)
	{
		applicationGroup.POST("/submit", d.Application.Submit)
		applicationGroup.GET("/user", d.Application.ListMine)
		applicationGroup.GET("/all", reviewer, d.Application.ListAll)
		applicationGroup.PATCH("/:id/status", reviewer, d.Application.UpdateStatus)
		applicationGroup.DELETE("/:id", d.Application.Delete)
	}

	api.GET("/scrape/news", d.News.Scrape)
	api.POST("/chatbot/ask", d.News.Ask)
	api.GET("/ws", auth, d.WS.Serve)

	return r
}
