package router

import (
	"time"

	"kas/api"
	"kas/config"
	_ "kas/docs"
	"kas/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.LoginRateLimit(5, time.Minute), authHandler.Login)
		}

		// 需要 JWT 认证的路由，角色规则统一由 RolePermission 判定
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(), middleware.RolePermission())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)

			// 交易记录
			transactionHandler := api.NewTransactionHandler()
			transactions := authorized.Group("/transactions")
			{
				transactions.POST("", transactionHandler.Create)
				transactions.GET("", transactionHandler.List)
				transactions.GET("/:id", transactionHandler.Get)
				transactions.PUT("/:id", transactionHandler.Update)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			// 收支类别
			categoryHandler := api.NewCategoryHandler()
			categories := authorized.Group("/categories")
			{
				categories.GET("", categoryHandler.List)
				categories.GET("/:id", categoryHandler.Get)
				categories.POST("", categoryHandler.Create)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
			}

			// 公告
			announcementHandler := api.NewAnnouncementHandler(cfg)
			announcements := authorized.Group("/announcements")
			{
				announcements.GET("", announcementHandler.List)
				announcements.GET("/active", announcementHandler.ListActive)
				announcements.POST("", announcementHandler.Create)
				announcements.PUT("/:id", announcementHandler.Update)
				announcements.DELETE("/:id", announcementHandler.Delete)
			}

			// 项目
			projectHandler := api.NewProjectHandler()
			projects := authorized.Group("/projects")
			{
				projects.GET("", projectHandler.List)
				projects.GET("/:id", projectHandler.Get)
				projects.POST("", projectHandler.Create)
				projects.PUT("/:id", projectHandler.Update)
				projects.DELETE("/:id", projectHandler.Delete)
			}

			// 成员管理（仅管理员，见 middleware.RolePermission 规则）
			userHandler := api.NewUserHandler()
			users := authorized.Group("/users")
			{
				users.GET("", userHandler.List)
				users.POST("", userHandler.Upsert)
				users.PUT("/:id/role", userHandler.UpdateRole)
				users.PUT("/:id/status", userHandler.ToggleStatus)
			}

			// 仪表盘
			dashboardHandler := api.NewDashboardHandler()
			authorized.GET("/dashboard/stats", dashboardHandler.GetStats)

			// 导出
			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/excel", exportHandler.ExportExcel)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
