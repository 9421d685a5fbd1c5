package api

import (
	"github.com/LENAX/plan-engine/pkg/api/handler"
	"github.com/LENAX/plan-engine/pkg/api/middleware"
	"github.com/LENAX/plan-engine/pkg/core/engine"
	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter(eng *engine.Engine, version string) *gin.Engine {
	// 设置gin模式
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// 全局中间件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	// 创建handlers
	projectHandler := handler.NewProjectHandler(eng)
	scheduleHandler := handler.NewScheduleHandler(eng)
	todoHandler := handler.NewTodoHandler(eng)
	healthHandler := handler.NewHealthHandler(version)
	feed := NewScheduleFeed(eng)

	// 健康检查路由（不带前缀）
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 路由组
	v1 := router.Group("/api/v1")
	{
		// 无状态调度计算
		v1.POST("/schedule", scheduleHandler.Compute)

		// 调度事件实时推送
		v1.GET("/ws", feed.Serve)

		// Project路由
		projects := v1.Group("/projects")
		{
			projects.GET("", projectHandler.List)
			projects.POST("", projectHandler.Create)
			projects.GET("/:id", projectHandler.Get)
			projects.PUT("/:id", projectHandler.Update)
			projects.DELETE("/:id", projectHandler.Delete)
			projects.POST("/:id/schedule", projectHandler.Schedule)
			projects.GET("/:id/graph", projectHandler.Graph)
			projects.POST("/:id/export-todos", projectHandler.ExportTodos)
		}

		// Todo路由
		todos := v1.Group("/todos")
		{
			todos.GET("", todoHandler.List)
			todos.POST("", todoHandler.Create)
			todos.GET("/:id", todoHandler.Get)
			todos.PUT("/:id", todoHandler.Update)
			todos.DELETE("/:id", todoHandler.Delete)
			todos.POST("/:id/complete", todoHandler.Complete)
		}
	}

	return router
}
