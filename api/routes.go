package api

import (
	automationHandlers "backend/api/handlers/automation"
	calendarHandlers "backend/api/handlers/calendar"
	chatHandlers "backend/api/handlers/chat"
	dashboardHandlers "backend/api/handlers/dashboard"
	sessionHandlers "backend/api/handlers/session"
	trackingHandlers "backend/api/handlers/tracking"
	workflowHandlers "backend/api/handlers/workflows"

	"github.com/gin-gonic/gin"
)

// routeHandlers 各域 Handler 集合
type routeHandlers struct {
	automation *automationHandlers.Handler
	workflows  *workflowHandlers.Handler
	chat       *chatHandlers.Handler
	dashboard  *dashboardHandlers.Handler
	session    *sessionHandlers.Handler
	calendar   *calendarHandlers.Handler
	tracking   *trackingHandlers.Handler
}

// registerRoutes 挂载 /api 下的全部业务路由
func registerRoutes(apiGroup *gin.RouterGroup, h *routeHandlers) {
	// 自动化执行
	automation := apiGroup.Group("/automation")
	{
		automation.POST("/execute", h.automation.Execute)
		automation.GET("/services", h.automation.Services)
	}

	// 工作流管理，/templates 需注册在 /:id 之前
	workflows := apiGroup.Group("/workflows")
	{
		workflows.GET("/templates", h.workflows.Templates)
		workflows.POST("", h.workflows.Create)
		workflows.GET("", h.workflows.List)
		workflows.GET("/:id", h.workflows.Get)
		workflows.PUT("/:id", h.workflows.Update)
		workflows.DELETE("/:id", h.workflows.Delete)
		workflows.POST("/:id/execute", h.workflows.Execute)
	}

	// AI 聊天
	chat := apiGroup.Group("/chat")
	{
		chat.POST("", h.chat.Chat)
		chat.POST("/generate-workflow", h.chat.GenerateWorkflow)
		chat.GET("/usage", h.chat.Usage)
	}

	// 仪表盘
	dashboard := apiGroup.Group("/dashboard")
	{
		dashboard.GET("/metrics", h.dashboard.Metrics)
		dashboard.GET("/charts", h.dashboard.Charts)
		dashboard.GET("/activity", h.dashboard.ActivityFeed)
	}

	// 演示会话
	apiGroup.POST("/session", h.session.Create)
	apiGroup.GET("/session/:id", h.session.Get)

	// Google Calendar OAuth
	calendar := apiGroup.Group("/calendar")
	{
		calendar.GET("/auth-url", h.calendar.AuthURL)
		calendar.GET("/callback", h.calendar.Callback)
		calendar.POST("/revoke", h.calendar.Revoke)
	}

	// 站点行为统计
	apiGroup.POST("/track", h.tracking.Track)
	apiGroup.POST("/feedback", h.tracking.SubmitFeedback)
	apiGroup.GET("/feedback", h.tracking.ListFeedback)
	apiGroup.POST("/newsletter", h.tracking.Subscribe)
	apiGroup.GET("/newsletter/subscribers", h.tracking.ListSubscribers)
	apiGroup.GET("/analytics/summary", h.tracking.Summary)
}
