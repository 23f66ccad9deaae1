package api

import (
	"time"

	automationHandlers "backend/api/handlers/automation"
	calendarHandlers "backend/api/handlers/calendar"
	chatHandlers "backend/api/handlers/chat"
	dashboardHandlers "backend/api/handlers/dashboard"
	sessionHandlers "backend/api/handlers/session"
	trackingHandlers "backend/api/handlers/tracking"
	workflowHandlers "backend/api/handlers/workflows"

	"backend/internal/ai"
	"backend/internal/analytics"
	"backend/internal/auth"
	"backend/internal/automation"
	"backend/internal/budget"
	"backend/internal/calendar"
	"backend/internal/config"
	"backend/internal/email"
	"backend/internal/metrics"
	middlewarepkg "backend/internal/middleware"
	"backend/internal/session"
	"backend/internal/tracking"
	"backend/internal/worker"
	"backend/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Services 路由背后的服务集合，供 main 做生命周期管理
type Services struct {
	Session   *session.Service
	Persister *worker.Persister
	Limiter   *middlewarepkg.RateLimiter
}

// SetupRouter 组装服务与路由，返回 Gin 路由和需要随进程收尾的服务
func SetupRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, *Services) {
	router := gin.New()

	// 预算闸门先于各付费渠道客户端创建
	tokenBudget := budget.NewTokenBudget(cfg.Budget.OpenAIMonthlyUSD)
	sendBudget := budget.NewSendBudget(cfg.Budget.SendGridDailyLimit)

	// 渠道客户端
	emailClient := email.NewClient(cfg.SendGrid, sendBudget)
	calendarClient := calendar.NewClient(cfg.Google)
	aiClient := ai.NewClient(cfg.OpenAI, tokenBudget)

	// 结果写后队列与调度器
	persister := worker.NewPersister(db, 0)
	dispatcher := automation.NewDispatcher(emailClient, calendarClient, persister)

	// 业务服务
	workflowService := workflow.NewService(db, cfg.Demo.MaxWorkflowSteps)
	workflowEngine := workflow.NewEngine(db)
	sessionService := session.NewService(db, cfg.Demo.SessionDuration(), cfg.Demo.RetentionDays)
	analyticsService := analytics.NewService(db)
	trackingService := tracking.NewService(db)

	// 认证服务：令牌无效时仍按匿名放行
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// 限流器
	limiter := middlewarepkg.NewRateLimiter(&middlewarepkg.RateLimiterConfig{
		MaxRequests:     cfg.RateLimit.MaxRequests,
		Window:          time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
		CleanupInterval: 5 * time.Minute,
	})

	// 全局中间件
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger())
	router.Use(CORS(cfg.Server.AllowedOrigins))
	router.Use(metrics.PrometheusMiddleware())

	// 公开端点
	router.GET("/", APIInfo())
	router.GET("/health", HealthCheck())
	router.GET("/ready", ReadinessCheck(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Handlers
	handlers := &routeHandlers{
		automation: automationHandlers.NewHandler(dispatcher),
		workflows:  workflowHandlers.NewHandler(workflowService, workflowEngine),
		chat:       chatHandlers.NewHandler(aiClient),
		dashboard:  dashboardHandlers.NewHandler(analyticsService, emailClient, aiClient),
		session:    sessionHandlers.NewHandler(sessionService),
		calendar:   calendarHandlers.NewHandler(calendarClient),
		tracking:   trackingHandlers.NewHandler(trackingService),
	}

	apiGroup := router.Group("/api")
	apiGroup.Use(
		middlewarepkg.RateLimitMiddleware(limiter),
		auth.OptionalAuthMiddleware(jwtService),
	)
	registerRoutes(apiGroup, handlers)

	return router, &Services{
		Session:   sessionService,
		Persister: persister,
		Limiter:   limiter,
	}
}
