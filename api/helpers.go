package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ReadinessResponse 就绪检查响应
type ReadinessResponse struct {
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
	Database string `json:"database,omitempty"`
}

// HealthCheck 健康检查，可供监控探针使用
func HealthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "DemoPortal",
		})
	}
}

// APIInfo 根路径的 API 概览，便于手工探索
func APIInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":        "DemoPortal API",
			"version":     "1.0.0",
			"description": "Backend API for the DemoPortal interactive demo",
			"endpoints": gin.H{
				"health":     "GET /health",
				"automation": "POST /api/automation/execute, GET /api/automation/services",
				"workflows":  "GET|POST|PUT|DELETE /api/workflows",
				"chat":       "POST /api/chat",
				"dashboard":  "GET /api/dashboard/metrics, GET /api/dashboard/charts",
				"session":    "POST|GET /api/session",
				"calendar":   "GET /api/calendar/auth-url, GET /api/calendar/callback",
			},
		})
	}
}

// ReadinessCheck 就绪检查，包含数据库连通性结果
func ReadinessCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(503, gin.H{
				"status": "not_ready",
				"reason": "database connection error",
			})
			return
		}

		if err := sqlDB.Ping(); err != nil {
			c.JSON(503, gin.H{
				"status": "not_ready",
				"reason": "database ping failed",
			})
			return
		}

		c.JSON(200, gin.H{
			"status":   "ready",
			"database": "connected",
		})
	}
}
