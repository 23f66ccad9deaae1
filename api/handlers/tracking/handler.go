package tracking

import (
	"net/http"
	"strconv"
	"strings"

	"backend/internal/tracking"

	"github.com/gin-gonic/gin"
)

// Handler 站点行为统计 Handler
// 历史原因，本组接口不走统一响应包裹，返回扁平 JSON
type Handler struct {
	service *tracking.Service
}

// NewHandler 创建 Handler 实例
func NewHandler(service *tracking.Service) *Handler {
	return &Handler{service: service}
}

// Track 事件上报
// 埋点失败不影响前端体验，除参数错误外一律返回 200
func (h *Handler) Track(c *gin.Context) {
	var req tracking.TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}

	if err := h.service.TrackEvent(c.Request.Context(), &req, clientIP(c)); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "stored": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stored": true})
}

// SubmitFeedback 提交反馈
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req tracking.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SubmitFeedback(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Feedback received!"})
}

// ListFeedback 查询反馈列表
func (h *Handler) ListFeedback(c *gin.Context) {
	feedback, err := h.service.ListFeedback(c.Request.Context(), c.Query("status"), queryInt(c, "limit"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}

// Subscribe 订阅邮件通讯
func (h *Handler) Subscribe(c *gin.Context) {
	var req tracking.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.service.Subscribe(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// ListSubscribers 查询订阅列表
func (h *Handler) ListSubscribers(c *gin.Context) {
	subscribers, err := h.service.ListSubscribers(c.Request.Context(), c.Query("status"), queryInt(c, "limit"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscribers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscribers": subscribers, "count": len(subscribers)})
}

// Summary 统计摘要
func (h *Handler) Summary(c *gin.Context) {
	report, err := h.service.Summarize(c.Request.Context(), queryInt(c, "days"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analytics"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// clientIP 取 X-Forwarded-For 首个地址，缺省回退到连接来源
func clientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return c.ClientIP()
}

func queryInt(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}
