package chat

import (
	"net/http"

	response "backend/api/handlers/common"
	"backend/internal/ai"
	"backend/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler AI 聊天 Handler
type Handler struct {
	client *ai.Client
}

// NewHandler 创建 Handler 实例
func NewHandler(client *ai.Client) *Handler {
	return &Handler{client: client}
}

// Chat 与助手对话
// 预算耗尽与上游故障都降级为 200 的固定应答，只有参数错误才 400
func (h *Handler) Chat(c *gin.Context) {
	var req ai.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
		return
	}

	logger.Info("收到聊天请求",
		zap.String("context", req.Context),
		zap.String("conversation_id", req.ConversationID),
	)

	c.JSON(http.StatusOK, response.OK(h.client.Chat(c.Request.Context(), &req)))
}

// GenerateWorkflowRequest 工作流生成请求
type GenerateWorkflowRequest struct {
	Description string `json:"description" binding:"required,min=10,max=500"`
}

// GenerateWorkflow 从自然语言描述生成工作流结构
func (h *Handler) GenerateWorkflow(c *gin.Context) {
	var req GenerateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
		return
	}

	logger.Info("收到工作流生成请求", zap.String("description", req.Description))

	wf := h.client.GenerateWorkflow(c.Request.Context(), req.Description)
	if wf == nil {
		c.JSON(http.StatusBadRequest, response.Fail("Failed to generate workflow. Please provide more details."))
		return
	}

	c.JSON(http.StatusOK, response.OK(wf))
}

// Usage 当前月度 token 用量
func (h *Handler) Usage(c *gin.Context) {
	c.JSON(http.StatusOK, response.OK(h.client.Usage()))
}
