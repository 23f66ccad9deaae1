package session

import (
	"errors"
	"net/http"

	response "backend/api/handlers/common"
	"backend/internal/session"

	"github.com/gin-gonic/gin"
)

// Handler 演示会话 Handler
type Handler struct {
	service *session.Service
}

// NewHandler 创建 Handler 实例
func NewHandler(service *session.Service) *Handler {
	return &Handler{service: service}
}

// CreateRequest 会话创建请求
type CreateRequest struct {
	Metadata map[string]any `json:"metadata"`
}

// Create 创建演示会话，匿名请求 user_id 为空
func (h *Handler) Create(c *gin.Context) {
	// 请求体可以为空，解析失败按无 metadata 处理
	var req CreateRequest
	_ = c.ShouldBindJSON(&req)
	if req.Metadata == nil {
		req.Metadata = map[string]any{}
	}

	created, err := h.service.Create(c.Request.Context(), c.GetString("user_id"), req.Metadata)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Fail("Failed to create session"))
		return
	}

	c.JSON(http.StatusOK, response.OK(created))
}

// Get 查询演示会话，过期返回 410
func (h *Handler) Get(c *gin.Context) {
	found, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.Fail("Session not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Fail("Failed to retrieve session"))
		return
	}

	if h.service.IsExpired(found) {
		c.JSON(http.StatusGone, response.Fail("Session expired"))
		return
	}

	c.JSON(http.StatusOK, response.OK(found))
}
