package automation

import (
	"errors"
	"net/http"

	response "backend/api/handlers/common"
	"backend/internal/automation"

	"github.com/gin-gonic/gin"
)

// Handler 自动化执行 Handler
type Handler struct {
	dispatcher *automation.Dispatcher
}

// NewHandler 创建 Handler 实例
func NewHandler(dispatcher *automation.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// Execute 执行一次自动化
// 渠道不支持与参数错误同样按 400 返回，错误文案透传给前端展示
func (h *Handler) Execute(c *gin.Context) {
	var req automation.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
		return
	}

	result, err := h.dispatcher.Execute(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, automation.ErrUnsupportedMethod) {
			c.JSON(http.StatusBadRequest, response.Fail("Unsupported delivery method"))
			return
		}
		c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.OK(result))
}

// Services 返回可演示的服务目录
func (h *Handler) Services(c *gin.Context) {
	c.JSON(http.StatusOK, response.OK(serviceCatalog))
}
