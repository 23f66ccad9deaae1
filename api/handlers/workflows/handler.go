package workflows

import (
	"errors"
	"net/http"
	"strconv"

	response "backend/api/handlers/common"
	"backend/internal/workflow"

	"github.com/gin-gonic/gin"
)

// Handler 工作流管理 Handler
type Handler struct {
	service *workflow.Service
	engine  *workflow.Engine
}

// NewHandler 创建 Handler 实例
func NewHandler(service *workflow.Service, engine *workflow.Engine) *Handler {
	return &Handler{service: service, engine: engine}
}

// Create 创建工作流
func (h *Handler) Create(c *gin.Context) {
	var req workflow.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
		return
	}
	req.UserID = c.GetString("user_id")

	wf, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.OK(wf))
}

// Get 查询单个工作流
func (h *Handler) Get(c *gin.Context) {
	wf, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.Fail("Workflow not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Fail("Failed to retrieve workflow"))
		return
	}

	c.JSON(http.StatusOK, response.OK(wf))
}

// List 查询工作流列表
func (h *Handler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	workflows, err := h.service.List(c.Request.Context(), c.GetString("user_id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Fail("Failed to list workflows"))
		return
	}

	c.JSON(http.StatusOK, response.OK(workflows))
}

// Update 整体替换工作流
func (h *Handler) Update(c *gin.Context) {
	var req workflow.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
		return
	}

	wf, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.Fail("Workflow not found"))
			return
		}
		c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.OK(wf))
}

// Delete 删除工作流
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, response.Fail("Failed to delete workflow"))
		return
	}

	c.JSON(http.StatusOK, response.APIResponse{Success: true, Message: "Workflow deleted"})
}

// Execute 执行一次工作流
func (h *Handler) Execute(c *gin.Context) {
	wf, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.Fail("Workflow not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Fail("Failed to retrieve workflow"))
		return
	}

	execution, err := h.engine.Execute(c.Request.Context(), wf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Fail("Workflow execution failed"))
		return
	}

	c.JSON(http.StatusOK, response.OK(execution))
}

// Templates 返回预置示例工作流
func (h *Handler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, response.OK(workflow.Templates()))
}
