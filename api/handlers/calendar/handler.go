package calendar

import (
	"net/http"

	response "backend/api/handlers/common"
	"backend/internal/calendar"
	"backend/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler Google Calendar OAuth Handler
// 换回的令牌直接返回给前端临时保管，门户侧不落库
type Handler struct {
	client *calendar.Client
}

// NewHandler 创建 Handler 实例
func NewHandler(client *calendar.Client) *Handler {
	return &Handler{client: client}
}

// AuthURL 生成授权地址
func (h *Handler) AuthURL(c *gin.Context) {
	c.JSON(http.StatusOK, response.OK(gin.H{"authUrl": h.client.AuthURL()}))
}

// Callback 授权回调，用授权码换取令牌
func (h *Handler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, response.Fail("Authorization code missing"))
		return
	}

	token, err := h.client.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Fail("Authorization failed"))
		return
	}

	logger.Info("Google Calendar 授权完成",
		zap.Bool("has_refresh_token", token.RefreshToken != ""),
	)

	c.JSON(http.StatusOK, response.OK(gin.H{
		"accessToken":  token.AccessToken,
		"refreshToken": token.RefreshToken,
		"expiresIn":    token.Expiry.UnixMilli(),
	}))
}

// Revoke 吊销访问令牌
func (h *Handler) Revoke(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, response.Fail("Token missing"))
		return
	}

	h.client.RevokeToken(c.Request.Context(), token)
	c.JSON(http.StatusOK, response.APIResponse{Success: true, Message: "Token revoked"})
}
