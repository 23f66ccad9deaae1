package auth

import (
	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware 可选认证中间件
// 演示门户所有端点都允许匿名访问：令牌缺失或无效时按匿名处理，不拦截请求
func OptionalAuthMiddleware(jwtService *JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		token := ExtractTokenFromBearer(authHeader)
		if token == "" {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			// 令牌无效但不拦截请求
			c.Next()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)

		c.Next()
	}
}
