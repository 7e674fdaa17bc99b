package middleware

import (
	"strings"

	"vidtube/internal/api/response"
	"vidtube/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID 认证中间件写入的当前用户 ID 键
	ContextUserID = "user_id"

	// AccessTokenCookie 访问令牌 Cookie 名
	AccessTokenCookie = "accessToken"
	// RefreshTokenCookie 刷新令牌 Cookie 名
	RefreshTokenCookie = "refreshToken"
)

// extractAccessToken 依次尝试 Cookie 与 Authorization: Bearer 头
func extractAccessToken(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// Auth 强制认证：无有效访问令牌返回 401
func Auth(accessSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractAccessToken(c)
		if token == "" {
			response.Unauthorized(c, "未登录")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token, utils.TokenTypeAccess, accessSecret)
		if err != nil {
			response.Unauthorized(c, "登录状态已失效，请重新登录")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

// OptionalAuth 可选认证：令牌有效则注入用户 ID，无令牌或无效令牌放行
func OptionalAuth(accessSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractAccessToken(c); token != "" {
			if claims, err := utils.ParseToken(token, utils.TokenTypeAccess, accessSecret); err == nil {
				c.Set(ContextUserID, claims.UserID)
			}
		}
		c.Next()
	}
}

// CurrentUserID 读取认证中间件注入的用户 ID，未登录返回 0
func CurrentUserID(c *gin.Context) int64 {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
