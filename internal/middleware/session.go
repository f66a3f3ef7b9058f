package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"peermall/internal/model"
)

// Context Keys
const (
	ContextKeySession = "session"
	ContextKeyIsAdmin = "is_admin"
)

// SessionLoader 读取设备会话
type SessionLoader interface {
	Session(ctx context.Context) model.SessionFlag
	IsAdmin(session model.SessionFlag) bool
}

// LoadSession 读取当前设备的会话标记，不强制登录
// 必须在 Device 中间件之后
func LoadSession(loader SessionLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := loader.Session(c.Request.Context())
		c.Set(ContextKeySession, session)
		c.Set(ContextKeyIsAdmin, loader.IsAdmin(session))
		c.Next()
	}
}

// RequireAuth 要求已登录
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if !session.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "请先登录",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin 要求管理员
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if !session.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "请先登录",
			})
			c.Abort()
			return
		}
		if !IsAdmin(c) {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "无权限访问",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ==================== 辅助函数 ====================

// GetSession 从 Context 获取会话，未加载时为零值
func GetSession(c *gin.Context) model.SessionFlag {
	if v, exists := c.Get(ContextKeySession); exists {
		if s, ok := v.(model.SessionFlag); ok {
			return s
		}
	}
	return model.SessionFlag{}
}

// IsAdmin 当前会话是否管理员
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ContextKeyIsAdmin)
}
