package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"peermall/pkg/kvstore"
	"peermall/pkg/logger"
)

const (
	// HeaderDeviceID 非浏览器客户端可通过该 Header 指定设备
	HeaderDeviceID = "X-Device-ID"
	// ContextKeyDeviceID 设备 ID
	ContextKeyDeviceID = "device_id"

	deviceCookieMaxAge = 365 * 24 * 3600
)

// Device 识别客户端设备，把设备 ID 作为存储命名空间写入 request context
// 优先级：X-Device-ID Header > Cookie > 新生成（并下发 Cookie）
func Device(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader(HeaderDeviceID)
		if !validDeviceID(deviceID) {
			deviceID, _ = c.Cookie(cookieName)
		}
		if !validDeviceID(deviceID) {
			deviceID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, deviceID, deviceCookieMaxAge, "/", "", false, true)
		}

		ctx := kvstore.WithNamespace(c.Request.Context(), deviceID)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(zap.String("device", deviceID)))
		c.Request = c.Request.WithContext(ctx)
		c.Set(ContextKeyDeviceID, deviceID)

		c.Next()
	}
}

// GetDeviceID 从 Context 获取设备 ID
func GetDeviceID(c *gin.Context) string {
	return c.GetString(ContextKeyDeviceID)
}

func validDeviceID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
