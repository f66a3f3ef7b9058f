package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"peermall/internal/controller"
	"peermall/internal/middleware"
)

// Controllers 控制器集合
type Controllers struct {
	Auth      *controller.AuthController
	Shop      *controller.ShopController
	QRCode    *controller.QRCodeController
	Inquiry   *controller.InquiryController
	Community *controller.CommunityController
	Storage   *controller.StorageController
}

// Options 路由依赖
type Options struct {
	Sessions       middleware.SessionLoader
	Cooldown       *middleware.CooldownLimiter
	MetricsHandler http.Handler // 为空时不暴露 /metrics
}

// 冷却间隔
const (
	likeCooldown   = 3 * time.Second
	importCooldown = 5 * time.Second
)

// InitRoutes 注册所有路由
// 需要在外层先挂载 Device 中间件
func InitRoutes(r *gin.Engine, ctl *Controllers, opts Options) {
	// 1. 基础路由
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	// 接口文档：/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	cooldown := opts.Cooldown
	if cooldown == nil {
		cooldown = middleware.NewCooldownLimiter()
	}

	// 2. API 路由组
	api := r.Group("/api", middleware.LoadSession(opts.Sessions))
	{
		// storage 设备存储
		storage := api.Group("/storage")
		{
			storage.GET("/export", ctl.Storage.Export)
			storage.POST("/import", middleware.Cooldown(cooldown, "import", importCooldown), ctl.Storage.Import)
		}

		// auth 登录
		auth := api.Group("/auth")
		{
			auth.POST("/send-code", ctl.Auth.SendCode)
			auth.POST("/enter-code", ctl.Auth.EnterCode)
			auth.POST("/verify", ctl.Auth.Verify)
			auth.POST("/resend", ctl.Auth.Resend)
			auth.DELETE("/attempt", ctl.Auth.CancelAttempt)
			auth.GET("/session", ctl.Auth.GetSession)
			auth.POST("/logout", ctl.Auth.Logout)
			auth.PUT("/profile", middleware.RequireAuth(), ctl.Auth.UpdateProfile)
		}

		// shop 店铺管理（只读接口公开，修改需要登录，不校验归属）
		shops := api.Group("/shops")
		{
			shops.GET("", ctl.Shop.List)
			shops.GET("/mine", middleware.RequireAuth(), ctl.Shop.Mine)
			shops.GET("/owner/:nickname", ctl.Shop.ListByOwner)
			shops.GET("/:url", ctl.Shop.Get)
			shops.GET("/:url/ads", ctl.Shop.LiveAds)

			write := shops.Group("", middleware.RequireAuth())
			write.POST("", ctl.Shop.Create)
			write.PUT("/:url", ctl.Shop.Update)
			write.DELETE("/:url", ctl.Shop.Delete)
			write.POST("/:url/products", ctl.Shop.AddProduct)
			write.PUT("/:url/products/:pid", ctl.Shop.UpdateProduct)
			write.DELETE("/:url/products/:pid", ctl.Shop.RemoveProduct)
		}

		// qrcodes QR 码
		qr := api.Group("/qrcodes")
		{
			qr.GET("", ctl.QRCode.List)
			qr.POST("", ctl.QRCode.Generate)
			qr.DELETE("/:index", ctl.QRCode.Delete)
		}

		// inquiries 咨询板
		inquiries := api.Group("/inquiries")
		{
			inquiries.GET("", ctl.Inquiry.List)
			inquiries.GET("/:id", ctl.Inquiry.Get)
			inquiries.POST("", middleware.RequireAuth(), ctl.Inquiry.Create)
			inquiries.POST("/:id/replies", middleware.RequireAuth(), ctl.Inquiry.Reply)
			inquiries.PUT("/:id/status", middleware.RequireAdmin(), ctl.Inquiry.SetStatus)
		}

		// community 社区
		posts := api.Group("/community/posts")
		{
			posts.GET("", ctl.Community.List)
			posts.GET("/:id", ctl.Community.Get)
			posts.POST("", middleware.RequireAuth(), ctl.Community.Create)
			posts.POST("/:id/like", middleware.Cooldown(cooldown, "like", likeCooldown), ctl.Community.Like)
		}
	}
}
