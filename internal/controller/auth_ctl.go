package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"peermall/internal/api/dto"
	"peermall/internal/middleware"
	"peermall/internal/service"
	"peermall/pkg/metrics"
)

// ==================== AuthController 登录控制器 ====================

// AuthController 邮箱验证码登录
type AuthController struct {
	authSvc *service.AuthService
	metrics *metrics.Metrics
}

// NewAuthController 创建登录控制器，m 可以为 nil
func NewAuthController(authSvc *service.AuthService, m *metrics.Metrics) *AuthController {
	return &AuthController{authSvc: authSvc, metrics: m}
}

// SendCode 发送验证码
// @Summary 发送验证码
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SendCodeRequest true "邮箱"
// @Success 200 {object} dto.LoginAttemptResp
// @Failure 400 {object} map[string]interface{}
// @Router /api/auth/send-code [post]
func (c *AuthController) SendCode(ctx *gin.Context) {
	var req dto.SendCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	resp, err := c.authSvc.SendCode(ctx.Request.Context(), req.Email)
	if err != nil {
		fail(ctx, err)
		return
	}

	c.metrics.RecordOTP(metrics.OTPEventSent)
	success(ctx, "验证码已发送", resp)
}

// EnterCode 进入输入验证码步骤
// @Summary 进入输入验证码步骤
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.LoginAttemptResp
// @Failure 409 {object} map[string]interface{}
// @Router /api/auth/enter-code [post]
func (c *AuthController) EnterCode(ctx *gin.Context) {
	resp, err := c.authSvc.EnterCode(ctx.Request.Context())
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "请输入验证码", resp)
}

// Verify 校验验证码
// @Summary 校验验证码
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyCodeRequest true "验证码"
// @Success 200 {object} dto.VerifyResp
// @Failure 400 {object} map[string]interface{}
// @Router /api/auth/verify [post]
func (c *AuthController) Verify(ctx *gin.Context) {
	var req dto.VerifyCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	resp, err := c.authSvc.Verify(ctx.Request.Context(), req.Code)
	if err != nil {
		if errors.Is(err, service.ErrCodeMismatch) {
			c.metrics.RecordOTP(metrics.OTPEventMismatch)
		}
		fail(ctx, err)
		return
	}

	c.metrics.RecordOTP(metrics.OTPEventVerified)
	success(ctx, "登录成功", resp)
}

// Resend 重新发送验证码
// @Summary 重新发送验证码
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.LoginAttemptResp
// @Router /api/auth/resend [post]
func (c *AuthController) Resend(ctx *gin.Context) {
	resp, err := c.authSvc.Resend(ctx.Request.Context())
	if err != nil {
		fail(ctx, err)
		return
	}

	c.metrics.RecordOTP(metrics.OTPEventResent)
	success(ctx, "验证码已重新发送", resp)
}

// CancelAttempt 放弃登录
// @Summary 放弃当前登录尝试
// @Tags Auth
// @Router /api/auth/attempt [delete]
func (c *AuthController) CancelAttempt(ctx *gin.Context) {
	c.authSvc.Cancel(ctx.Request.Context())
	success(ctx, "已取消", nil)
}

// GetSession 当前会话
// @Summary 当前会话
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.SessionResp
// @Router /api/auth/session [get]
func (c *AuthController) GetSession(ctx *gin.Context) {
	success(ctx, "ok", dto.SessionResp{
		SessionFlag: middleware.GetSession(ctx),
		IsAdmin:     middleware.IsAdmin(ctx),
	})
}

// Logout 退出登录
// @Summary 退出登录
// @Tags Auth
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authSvc.Logout(ctx.Request.Context()); err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "已退出登录", nil)
}

// UpdateProfile 修改资料
// @Summary 修改昵称和头像
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "资料"
// @Success 200 {object} model.SessionFlag
// @Router /api/auth/profile [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	session, err := c.authSvc.UpdateProfile(ctx.Request.Context(), &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "资料已更新", session)
}
