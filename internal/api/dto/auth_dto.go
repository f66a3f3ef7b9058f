package dto

import (
	"time"

	"peermall/internal/model"
)

// ==================== 验证码登录 ====================

// SendCodeRequest 发送验证码请求，邮箱格式由服务层校验
type SendCodeRequest struct {
	Email string `json:"email"`
}

// VerifyCodeRequest 提交验证码请求，位数由服务层校验
type VerifyCodeRequest struct {
	Code string `json:"code"`
}

// LoginAttemptResp 当前登录尝试
type LoginAttemptResp struct {
	State    model.LoginState `json:"state"`
	Email    string           `json:"email"`
	IssuedAt time.Time        `json:"issued_at"`
	Failures int              `json:"failures"`
	// DemoCode 仅在 OTP_EXPOSE_CODE 开启时返回
	DemoCode string `json:"demo_code,omitempty"`
}

// VerifyResp 验证成功响应
type VerifyResp struct {
	Session    model.SessionFlag `json:"session"`
	RedirectTo string            `json:"redirect_to"`
}

// ==================== 会话 ====================

// SessionResp 会话信息
type SessionResp struct {
	model.SessionFlag
	IsAdmin bool `json:"is_admin"`
}

// UpdateProfileRequest 修改资料请求
type UpdateProfileRequest struct {
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image"`
}
