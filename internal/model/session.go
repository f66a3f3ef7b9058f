package model

import (
	"strings"
	"time"
)

// 会话标量键，每个字段一个独立的键
const (
	SessionKeyLoggedIn     = "isLoggedIn"
	SessionKeyEmail        = "userEmail"
	SessionKeyNickname     = "userNickname"
	SessionKeyProfileImage = "userProfileImage"
)

// SessionFlag 设备级会话状态
// 不变式：Authenticated 为 true 时 Email 非空
type SessionFlag struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email"`
	Nickname      string `json:"nickname"`
	ProfileImage  string `json:"profileImage,omitempty"`
}

// IsAuthenticated 同时校验不变式，email 缺失的登录态视为未登录
func (s *SessionFlag) IsAuthenticated() bool {
	return s != nil && s.Authenticated && s.Email != ""
}

// NicknameFromEmail 取邮箱 @ 之前的部分
func NicknameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// ==================== 登录流程 ====================

// LoginState 一次登录尝试的状态
type LoginState string

const (
	LoginStateEnteringEmail LoginState = "entering_email"
	LoginStateCodeSent      LoginState = "code_sent"
	LoginStateVerifying     LoginState = "verifying"
	LoginStateAuthenticated LoginState = "authenticated"
)

// PendingOTP 待验证的验证码，只存在内存中
type PendingOTP struct {
	Email    string    `json:"email"`
	Code     string    `json:"-"`
	IssuedAt time.Time `json:"issuedAt"`
}

// LoginAttempt 一个设备上正在进行的登录尝试，至多一个 PendingOTP
type LoginAttempt struct {
	State    LoginState `json:"state"`
	Pending  PendingOTP `json:"pending"`
	Failures int        `json:"failures"` // 只统计，不锁定
}
