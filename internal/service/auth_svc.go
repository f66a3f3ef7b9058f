package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"peermall/internal/api/dto"
	"peermall/internal/model"
	"peermall/internal/repository"
	"peermall/pkg/logger"
	"peermall/pkg/utils"
)

// DefaultLoginRedirect 登录成功后的跳转地址
const DefaultLoginRedirect = "/my-info"

// ==================== 验证码投递 ====================

// CodeSender 验证码投递渠道
type CodeSender interface {
	Send(ctx context.Context, email, code string) error
}

// SimulatedCodeSender 模拟邮件发送：固定延迟后总是成功，验证码只写日志
type SimulatedCodeSender struct {
	Delay time.Duration
}

// Send 等待 Delay，期间 ctx 取消则返回
func (s *SimulatedCodeSender) Send(ctx context.Context, email, code string) error {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	logger.FromContext(ctx).Info("[OTP] 验证码已发送（模拟）",
		zap.String("email", email), zap.String("code", code))
	return nil
}

// CodeGenerator 生成 6 位数字验证码
type CodeGenerator func() (string, error)

// ==================== AuthService 登录服务 ====================

// AuthConfig 登录服务配置
type AuthConfig struct {
	ExposeCode  bool     // 演示模式下在响应中返回验证码
	AdminEmails []string // 管理员邮箱
}

// AuthService 邮箱验证码登录
// 状态机：EnteringEmail -> CodeSent -> Verifying -> Authenticated | CodeSent
// 验证码没有过期时间，也不限制错误次数
type AuthService struct {
	sessions repository.SessionRepository
	attempts repository.LoginAttemptRepository
	sender   CodeSender
	generate CodeGenerator
	now      func() time.Time
	cfg      AuthConfig

	mu sync.Mutex // 保护 attempts 的读改写
}

// NewAuthService 创建登录服务
func NewAuthService(
	sessions repository.SessionRepository,
	attempts repository.LoginAttemptRepository,
	sender CodeSender,
	cfg AuthConfig,
) *AuthService {
	return &AuthService{
		sessions: sessions,
		attempts: attempts,
		sender:   sender,
		generate: utils.GenerateNumericCode,
		now:      time.Now,
		cfg:      cfg,
	}
}

// WithCodeGenerator 替换验证码生成器（测试用）
func (s *AuthService) WithCodeGenerator(gen CodeGenerator) *AuthService {
	s.generate = gen
	return s
}

// ==================== 登录流程 ====================

// SendCode 发送验证码，替换已有的待验证码
func (s *AuthService) SendCode(ctx context.Context, email string) (*dto.LoginAttemptResp, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	before := s.stamp(ctx)

	code, err := s.issue(ctx, email)
	if err != nil {
		return nil, err
	}

	attempt := model.LoginAttempt{
		State:   model.LoginStateCodeSent,
		Pending: model.PendingOTP{Email: email, Code: code, IssuedAt: s.now()},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.unchangedSince(ctx, before); !ok {
		logger.FromContext(ctx).Info("[Auth] 投递期间登录尝试已变更，丢弃新验证码", zap.String("email", email))
		return nil, ErrAttemptChanged
	}
	s.attempts.Put(ctx, attempt)

	logger.FromContext(ctx).Info("[Auth] 验证码已签发", zap.String("email", email))
	return s.toAttemptResp(attempt), nil
}

// EnterCode 进入输入验证码步骤
func (s *AuthService) EnterCode(ctx context.Context) (*dto.LoginAttemptResp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts.Get(ctx)
	if !ok {
		return nil, ErrNoPendingCode
	}
	switch attempt.State {
	case model.LoginStateCodeSent, model.LoginStateVerifying:
		attempt.State = model.LoginStateVerifying
	default:
		return nil, ErrInvalidState
	}

	s.attempts.Put(ctx, attempt)
	return s.toAttemptResp(attempt), nil
}

// Verify 校验验证码，成功后写入会话
func (s *AuthService) Verify(ctx context.Context, code string) (*dto.VerifyResp, error) {
	if !isSixDigits(code) {
		return nil, ErrInvalidCode
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts.Get(ctx)
	if !ok {
		return nil, ErrNoPendingCode
	}
	if attempt.State != model.LoginStateCodeSent && attempt.State != model.LoginStateVerifying {
		return nil, ErrInvalidState
	}

	if code != attempt.Pending.Code {
		attempt.State = model.LoginStateCodeSent
		attempt.Failures++
		s.attempts.Put(ctx, attempt)

		logger.FromContext(ctx).Info("[Auth] 验证码不匹配",
			zap.String("email", attempt.Pending.Email), zap.Int("failures", attempt.Failures))
		return nil, ErrCodeMismatch
	}

	existing := s.sessions.Load(ctx)
	flag := model.SessionFlag{
		Authenticated: true,
		Email:         attempt.Pending.Email,
		Nickname:      existing.Nickname,
		ProfileImage:  existing.ProfileImage,
	}
	if flag.Nickname == "" {
		flag.Nickname = model.NicknameFromEmail(flag.Email)
	}

	// 会话写入失败时保留尝试，用户可以重试
	if err := s.sessions.Save(ctx, flag); err != nil {
		return nil, err
	}
	s.attempts.Delete(ctx)

	logger.FromContext(ctx).Info("[Auth] 登录成功",
		zap.String("email", flag.Email), zap.String("nickname", flag.Nickname))
	return &dto.VerifyResp{Session: flag, RedirectTo: DefaultLoginRedirect}, nil
}

// Resend 重新生成验证码，旧码立即失效
// 投递期间尝试被验证、取消或替换时丢弃新码
func (s *AuthService) Resend(ctx context.Context) (*dto.LoginAttemptResp, error) {
	before := s.stamp(ctx)
	if !before.exists {
		return nil, ErrNoPendingCode
	}

	code, err := s.issue(ctx, before.email)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.unchangedSince(ctx, before)
	if !ok {
		logger.FromContext(ctx).Info("[Auth] 投递期间登录尝试已变更，丢弃新验证码", zap.String("email", before.email))
		return nil, ErrAttemptChanged
	}

	attempt.State = model.LoginStateCodeSent
	attempt.Pending.Code = code
	attempt.Pending.IssuedAt = s.now()
	s.attempts.Put(ctx, attempt)

	logger.FromContext(ctx).Info("[Auth] 验证码已重新签发", zap.String("email", attempt.Pending.Email))
	return s.toAttemptResp(attempt), nil
}

// Cancel 放弃当前登录尝试
func (s *AuthService) Cancel(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts.Delete(ctx)
}

// Attempt 当前登录尝试
func (s *AuthService) Attempt(ctx context.Context) (*dto.LoginAttemptResp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts.Get(ctx)
	if !ok {
		return nil, false
	}
	return s.toAttemptResp(attempt), true
}

// ==================== 会话 ====================

// Session 读取当前设备会话
func (s *AuthService) Session(ctx context.Context) model.SessionFlag {
	return s.sessions.Load(ctx)
}

// IsAdmin 会话邮箱是否在管理员名单中
func (s *AuthService) IsAdmin(session model.SessionFlag) bool {
	if !session.IsAuthenticated() {
		return false
	}
	for _, e := range s.cfg.AdminEmails {
		if strings.EqualFold(e, session.Email) {
			return true
		}
	}
	return false
}

// Logout 清除会话，不影响店铺数据
func (s *AuthService) Logout(ctx context.Context) error {
	s.Cancel(ctx)
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("[Auth] 已退出登录")
	return nil
}

// UpdateProfile 修改昵称和头像
// 已有店铺的 ownerName 不随昵称变化
func (s *AuthService) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*model.SessionFlag, error) {
	session := s.sessions.Load(ctx)
	if !session.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		return nil, ErrEmptyNickname
	}
	if req.ProfileImage != "" {
		if _, _, err := utils.ParseImageDataURL(req.ProfileImage); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProfileImage, err)
		}
	}

	session.Nickname = nickname
	session.ProfileImage = req.ProfileImage
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ==================== 辅助方法 ====================

// attemptStamp 标识一次签发：有无尝试、邮箱、签发时间
type attemptStamp struct {
	exists   bool
	email    string
	issuedAt time.Time
}

// stamp 记录投递前的尝试
func (s *AuthService) stamp(ctx context.Context) attemptStamp {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts.Get(ctx)
	if !ok {
		return attemptStamp{}
	}
	return attemptStamp{exists: true, email: attempt.Pending.Email, issuedAt: attempt.Pending.IssuedAt}
}

// unchangedSince 返回当前尝试，以及它是否仍是 before 记录的那一次签发，调用方需持有 s.mu
// 输错验证码只改 State/Failures，不算变更
func (s *AuthService) unchangedSince(ctx context.Context, before attemptStamp) (model.LoginAttempt, bool) {
	attempt, ok := s.attempts.Get(ctx)
	if ok != before.exists {
		return attempt, false
	}
	if !ok {
		return attempt, true
	}
	return attempt, attempt.Pending.Email == before.email && attempt.Pending.IssuedAt.Equal(before.issuedAt)
}

// issue 生成并投递验证码，投递期间不持锁
func (s *AuthService) issue(ctx context.Context, email string) (string, error) {
	code, err := s.generate()
	if err != nil {
		return "", fmt.Errorf("生成验证码失败: %w", err)
	}
	if !isSixDigits(code) {
		return "", fmt.Errorf("生成验证码失败: 非 6 位数字 %q", code)
	}
	if err := s.sender.Send(ctx, email, code); err != nil {
		return "", fmt.Errorf("发送验证码失败: %w", err)
	}
	return code, nil
}

func (s *AuthService) toAttemptResp(a model.LoginAttempt) *dto.LoginAttemptResp {
	resp := &dto.LoginAttemptResp{
		State:    a.State,
		Email:    a.Pending.Email,
		IssuedAt: a.Pending.IssuedAt,
		Failures: a.Failures,
	}
	if s.cfg.ExposeCode {
		resp.DemoCode = a.Pending.Code
	}
	return resp
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsValidationError 输入校验类错误，不改变任何状态
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidEmail, ErrInvalidCode, ErrEmptyNickname, ErrInvalidProfileImage,
		ErrInvalidShop, ErrInvalidProduct, ErrInvalidStatus, ErrEmptyContent, ErrInvalidQRType,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ==================== 错误定义 ====================

var (
	ErrInvalidEmail        = errors.New("邮箱格式不正确")
	ErrInvalidCode         = errors.New("验证码必须是 6 位数字")
	ErrCodeMismatch        = errors.New("验证码错误")
	ErrNoPendingCode       = errors.New("请先发送验证码")
	ErrInvalidState        = errors.New("当前登录状态不允许该操作")
	ErrAttemptChanged      = fmt.Errorf("验证码投递期间登录尝试已变更: %w", ErrInvalidState)
	ErrUnauthenticated     = errors.New("请先登录")
	ErrEmptyNickname       = errors.New("昵称不能为空")
	ErrInvalidProfileImage = errors.New("头像必须是图片 data URL")
	ErrForbidden           = errors.New("没有权限")
)
