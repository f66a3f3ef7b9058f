package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"peermall/internal/model"
	"peermall/pkg/kvstore"
	"peermall/pkg/logger"
)

// SessionRepository 会话标记仓储，四个标量键分别存储
type SessionRepository interface {
	Load(ctx context.Context) model.SessionFlag
	Save(ctx context.Context, flag model.SessionFlag) error
	Clear(ctx context.Context) error
}

type sessionRepo struct {
	store kvstore.Store
}

// NewSessionRepository 创建会话仓储
func NewSessionRepository(store kvstore.Store) SessionRepository {
	return &sessionRepo{store: store}
}

// Load 读取会话标记，读取失败视为未登录
func (r *sessionRepo) Load(ctx context.Context) model.SessionFlag {
	return model.SessionFlag{
		Authenticated: r.get(ctx, model.SessionKeyLoggedIn) == "true",
		Email:         r.get(ctx, model.SessionKeyEmail),
		Nickname:      r.get(ctx, model.SessionKeyNickname),
		ProfileImage:  r.get(ctx, model.SessionKeyProfileImage),
	}
}

// Save 写入会话标记，空字段删除对应键
func (r *sessionRepo) Save(ctx context.Context, flag model.SessionFlag) error {
	loggedIn := ""
	if flag.Authenticated {
		loggedIn = "true"
	}

	pairs := []struct{ key, value string }{
		{model.SessionKeyEmail, flag.Email},
		{model.SessionKeyNickname, flag.Nickname},
		{model.SessionKeyProfileImage, flag.ProfileImage},
		// 最后写登录标记，中途失败不会留下“已登录但无邮箱”的状态
		{model.SessionKeyLoggedIn, loggedIn},
	}
	for _, p := range pairs {
		var err error
		if p.value == "" {
			err = r.store.Remove(ctx, p.key)
		} else {
			err = r.store.Set(ctx, p.key, p.value)
		}
		if err != nil {
			logger.FromContext(ctx).Error("[SessionRepo] 写入会话失败", zap.String("key", p.key), zap.Error(err))
			return fmt.Errorf("%w: %w", ErrStorage, err)
		}
	}
	return nil
}

// Clear 删除全部会话键
func (r *sessionRepo) Clear(ctx context.Context) error {
	return r.Save(ctx, model.SessionFlag{})
}

func (r *sessionRepo) get(ctx context.Context, key string) string {
	v, _, err := r.store.Get(ctx, key)
	if err != nil {
		logger.FromContext(ctx).Error("[SessionRepo] 读取会话失败", zap.String("key", key), zap.Error(err))
		return ""
	}
	return v
}
