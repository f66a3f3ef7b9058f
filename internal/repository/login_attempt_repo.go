package repository

import (
	"context"

	"peermall/internal/model"
	"peermall/pkg/kvstore"
	"peermall/pkg/utils"
)

// LoginAttemptRepository 进行中的登录尝试，按设备命名空间保存在内存中
// 验证码不落盘，进程重启后需要重新发送
type LoginAttemptRepository interface {
	Get(ctx context.Context) (model.LoginAttempt, bool)
	Put(ctx context.Context, attempt model.LoginAttempt)
	Delete(ctx context.Context)
	Count() int
}

type loginAttemptRepo struct {
	cache *utils.Cache[model.LoginAttempt]
}

// NewLoginAttemptRepository 创建登录尝试仓储，尝试不过期
func NewLoginAttemptRepository() LoginAttemptRepository {
	return &loginAttemptRepo{cache: utils.NewCache[model.LoginAttempt](0)}
}

// Get 按值返回，调用方修改后需 Put 回去
func (r *loginAttemptRepo) Get(ctx context.Context) (model.LoginAttempt, bool) {
	return r.cache.Get(kvstore.NamespaceFrom(ctx))
}

func (r *loginAttemptRepo) Put(ctx context.Context, attempt model.LoginAttempt) {
	r.cache.Set(kvstore.NamespaceFrom(ctx), attempt)
}

func (r *loginAttemptRepo) Delete(ctx context.Context) {
	r.cache.Delete(kvstore.NamespaceFrom(ctx))
}

func (r *loginAttemptRepo) Count() int {
	return r.cache.Len()
}
