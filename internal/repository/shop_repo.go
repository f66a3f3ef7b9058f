package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"peermall/internal/model"
	"peermall/pkg/kvstore"
	"peermall/pkg/logger"
)

// ==================== 接口定义 ====================

// ShopRepository 店铺仓储接口
// 读操作遇到存储错误或损坏的 JSON 时记录日志并降级为空结果；
// 写操作的存储错误统一包装为 ErrStorage 返回
type ShopRepository interface {
	List(ctx context.Context) []model.ShopRecord
	GetByURL(ctx context.Context, shopURL string) (*model.ShopRecord, bool)
	Create(ctx context.Context, shop *model.ShopRecord) error
	Update(ctx context.Context, shop *model.ShopRecord) error
	Delete(ctx context.Context, shopURL string) error
	ListByOwner(ctx context.Context, nickname string) []model.ShopRecord

	// ImportLegacy 把旧版集合键中的记录拆成单条键，返回新写入的条数
	ImportLegacy(ctx context.Context) (int, error)
}

// ==================== 仓储实现 ====================

// shopRepo 每条记录一个键：peermall_<shopUrl>
type shopRepo struct {
	store kvstore.Store
}

// NewShopRepository 创建店铺仓储
func NewShopRepository(store kvstore.Store) ShopRepository {
	return &shopRepo{store: store}
}

func (r *shopRepo) List(ctx context.Context) []model.ShopRecord {
	keys, err := r.store.Keys(ctx, model.ShopKeyPrefix)
	if err != nil {
		logger.FromContext(ctx).Error("[ShopRepo] 列出店铺键失败", zap.Error(err))
		return []model.ShopRecord{}
	}

	shops := make([]model.ShopRecord, 0, len(keys))
	for _, key := range keys {
		if shop, ok := r.load(ctx, key); ok {
			shops = append(shops, *shop)
		}
	}

	sort.SliceStable(shops, func(i, j int) bool {
		if !shops[i].CreatedAt.Equal(shops[j].CreatedAt) {
			return shops[i].CreatedAt.Before(shops[j].CreatedAt)
		}
		return shops[i].ShopURL < shops[j].ShopURL
	})
	return shops
}

func (r *shopRepo) GetByURL(ctx context.Context, shopURL string) (*model.ShopRecord, bool) {
	if shopURL == "" {
		return nil, false
	}
	return r.load(ctx, model.ShopKeyPrefix+shopURL)
}

func (r *shopRepo) Create(ctx context.Context, shop *model.ShopRecord) error {
	exists, err := r.exists(ctx, shop.StorageKey())
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, shop.ShopURL)
	}
	return r.save(ctx, shop)
}

func (r *shopRepo) Update(ctx context.Context, shop *model.ShopRecord) error {
	exists, err := r.exists(ctx, shop.StorageKey())
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, shop.ShopURL)
	}
	return r.save(ctx, shop)
}

func (r *shopRepo) Delete(ctx context.Context, shopURL string) error {
	if err := r.store.Remove(ctx, model.ShopKeyPrefix+shopURL); err != nil {
		logger.FromContext(ctx).Error("[ShopRepo] 删除店铺失败",
			zap.String("shop_url", shopURL), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// ListByOwner 线性扫描，数量级为几十条，不建索引
func (r *shopRepo) ListByOwner(ctx context.Context, nickname string) []model.ShopRecord {
	out := []model.ShopRecord{}
	for _, shop := range r.List(ctx) {
		if shop.OwnerName == nickname {
			out = append(out, shop)
		}
	}
	return out
}

func (r *shopRepo) ImportLegacy(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	raw, ok, err := r.store.Get(ctx, model.LegacyShopCollectionKey)
	if err != nil {
		log.Error("[ShopRepo] 读取旧版集合键失败", zap.Error(err))
		return 0, nil
	}
	if !ok {
		return 0, nil
	}

	var legacy []model.ShopRecord
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		// 保留原值，避免丢数据
		log.Warn("[ShopRepo] 旧版集合键 JSON 损坏，跳过迁移", zap.Error(err))
		return 0, nil
	}

	imported := 0
	for i := range legacy {
		shop := &legacy[i]
		if !model.ValidShopURL(shop.ShopURL) {
			log.Warn("[ShopRepo] 旧版记录店铺地址不合法，跳过", zap.String("shop_url", shop.ShopURL))
			continue
		}
		// 已有单条记录时保留已有记录
		err := r.Create(ctx, shop)
		switch {
		case err == nil:
			imported++
		case errors.Is(err, ErrDuplicateKey):
			log.Info("[ShopRepo] 旧版记录与现有记录重复，保留现有记录", zap.String("shop_url", shop.ShopURL))
		default:
			return imported, err
		}
	}

	if err := r.store.Remove(ctx, model.LegacyShopCollectionKey); err != nil {
		log.Error("[ShopRepo] 删除旧版集合键失败", zap.Error(err))
		return imported, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	log.Info("[ShopRepo] 旧版集合键迁移完成",
		zap.Int("total", len(legacy)), zap.Int("imported", imported))
	return imported, nil
}

// ==================== 辅助方法 ====================

func (r *shopRepo) load(ctx context.Context, key string) (*model.ShopRecord, bool) {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		logger.FromContext(ctx).Error("[ShopRepo] 读取店铺失败", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var shop model.ShopRecord
	if err := json.Unmarshal([]byte(raw), &shop); err != nil {
		logger.FromContext(ctx).Warn("[ShopRepo] 店铺 JSON 损坏", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	// 键是唯一约束，记录里的 shopUrl 必须与键一致
	if want := strings.TrimPrefix(key, model.ShopKeyPrefix); shop.ShopURL != want {
		logger.FromContext(ctx).Warn("[ShopRepo] 店铺地址与键不一致，跳过",
			zap.String("key", key), zap.String("shop_url", shop.ShopURL))
		return nil, false
	}
	return &shop, true
}

func (r *shopRepo) exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := r.store.Get(ctx, key)
	if err != nil {
		logger.FromContext(ctx).Error("[ShopRepo] 检查店铺是否存在失败", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return ok, nil
}

func (r *shopRepo) save(ctx context.Context, shop *model.ShopRecord) error {
	data, err := json.Marshal(shop)
	if err != nil {
		logger.FromContext(ctx).Error("[ShopRepo] 序列化店铺失败", zap.String("shop_url", shop.ShopURL), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if err := r.store.Set(ctx, shop.StorageKey(), string(data)); err != nil {
		logger.FromContext(ctx).Error("[ShopRepo] 写入店铺失败", zap.String("shop_url", shop.ShopURL), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}
