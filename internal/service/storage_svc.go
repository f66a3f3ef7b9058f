package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"peermall/internal/api/dto"
	"peermall/internal/repository"
	"peermall/pkg/kvstore"
	"peermall/pkg/logger"
)

// StorageService 设备存储导入导出
type StorageService struct {
	store kvstore.Store
	shops repository.ShopRepository
}

// NewStorageService 创建存储服务
func NewStorageService(store kvstore.Store, shops repository.ShopRepository) *StorageService {
	return &StorageService{store: store, shops: shops}
}

// Export 当前设备命名空间的全部键值
func (s *StorageService) Export(ctx context.Context) (map[string]string, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("[Storage] 导出失败", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", repository.ErrStorage, err)
	}
	return snap, nil
}

// Import 写入浏览器 localStorage 导出的键值，随后迁移旧版集合键
// 同名键直接覆盖
func (s *StorageService) Import(ctx context.Context, entries map[string]string) (*dto.StorageImportResp, error) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	resp := &dto.StorageImportResp{}
	for _, k := range keys {
		if err := s.store.Set(ctx, k, entries[k]); err != nil {
			logger.FromContext(ctx).Error("[Storage] 导入失败",
				zap.String("key", k), zap.Int("written", resp.Written), zap.Error(err))
			return resp, fmt.Errorf("%w: %w", repository.ErrStorage, err)
		}
		resp.Written++
	}

	n, err := s.shops.ImportLegacy(ctx)
	if err != nil {
		return resp, err
	}
	resp.LegacyImported = n

	logger.FromContext(ctx).Info("[Storage] 导入完成",
		zap.Int("written", resp.Written), zap.Int("legacy_imported", n))
	return resp, nil
}
