package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"peermall/internal/model"
	"peermall/pkg/kvstore"
	"peermall/pkg/logger"
)

// QRCodeRepository QR 码列表仓储，整个列表存在一个键里
type QRCodeRepository interface {
	List(ctx context.Context) []model.QRCodeArtifact
	Append(ctx context.Context, artifact model.QRCodeArtifact) error
	RemoveAt(ctx context.Context, index int) error
}

type qrCodeRepo struct {
	store kvstore.Store
}

// NewQRCodeRepository 创建 QR 码仓储
func NewQRCodeRepository(store kvstore.Store) QRCodeRepository {
	return &qrCodeRepo{store: store}
}

// List 读取失败或 JSON 损坏时降级为空列表
func (r *qrCodeRepo) List(ctx context.Context) []model.QRCodeArtifact {
	list, err := r.load(ctx)
	if err != nil {
		return []model.QRCodeArtifact{}
	}
	return list
}

// Append 已有列表损坏时拒绝写入，保留原值
func (r *qrCodeRepo) Append(ctx context.Context, artifact model.QRCodeArtifact) error {
	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	return r.save(ctx, append(list, artifact))
}

func (r *qrCodeRepo) RemoveAt(ctx context.Context, index int) error {
	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(list) {
		return fmt.Errorf("%w: qr code #%d", ErrNotFound, index)
	}
	list = append(list[:index], list[index+1:]...)
	return r.save(ctx, list)
}

// ==================== 辅助方法 ====================

func (r *qrCodeRepo) load(ctx context.Context) ([]model.QRCodeArtifact, error) {
	raw, ok, err := r.store.Get(ctx, model.QRCodeListKey)
	if err != nil {
		logger.FromContext(ctx).Error("[QRCodeRepo] 读取列表失败", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if !ok {
		return []model.QRCodeArtifact{}, nil
	}

	var list []model.QRCodeArtifact
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		logger.FromContext(ctx).Warn("[QRCodeRepo] 列表 JSON 损坏", zap.Error(err))
		return nil, fmt.Errorf("%w: %w: %w", ErrStorage, ErrCorruptData, err)
	}
	if list == nil {
		list = []model.QRCodeArtifact{}
	}
	return list, nil
}

func (r *qrCodeRepo) save(ctx context.Context, list []model.QRCodeArtifact) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if err := r.store.Set(ctx, model.QRCodeListKey, string(data)); err != nil {
		logger.FromContext(ctx).Error("[QRCodeRepo] 写入列表失败", zap.Int("size", len(list)), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}
