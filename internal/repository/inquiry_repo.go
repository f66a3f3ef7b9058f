package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"peermall/internal/model"
)

// ==================== InquiryRepository 咨询仓库 ====================

// InquiryRepository 咨询仓库接口
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *model.Inquiry) error
	GetByID(ctx context.Context, id int64) (*model.Inquiry, error)
	List(ctx context.Context, filter InquiryFilter) ([]model.Inquiry, int64, error)
	AddReply(ctx context.Context, reply *model.Reply, status model.InquiryStatus) error
	UpdateStatus(ctx context.Context, id int64, status model.InquiryStatus) error
	CountByStatus(ctx context.Context) (map[model.InquiryStatus]int64, error)
}

// InquiryFilter 咨询筛选条件
type InquiryFilter struct {
	Status   model.InquiryStatus
	Author   string
	Page     int
	PageSize int
}

// ==================== 实现 ====================

type inquiryRepository struct {
	db *gorm.DB
}

// NewInquiryRepository 创建咨询仓库
func NewInquiryRepository(db *gorm.DB) InquiryRepository {
	return &inquiryRepository{db: db}
}

// Create 创建咨询
func (r *inquiryRepository) Create(ctx context.Context, inquiry *model.Inquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}

// GetByID 根据 ID 获取咨询（含回复）
func (r *inquiryRepository) GetByID(ctx context.Context, id int64) (*model.Inquiry, error) {
	var inquiry model.Inquiry
	err := r.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&inquiry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inquiry, err
}

// List 获取咨询列表（不含回复）
func (r *inquiryRepository) List(ctx context.Context, filter InquiryFilter) ([]model.Inquiry, int64, error) {
	var inquiries []model.Inquiry
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Inquiry{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Author != "" {
		query = query.Where("author = ?", filter.Author)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(filter.PageSize).Find(&inquiries).Error
	return inquiries, total, err
}

// AddReply 写入回复，status 非空时在同一事务内更新咨询状态
func (r *inquiryRepository) AddReply(ctx context.Context, reply *model.Reply, status model.InquiryStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		if status == "" {
			return tx.Model(&model.Inquiry{}).Where("id = ?", reply.InquiryID).
				Update("updated_at", reply.CreatedAt).Error
		}
		return tx.Model(&model.Inquiry{}).Where("id = ?", reply.InquiryID).
			Update("status", status).Error
	})
}

// UpdateStatus 更新状态
func (r *inquiryRepository) UpdateStatus(ctx context.Context, id int64, status model.InquiryStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Inquiry{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus 按状态统计
func (r *inquiryRepository) CountByStatus(ctx context.Context) (map[model.InquiryStatus]int64, error) {
	var rows []struct {
		Status model.InquiryStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Inquiry{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[model.InquiryStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}
