package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"peermall/internal/model"
)

// PostRepository 社区帖子仓库接口
type PostRepository interface {
	Create(ctx context.Context, post *model.CommunityPost) error
	GetByID(ctx context.Context, id int64) (*model.CommunityPost, error)
	List(ctx context.Context, filter PostFilter) ([]model.CommunityPost, int64, error)
	IncrementViews(ctx context.Context, id int64) error
	IncrementLikes(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// PostFilter 帖子筛选条件
type PostFilter struct {
	Category string
	Keyword  string
	Page     int
	PageSize int
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建帖子仓库
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.CommunityPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*model.CommunityPost, error) {
	var post model.CommunityPost
	err := r.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &post, err
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]model.CommunityPost, int64, error) {
	var posts []model.CommunityPost
	var total int64

	query := r.db.WithContext(ctx).Model(&model.CommunityPost{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", kw, kw)
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

	err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(filter.PageSize).Find(&posts).Error
	return posts, total, err
}

// IncrementViews 浏览数 +1
func (r *postRepository) IncrementViews(ctx context.Context, id int64) error {
	return r.increment(ctx, id, "views")
}

// IncrementLikes 点赞数 +1
func (r *postRepository) IncrementLikes(ctx context.Context, id int64) error {
	return r.increment(ctx, id, "likes")
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CommunityPost{}).Count(&n).Error
	return n, err
}

func (r *postRepository) increment(ctx context.Context, id int64, column string) error {
	result := r.db.WithContext(ctx).Model(&model.CommunityPost{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
