package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"peermall/internal/api/dto"
	"peermall/internal/model"
	"peermall/internal/repository"
)

// CommunityService 社区帖子服务
type CommunityService struct {
	repo repository.PostRepository
}

// NewCommunityService 创建社区服务
func NewCommunityService(repo repository.PostRepository) *CommunityService {
	return &CommunityService{repo: repo}
}

// List 帖子列表
func (s *CommunityService) List(ctx context.Context, req *dto.PostListReq) (*dto.PageResp[model.CommunityPost], error) {
	list, total, err := s.repo.List(ctx, repository.PostFilter{
		Category: req.Category,
		Keyword:  strings.TrimSpace(req.Keyword),
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.CommunityPost{}
	}
	return &dto.PageResp[model.CommunityPost]{List: list, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}

// Get 帖子详情，浏览数 +1
func (s *CommunityService) Get(ctx context.Context, id int64) (*model.CommunityPost, error) {
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, s.mapErr(err, id)
	}
	return s.load(ctx, id)
}

// Create 发帖，作者为当前昵称
func (s *CommunityService) Create(ctx context.Context, author string, req *dto.PostCreateReq) (*model.CommunityPost, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, ErrEmptyContent
	}

	tags := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	category := req.Category
	if category == "" {
		category = "free"
	}

	post := &model.CommunityPost{
		Title:    title,
		Content:  content,
		Author:   author,
		Category: category,
		Tags:     tags,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Like 点赞
func (s *CommunityService) Like(ctx context.Context, id int64) (*model.CommunityPost, error) {
	if err := s.repo.IncrementLikes(ctx, id); err != nil {
		return nil, s.mapErr(err, id)
	}
	return s.load(ctx, id)
}

func (s *CommunityService) load(ctx context.Context, id int64) (*model.CommunityPost, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("%w: #%d", ErrPostNotFound, id)
	}
	return post, nil
}

func (s *CommunityService) mapErr(err error, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: #%d", ErrPostNotFound, id)
	}
	return err
}

// ErrPostNotFound 帖子不存在
var ErrPostNotFound = fmt.Errorf("帖子不存在: %w", repository.ErrNotFound)
