package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"peermall/internal/api/dto"
	"peermall/internal/model"
	"peermall/internal/repository"
	"peermall/pkg/logger"
)

// ==================== InquiryService 咨询服务 ====================

// InquiryService 咨询工单服务
// 状态流转：접수됨 在首条非管理员回复时变为 답변중；답변완료 只能由管理员设置
type InquiryService struct {
	repo repository.InquiryRepository
}

// NewInquiryService 创建咨询服务
func NewInquiryService(repo repository.InquiryRepository) *InquiryService {
	return &InquiryService{repo: repo}
}

// List 咨询列表
func (s *InquiryService) List(ctx context.Context, req *dto.InquiryListReq) (*dto.PageResp[model.Inquiry], error) {
	status := model.InquiryStatus(req.Status)
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}

	list, total, err := s.repo.List(ctx, repository.InquiryFilter{
		Status:   status,
		Author:   req.Author,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Inquiry{}
	}
	return &dto.PageResp[model.Inquiry]{List: list, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}

// Get 咨询详情（回复按时间排序）
func (s *InquiryService) Get(ctx context.Context, id int64) (*model.Inquiry, error) {
	inquiry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inquiry == nil {
		return nil, fmt.Errorf("%w: #%d", ErrInquiryNotFound, id)
	}
	return inquiry, nil
}

// Create 提交咨询
func (s *InquiryService) Create(ctx context.Context, author string, req *dto.InquiryCreateReq) (*model.Inquiry, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, ErrEmptyContent
	}

	inquiry := &model.Inquiry{
		Title:   title,
		Content: content,
		Author:  author,
		Status:  model.InquiryStatusReceived,
		Replies: []model.Reply{},
	}
	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("[Inquiry] 咨询已提交", zap.Int64("id", inquiry.ID), zap.String("author", author))
	return inquiry, nil
}

// AddReply 追加回复并按规则推进状态
func (s *InquiryService) AddReply(ctx context.Context, id int64, author string, isAdmin bool, req *dto.ReplyCreateReq) (*model.Inquiry, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	inquiry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := nextInquiryStatus(inquiry.Status, isAdmin)
	reply := &model.Reply{
		InquiryID: id,
		Author:    author,
		Content:   content,
		IsAdmin:   isAdmin,
	}
	if err := s.repo.AddReply(ctx, reply, next); err != nil {
		return nil, err
	}

	if next != "" {
		logger.FromContext(ctx).Info("[Inquiry] 状态变更",
			zap.Int64("id", id), zap.String("from", string(inquiry.Status)), zap.String("to", string(next)))
	}
	return s.Get(ctx, id)
}

// SetStatus 管理员直接设置状态
func (s *InquiryService) SetStatus(ctx context.Context, id int64, status model.InquiryStatus, isAdmin bool) (*model.Inquiry, error) {
	if !isAdmin {
		return nil, ErrForbidden
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	inquiry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// 답변완료 是终态
	if inquiry.Status == model.InquiryStatusAnswered {
		if status == model.InquiryStatusAnswered {
			return inquiry, nil
		}
		return nil, fmt.Errorf("%w: #%d", ErrInquiryClosed, id)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: #%d", ErrInquiryNotFound, id)
		}
		return nil, err
	}
	logger.FromContext(ctx).Info("[Inquiry] 状态变更",
		zap.Int64("id", id), zap.String("from", string(inquiry.Status)), zap.String("to", string(status)))
	return s.Get(ctx, id)
}

// nextInquiryStatus 返回回复后的新状态，不变时返回空
func nextInquiryStatus(current model.InquiryStatus, isAdmin bool) model.InquiryStatus {
	if !isAdmin && current == model.InquiryStatusReceived {
		return model.InquiryStatusInProgress
	}
	return ""
}

// ==================== 错误定义 ====================

var (
	ErrInquiryNotFound = fmt.Errorf("咨询不存在: %w", repository.ErrNotFound)
	ErrInvalidStatus   = errors.New("状态不合法")
	ErrEmptyContent    = errors.New("标题和内容不能为空")
	ErrInquiryClosed   = fmt.Errorf("咨询已答复完结，状态不可再变更: %w", ErrInvalidState)
)
