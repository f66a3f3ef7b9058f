package dto

import "peermall/internal/model"

// ==================== 咨询 ====================

// InquiryListReq 咨询列表请求
type InquiryListReq struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
	Status   string `form:"status"`
	Author   string `form:"author"`
}

// InquiryCreateReq 提交咨询请求
type InquiryCreateReq struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
}

// ReplyCreateReq 回复请求
type ReplyCreateReq struct {
	Content string `json:"content" binding:"required"`
}

// InquiryStatusReq 修改状态请求（管理员）
type InquiryStatusReq struct {
	Status model.InquiryStatus `json:"status" binding:"required"`
}

// ==================== 社区 ====================

// PostListReq 帖子列表请求
type PostListReq struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
	Category string `form:"category"`
	Keyword  string `form:"keyword"`
}

// PostCreateReq 发帖请求
type PostCreateReq struct {
	Title    string   `json:"title" binding:"required,max=200"`
	Content  string   `json:"content" binding:"required"`
	Category string   `json:"category" binding:"max=50"`
	Tags     []string `json:"tags"`
}

// ==================== 通用 ====================

// PageResp 分页响应
type PageResp[T any] struct {
	List     []T   `json:"list"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
