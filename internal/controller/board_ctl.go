package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"peermall/internal/api/dto"
	"peermall/internal/middleware"
	"peermall/internal/service"
)

// ==================== InquiryController 咨询 ====================

// InquiryController 咨询板
type InquiryController struct {
	inquirySvc *service.InquiryService
}

// NewInquiryController 创建咨询控制器
func NewInquiryController(inquirySvc *service.InquiryService) *InquiryController {
	return &InquiryController{inquirySvc: inquirySvc}
}

// List 咨询列表
// @Summary 咨询列表
// @Tags Board
// @Produce json
// @Param status query string false "状态 접수됨|답변중|답변완료"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Router /api/inquiries [get]
func (c *InquiryController) List(ctx *gin.Context) {
	var req dto.InquiryListReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	resp, err := c.inquirySvc.List(ctx.Request.Context(), &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "ok", resp)
}

// Get 咨询详情
// @Summary 咨询详情（含回复）
// @Tags Board
// @Param id path int true "咨询 ID"
// @Router /api/inquiries/{id} [get]
func (c *InquiryController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	inquiry, err := c.inquirySvc.Get(ctx.Request.Context(), id)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "ok", inquiry)
}

// Create 提交咨询
// @Summary 提交咨询
// @Tags Board
// @Accept json
// @Param request body dto.InquiryCreateReq true "咨询"
// @Router /api/inquiries [post]
func (c *InquiryController) Create(ctx *gin.Context) {
	var req dto.InquiryCreateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	inquiry, err := c.inquirySvc.Create(ctx.Request.Context(), middleware.GetSession(ctx).Nickname, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "咨询已提交", inquiry)
}

// Reply 回复咨询
// @Summary 回复咨询
// @Tags Board
// @Accept json
// @Param id path int true "咨询 ID"
// @Param request body dto.ReplyCreateReq true "回复"
// @Router /api/inquiries/{id}/replies [post]
func (c *InquiryController) Reply(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req dto.ReplyCreateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	session := middleware.GetSession(ctx)
	inquiry, err := c.inquirySvc.AddReply(ctx.Request.Context(), id, session.Nickname, middleware.IsAdmin(ctx), &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "回复成功", inquiry)
}

// SetStatus 修改状态
// @Summary 修改咨询状态（管理员）
// @Tags Board
// @Accept json
// @Param id path int true "咨询 ID"
// @Param request body dto.InquiryStatusReq true "状态"
// @Router /api/inquiries/{id}/status [put]
func (c *InquiryController) SetStatus(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req dto.InquiryStatusReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	inquiry, err := c.inquirySvc.SetStatus(ctx.Request.Context(), id, req.Status, middleware.IsAdmin(ctx))
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "状态已更新", inquiry)
}

// ==================== CommunityController 社区 ====================

// CommunityController 社区帖子
type CommunityController struct {
	communitySvc *service.CommunityService
}

// NewCommunityController 创建社区控制器
func NewCommunityController(communitySvc *service.CommunityService) *CommunityController {
	return &CommunityController{communitySvc: communitySvc}
}

// List 帖子列表
// @Summary 帖子列表
// @Tags Community
// @Param category query string false "分类"
// @Param keyword query string false "关键词"
// @Router /api/community/posts [get]
func (c *CommunityController) List(ctx *gin.Context) {
	var req dto.PostListReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	resp, err := c.communitySvc.List(ctx.Request.Context(), &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "ok", resp)
}

// Get 帖子详情
// @Summary 帖子详情
// @Tags Community
// @Param id path int true "帖子 ID"
// @Router /api/community/posts/{id} [get]
func (c *CommunityController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	post, err := c.communitySvc.Get(ctx.Request.Context(), id)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "ok", post)
}

// Create 发帖
// @Summary 发帖
// @Tags Community
// @Accept json
// @Param request body dto.PostCreateReq true "帖子"
// @Router /api/community/posts [post]
func (c *CommunityController) Create(ctx *gin.Context) {
	var req dto.PostCreateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	post, err := c.communitySvc.Create(ctx.Request.Context(), middleware.GetSession(ctx).Nickname, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "发帖成功", post)
}

// Like 点赞
// @Summary 点赞
// @Tags Community
// @Param id path int true "帖子 ID"
// @Router /api/community/posts/{id}/like [post]
func (c *CommunityController) Like(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	post, err := c.communitySvc.Like(ctx.Request.Context(), id)
	if err != nil {
		fail(ctx, err)
		return
	}
	success(ctx, "ok", post)
}

// parseID 解析路径参数 id，失败时已写响应
func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(400, gin.H{
			"code":    400,
			"message": "无效的 ID",
		})
		return 0, false
	}
	return id, true
}
